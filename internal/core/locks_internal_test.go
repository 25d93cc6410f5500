package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileLocks_DropsUnusedEntries(t *testing.T) {
	locks := NewProfileLocks()

	first := locks.Lock("/profiles/a")
	waiting := make(chan func())
	go func() { waiting <- locks.Lock("/profiles/a/") }()

	first()
	second := <-waiting
	assert.Len(t, locks.locks, 1, "entry stays while the profile is held")

	second()
	assert.Empty(t, locks.locks)

	locks.Lock("/profiles/b")()
	assert.Empty(t, locks.locks)
}
