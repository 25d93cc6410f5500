package linker

import (
	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
)

// OpKind distinguishes single-file placements from whole-folder placements
type OpKind string

const (
	OpFile OpKind = "file"
	OpDir  OpKind = "dir"
)

// Operation is one placement a linker was asked to perform
type Operation struct {
	Kind OpKind `json:"kind"`
	Src  string `json:"src"`
	Dst  string `json:"dst"`
}

// Recorder is a Linker that records operations without touching any filesystem.
// It backs dry-run planning.
type Recorder struct {
	Operations []Operation
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Deploy records a file placement
func (r *Recorder) Deploy(src, dst string) error {
	r.Operations = append(r.Operations, Operation{Kind: OpFile, Src: src, Dst: dst})
	return nil
}

// DeployDir records a folder placement as a single operation
func (r *Recorder) DeployDir(src, dst string) ([]string, error) {
	r.Operations = append(r.Operations, Operation{Kind: OpDir, Src: src, Dst: dst})
	return nil, nil
}

// Method reports copy, the method a real run would default to
func (r *Recorder) Method() domain.LinkMethod {
	return domain.LinkCopy
}
