package steam

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// KeyValues is a parsed Valve KeyValues (VDF) object. Values are either
// strings or nested KeyValues.
type KeyValues map[string]any

// Child returns the nested object under key, ignoring case
func (kv KeyValues) Child(key string) (KeyValues, bool) {
	v, ok := kv.lookup(key)
	if !ok {
		return nil, false
	}
	child, ok := v.(KeyValues)
	return child, ok
}

// String returns the string value under key, ignoring case
func (kv KeyValues) String(key string) string {
	v, _ := kv.lookup(key)
	s, _ := v.(string)
	return s
}

func (kv KeyValues) lookup(key string) (any, bool) {
	if v, ok := kv[key]; ok {
		return v, true
	}
	for k, v := range kv {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

type vdfLexer struct {
	r *bufio.Reader
}

const (
	tokString = iota
	tokOpen
	tokClose
	tokEOF
)

// next returns the next token kind and, for strings, its text
func (l *vdfLexer) next() (int, string, error) {
	for {
		c, _, err := l.r.ReadRune()
		if errors.Is(err, io.EOF) {
			return tokEOF, "", nil
		}
		if err != nil {
			return tokEOF, "", err
		}
		switch {
		case unicode.IsSpace(c):
			continue
		case c == '{':
			return tokOpen, "", nil
		case c == '}':
			return tokClose, "", nil
		case c == '"':
			s, err := l.quoted()
			return tokString, s, err
		case c == '/':
			if p, _ := l.r.Peek(1); len(p) == 1 && p[0] == '/' {
				if _, err := l.r.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
					return tokEOF, "", err
				}
				continue
			}
			return tokString, "/" + l.bare(), nil
		default:
			_ = l.r.UnreadRune()
			return tokString, l.bare(), nil
		}
	}
}

func (l *vdfLexer) quoted() (string, error) {
	var b strings.Builder
	for {
		c, _, err := l.r.ReadRune()
		if err != nil {
			return "", fmt.Errorf("vdf: unterminated string %q", b.String())
		}
		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			esc, _, err := l.r.ReadRune()
			if err != nil {
				return "", fmt.Errorf("vdf: unterminated string %q", b.String())
			}
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(c)
		}
	}
}

func (l *vdfLexer) bare() string {
	var b strings.Builder
	for {
		c, _, err := l.r.ReadRune()
		if err != nil {
			return b.String()
		}
		if unicode.IsSpace(c) || c == '"' || c == '{' || c == '}' {
			_ = l.r.UnreadRune()
			return b.String()
		}
		b.WriteRune(c)
	}
}

// ParseVDF reads a KeyValues document such as libraryfolders.vdf or an appmanifest
func ParseVDF(r io.Reader) (KeyValues, error) {
	l := &vdfLexer{r: bufio.NewReader(r)}
	root, err := parseObject(l, true)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// parseObject reads key/value pairs until the closing brace, or EOF at top level
func parseObject(l *vdfLexer, top bool) (KeyValues, error) {
	obj := make(KeyValues)
	for {
		kind, key, err := l.next()
		if err != nil {
			return nil, err
		}
		switch kind {
		case tokEOF:
			if !top {
				return nil, fmt.Errorf("vdf: missing closing brace")
			}
			return obj, nil
		case tokClose:
			if top {
				return nil, fmt.Errorf("vdf: unexpected closing brace")
			}
			return obj, nil
		case tokOpen:
			return nil, fmt.Errorf("vdf: object without a key")
		}

		kind, val, err := l.next()
		if err != nil {
			return nil, err
		}
		switch kind {
		case tokString:
			obj[key] = val
		case tokOpen:
			child, err := parseObject(l, false)
			if err != nil {
				return nil, err
			}
			obj[key] = child
		default:
			return nil, fmt.Errorf("vdf: key %q has no value", key)
		}
	}
}
