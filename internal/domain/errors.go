package domain

import "errors"

var (
	ErrModNotFound     = errors.New("mod not found")
	ErrGameNotFound    = errors.New("game not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrNotCached       = errors.New("mod not in cache")
	ErrFileConflict    = errors.New("file conflict detected")
	ErrDependencyLoop  = errors.New("dependency loop detected")
)

// Deployment error kinds. Match with errors.Is.
var (
	ErrScan    = errors.New("scan failed")      // building a file tree failed
	ErrWrite   = errors.New("write failed")     // copy, rename, delete or mkdir failed
	ErrGeneric = errors.New("operation failed") // removal failed outside a plain write
)

// DeployError is the single structured error a deployment operation returns
type DeployError struct {
	Kind   error  // One of ErrScan, ErrWrite, ErrGeneric
	Action string // What was being attempted, e.g. "copying file to"
	Path   string // Path involved
	Err    error  // Underlying cause
	Hint   string // Suggested remediation
}

func (e *DeployError) Error() string {
	msg := e.Action
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *DeployError) Unwrap() error {
	return e.Err
}

// Is matches the error kind
func (e *DeployError) Is(target error) bool {
	return target == e.Kind
}

// NewDeployError wraps err with deployment context. An err that already carries a
// DeployError is returned unchanged so the innermost context wins.
func NewDeployError(kind error, action, path string, err error, hint string) error {
	var de *DeployError
	if errors.As(err, &de) {
		return err
	}
	return &DeployError{
		Kind:   kind,
		Action: action,
		Path:   path,
		Err:    err,
		Hint:   hint,
	}
}

// HintOf returns the remediation hint carried by err, if any
func HintOf(err error) string {
	var de *DeployError
	if errors.As(err, &de) {
		return de.Hint
	}
	return ""
}
