package core

import (
	"fmt"

	"pkt.systems/docshell/schema"
)

// LifecycleErrorKind classifies lifecycle failures.
type LifecycleErrorKind string

const (
	// LifecycleErrorFileOpen indicates the provider could not materialize a tab.
	LifecycleErrorFileOpen LifecycleErrorKind = "file_open"
	// LifecycleErrorSave indicates a save could not be completed.
	LifecycleErrorSave LifecycleErrorKind = "save"
	// LifecycleErrorExport indicates an export could not be completed.
	LifecycleErrorExport LifecycleErrorKind = "export"
)

// LifecycleError wraps open, save, and export failures with a stable classification.
// errors.Is matches schema.ErrFileOpen, schema.ErrSave, or schema.ErrExport by kind.
type LifecycleError struct {
	Kind  LifecycleErrorKind
	Op    string
	TabID schema.TabID
	Path  string
	Err   error
}

func newFileOpenError(op string, file schema.FileDescriptor, err error) *LifecycleError {
	return &LifecycleError{Kind: LifecycleErrorFileOpen, Op: op, Path: file.Path, Err: err}
}

func newSaveError(t *tab, path string, err error) *LifecycleError {
	return &LifecycleError{Kind: LifecycleErrorSave, Op: "save", TabID: t.ID, Path: path, Err: err}
}

func newExportError(t *tab, path string, err error) *LifecycleError {
	return &LifecycleError{Kind: LifecycleErrorExport, Op: "export", TabID: t.ID, Path: path, Err: err}
}

func (e *LifecycleError) Error() string {
	if e == nil {
		return "lifecycle error"
	}
	subject := e.Path
	if subject == "" {
		subject = string(e.TabID)
	}
	msg := fmt.Sprintf("%s failed", e.Op)
	if subject != "" {
		msg = fmt.Sprintf("%s %s failed", e.Op, subject)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *LifecycleError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the kind sentinel for the error.
func (e *LifecycleError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case LifecycleErrorFileOpen:
		return target == schema.ErrFileOpen
	case LifecycleErrorSave:
		return target == schema.ErrSave
	case LifecycleErrorExport:
		return target == schema.ErrExport
	}
	return false
}
