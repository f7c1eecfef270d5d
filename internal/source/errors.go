package source

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRepository means the path is missing or not inside a git work tree.
	ErrNotRepository = errors.New("not a git repository")
	// ErrBareRepository means the path is a bare repository with no work tree.
	ErrBareRepository = errors.New("bare repository")
	// ErrDirtyWorktree means tracked files have uncommitted changes.
	ErrDirtyWorktree = errors.New("uncommitted changes")
	// ErrNoTag means no tag is reachable from HEAD.
	ErrNoTag = errors.New("no tag reachable from HEAD")
)

// StateError reports a working copy in a state the generator refuses to read.
type StateError struct {
	Path string
	Err  error
	Hint string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }
