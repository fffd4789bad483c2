package persist

import "errors"

// LockFileName is the lock file guarding a state directory.
const LockFileName = "docshell.lock"

// ErrLocked indicates another docshell instance holds the state directory.
var ErrLocked = errors.New("state directory is locked by another instance")
