package editor

import "errors"

// Sentinel errors for session validation and lifecycle.
var (
	// ErrNotLoaded indicates an operation on a session with no document.
	ErrNotLoaded = errors.New("no document loaded")
	// ErrSaveInProgress indicates Save was called while a save is running.
	ErrSaveInProgress = errors.New("a save is already in progress")
	// ErrNoParentCapability indicates an enabler save without a parent
	// capability id.
	ErrNoParentCapability = errors.New("enabler has no parent capability selected")
	// ErrNoTargetDir indicates a save of a new document without a target
	// directory.
	ErrNoTargetDir = errors.New("no save directory selected")
	// ErrCapabilityNotFound indicates a move could not locate the
	// capability in the server index.
	ErrCapabilityNotFound = errors.New("capability not found in server index")
)
