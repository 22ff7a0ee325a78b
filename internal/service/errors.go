package service

import (
	"errors"
	"fmt"
)

// ErrUploadBusy is returned when another upload already holds the batch
// replacement lock for the same resource.
var ErrUploadBusy = errors.New("another upload for this resource is in progress")

// Persistence path names reported to callers.
const (
	PathTransactional = "transactional"
	PathDirect        = "direct"
	PathBatchReplace  = "batch-replace"
)

// PersistenceError covers the fatal upload outcomes: both reconciliation
// paths failed, or the batch replacement transaction failed.
// It names the path that failed so the caller can reason about store state,
// and it is always safe to retry the upload after one.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed on %s path: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
