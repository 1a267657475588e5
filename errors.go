package main

import (
	"errors"
	"fmt"
)

// Batch level errors. Any of these aborts the batch before a single file is attempted.
var (
	ErrMissingCredentials = errors.New("missing AWS credentials")
	ErrMissingBucket      = errors.New("missing bucket name")
	ErrStoreConnection    = errors.New("store connection failed")
)

// Per-file errors. These fail one candidate only.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrNotRegularFile   = errors.New("not a regular file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrSizeProbe        = errors.New("size check failed")
	ErrTransfer         = errors.New("transfer failed")
	ErrExistenceUnknown = errors.New("object existence unknown")
)

// FileError carries the context of a failed candidate: which step failed, for which path and key.
type FileError struct {
	Op   string
	Path string
	Key  string
	Err  error
}

func (e *FileError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s (key %s): %v", e.Op, e.Path, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func newFileError(op, path, key string, err error) *FileError {
	return &FileError{Op: op, Path: path, Key: key, Err: err}
}
