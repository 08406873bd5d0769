package store

import "fmt"

// StorageReadError means the durable file exists but could not be read.
type StorageReadError struct {
	Path string
	Err  error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("reading subscriber store %s: %v", e.Path, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// StorageCorruptError means the durable file is not a well-formed list.
type StorageCorruptError struct {
	Path string
	Err  error
}

func (e *StorageCorruptError) Error() string {
	return fmt.Sprintf("subscriber store %s is corrupt: %v", e.Path, e.Err)
}

func (e *StorageCorruptError) Unwrap() error { return e.Err }

// StorageWriteError means the collection could not be persisted.
type StorageWriteError struct {
	Path string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("writing subscriber store %s: %v", e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }
