// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/telekom/series-registry/pkg/metrics"
)

var emptyList = []byte("[]")

// FileStore keeps the subscriber collection in one JSON file.
type FileStore struct {
	path string
	log  *zap.SugaredLogger
}

// NewFileStore returns a store for the given file. Nothing is touched on disk
// until EnsureExists, Load or Save is called.
func NewFileStore(path string, log *zap.SugaredLogger) *FileStore {
	return &FileStore{
		path: path,
		log:  log.Named("store"),
	}
}

// Path returns the location of the durable file.
func (s *FileStore) Path() string {
	return s.path
}

// EnsureExists creates the parent directory and an empty list when the file
// is missing. It is safe to call before every read.
func (s *FileStore) EnsureExists(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return &StorageReadError{Path: s.path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &StorageWriteError{Path: s.path, Err: err}
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		// created concurrently
		return nil
	}
	if err != nil {
		return &StorageWriteError{Path: s.path, Err: err}
	}
	if _, err := f.Write(emptyList); err != nil {
		_ = f.Close()
		return &StorageWriteError{Path: s.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &StorageWriteError{Path: s.path, Err: err}
	}
	s.log.Infow("Created empty subscriber store", "path", s.path)
	return nil
}

// Load returns the full current collection, creating an empty store first
// when none exists.
func (s *FileStore) Load(ctx context.Context) ([]Subscriber, error) {
	if err := s.EnsureExists(ctx); err != nil {
		metrics.StoreErrors.WithLabelValues("load").Inc()
		return nil, err
	}
	list, err := s.read()
	if err != nil {
		metrics.StoreErrors.WithLabelValues("load").Inc()
	}
	return list, err
}

// List returns the stored collection without touching the disk. A missing
// file yields an empty list.
func (s *FileStore) List(ctx context.Context) ([]Subscriber, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return []Subscriber{}, nil
	}
	return s.read()
}

func (s *FileStore) read() ([]Subscriber, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &StorageReadError{Path: s.path, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = emptyList
	}

	var list []Subscriber
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &StorageCorruptError{Path: s.path, Err: err}
	}
	if list == nil {
		list = []Subscriber{}
	}
	return list, nil
}

// Save overwrites the durable file with the given collection. The new content
// is written to a temporary file in the same directory and renamed into
// place, so a concurrent Load sees either the old or the new list.
func (s *FileStore) Save(ctx context.Context, list []Subscriber) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if list == nil {
		list = []Subscriber{}
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		metrics.StoreErrors.WithLabelValues("save").Inc()
		return &StorageWriteError{Path: s.path, Err: err}
	}

	if err := s.writeAtomic(data); err != nil {
		metrics.StoreErrors.WithLabelValues("save").Inc()
		return &StorageWriteError{Path: s.path, Err: err}
	}
	s.log.Debugw("Saved subscriber store", "path", s.path, "subscribers", len(list))
	return nil
}

func (s *FileStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return err
	}
	return nil
}
