// Copyright © 2026 Martin Tournoij <martin@arp242.net>
// This file is part of FrameCount and published under the terms of the EUPL
// v1.2, which can be found in the LICENSE file or at http://eupl12.zgo.at

package framecount

import (
	"io"
	"os"
	"sync"

	"zgo.at/errors"
	"zgo.at/zlog"
)

// Storage owns the snapshot file; it's opened once at startup and kept open.
// The file is only ever a point-in-time copy of the Visits table: it's read
// once in Load() and rewritten in full on every Persist().
//
// The mutex serializes flushes, so the periodic flush and the final flush on
// shutdown can never write at the same time.
type Storage struct {
	mu sync.Mutex
	fp *os.File
}

func OpenStorage(path string) (*Storage, error) {
	fp, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "OpenStorage")
	}
	return &Storage{fp: fp}, nil
}

// Load reads the snapshot and returns the visit table it describes. A file
// that can't be read is treated as empty: better to start counting from
// scratch than to not start at all.
func (s *Storage) Load() *Visits {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := NewVisits()
	if _, err := s.fp.Seek(0, io.SeekStart); err != nil {
		zlog.Module("storage").Error(errors.Wrap(err, "Storage.Load"))
		return v
	}
	text, err := io.ReadAll(s.fp)
	if err != nil {
		zlog.Module("storage").Error(errors.Wrap(err, "Storage.Load"))
		return v
	}

	v.visits = decode(string(text))
	return v
}

// Persist writes a fresh snapshot of the visit table. The snapshot is copied
// under the table's lock, but the file I/O happens outside of it, so requests
// aren't serialized behind disk latency.
func (s *Storage) Persist(v *Visits) error {
	text := encode(v.Snapshot())

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.fp.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "Storage.Persist")
	}
	n, err := s.fp.WriteString(text)
	if err != nil {
		return errors.Wrap(err, "Storage.Persist")
	}

	// Truncate to the new length; without this a shrinking snapshot leaves
	// stale trailing bytes from the previous one.
	if err := s.fp.Truncate(int64(n)); err != nil {
		return errors.Wrap(err, "Storage.Persist")
	}
	return errors.Wrap(s.fp.Sync(), "Storage.Persist")
}

func (s *Storage) Close() error { return s.fp.Close() }
