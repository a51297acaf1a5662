package eventlog

import (
	"errors"
	"io"
	"strings"
)

// FakeStorage is an in-memory Storage for tests.
type FakeStorage struct {
	// Existing is the content of the log before the session starts.
	Existing string

	// MountError, if set, is returned by Mount.
	MountError error
	// OpenError, if set, is returned by OpenAppend.
	OpenError error

	// File is the handle returned by OpenAppend.
	File *FakeFile

	Mounted bool
}

// NewFakeStorage creates a storage holding an empty log.
func NewFakeStorage() *FakeStorage {
	return &FakeStorage{}
}

// Mount records the mount or returns MountError.
func (s *FakeStorage) Mount() error {
	if s.MountError != nil {
		return s.MountError
	}
	s.Mounted = true
	return nil
}

// OpenAppend returns a FakeFile seeded with Existing.
func (s *FakeStorage) OpenAppend(name string) (File, error) {
	if !s.Mounted {
		return nil, errors.New("not mounted")
	}
	if s.OpenError != nil {
		return nil, s.OpenError
	}
	if s.File == nil {
		s.File = &FakeFile{Name: name}
		s.File.buf.WriteString(s.Existing)
	}
	return s.File, nil
}

// FakeFile is an in-memory File.
type FakeFile struct {
	Name string

	buf strings.Builder

	// WriteError, if set, is returned by WriteLine (nothing is written).
	WriteError error
	// SyncError, if set, is returned by Sync.
	SyncError error

	// Writes counts WriteLine calls, including failed ones.
	Writes int
	// Syncs counts successful Sync calls.
	Syncs int

	Closed bool
}

func (f *FakeFile) Size() (int64, error) {
	return int64(f.buf.Len()), nil
}

func (f *FakeFile) LastByte() (byte, error) {
	s := f.buf.String()
	if s == "" {
		return 0, io.EOF
	}
	return s[len(s)-1], nil
}

func (f *FakeFile) WriteLine(s string) error {
	f.Writes++
	if f.WriteError != nil {
		return f.WriteError
	}
	f.buf.WriteString(s)
	f.buf.WriteString(LineTerminator)
	return nil
}

func (f *FakeFile) Sync() error {
	if f.SyncError != nil {
		return f.SyncError
	}
	f.Syncs++
	return nil
}

func (f *FakeFile) Close() error {
	f.Closed = true
	return nil
}

// Contents returns everything written so far.
func (f *FakeFile) Contents() string {
	return f.buf.String()
}
