//go:build linux

package eventlog

import (
	"errors"
	"testing"
)

func TestIsMountPoint(t *testing.T) {
	ok, err := isMountPoint("/")
	if err != nil {
		t.Fatalf("isMountPoint(/): %v", err)
	}
	if !ok {
		t.Error("expected / to be a mount point")
	}

	ok, err = isMountPoint(t.TempDir())
	if err != nil {
		t.Fatalf("isMountPoint(tempdir): %v", err)
	}
	if ok {
		t.Error("expected a fresh temp directory not to be a mount point")
	}
}

func TestFSStorageNotMountedError(t *testing.T) {
	st := &FSStorage{Dir: t.TempDir()}
	if err := st.Mount(); !errors.Is(err, ErrNotMounted) {
		t.Errorf("expected ErrNotMounted, got %v", err)
	}

	st.AllowUnmounted = true
	if err := st.Mount(); err != nil {
		t.Errorf("AllowUnmounted: unexpected error %v", err)
	}
}
