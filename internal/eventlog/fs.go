package eventlog

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// FSStorage keeps the log in a directory, optionally mounting a block
// device (the SD card) there first.
type FSStorage struct {
	// Device is the block device to mount, e.g. /dev/mmcblk1p1.
	// Empty means the card is mounted on Dir by the system.
	Device string
	// FSType is the filesystem on Device.
	FSType string
	// Dir is the mount point and log directory.
	Dir string
	// AllowUnmounted accepts a Dir that is not a mount point, creating it
	// if needed. Without it a missing card is reported as a mount failure
	// instead of logging to the root filesystem.
	AllowUnmounted bool
}

// ErrNotMounted is returned by Mount when Dir is not a mount point.
var ErrNotMounted = errors.New("not a mount point")

// Mount mounts Device on Dir. An already-mounted device is not an error.
// With no Device, Dir must already be a mount point.
func (s *FSStorage) Mount() error {
	if s.Device == "" {
		return s.checkDir()
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("eventlog: create %s: %w", s.Dir, err)
	}
	fstype := s.FSType
	if fstype == "" {
		fstype = "vfat"
	}
	mounted, err := mountDevice(s.Device, s.Dir, fstype)
	if mounted {
		log.Printf("eventlog: %s already mounted", s.Device)
		return nil
	}
	if err != nil {
		return fmt.Errorf("eventlog: mount %s on %s: %w", s.Device, s.Dir, err)
	}
	return nil
}

func (s *FSStorage) checkDir() error {
	if s.AllowUnmounted {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return fmt.Errorf("eventlog: create %s: %w", s.Dir, err)
		}
		return nil
	}
	ok, err := isMountPoint(s.Dir)
	if err != nil {
		return fmt.Errorf("eventlog: check %s: %w", s.Dir, err)
	}
	if !ok {
		return fmt.Errorf("eventlog: %s: %w", s.Dir, ErrNotMounted)
	}
	return nil
}

// OpenAppend opens the named file inside Dir.
func (s *FSStorage) OpenAppend(name string) (File, error) {
	path := filepath.Join(s.Dir, name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open %s: %w", path, err)
	}
	return &osFile{f: f}, nil
}

// Path returns the full path of the named log.
func (s *FSStorage) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

type osFile struct {
	f *os.File
}

func (o *osFile) Size() (int64, error) {
	fi, err := o.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (o *osFile) LastByte() (byte, error) {
	size, err := o.Size()
	if err != nil {
		return 0, err
	}
	if size == 0 {
		return 0, io.EOF
	}
	b := make([]byte, 1)
	if _, err := o.f.ReadAt(b, size-1); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (o *osFile) WriteLine(s string) error {
	line := s + LineTerminator
	n, err := o.f.WriteString(line)
	if err != nil {
		return err
	}
	if n != len(line) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(line))
	}
	return nil
}

func (o *osFile) Sync() error {
	return syncFile(o.f)
}

func (o *osFile) Close() error {
	return o.f.Close()
}
