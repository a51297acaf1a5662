//go:build linux

package eventlog

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// mountDevice mounts dev on dir. It reports true if dev was already mounted.
func mountDevice(dev, dir, fstype string) (bool, error) {
	err := unix.Mount(dev, dir, fstype, unix.MS_NOATIME, "")
	if err == unix.EBUSY {
		return true, nil
	}
	return false, err
}

// syncFile uses fdatasync: only the data and size need to reach the card.
func syncFile(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}

// isMountPoint reports whether dir is the root of a mounted filesystem:
// it sits on a different device than its parent, or it is its own parent.
func isMountPoint(dir string) (bool, error) {
	var st, parent unix.Stat_t
	if err := unix.Stat(dir, &st); err != nil {
		return false, err
	}
	if st.Mode&unix.S_IFMT != unix.S_IFDIR {
		return false, unix.ENOTDIR
	}
	if err := unix.Stat(filepath.Join(dir, ".."), &parent); err != nil {
		return false, err
	}
	if st.Dev != parent.Dev {
		return true, nil
	}
	return st.Ino == parent.Ino, nil
}
