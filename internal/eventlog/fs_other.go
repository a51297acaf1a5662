//go:build !linux

package eventlog

import (
	"errors"
	"os"
)

func mountDevice(dev, dir, fstype string) (bool, error) {
	return false, errors.New("mounting devices requires Linux")
}

func syncFile(f *os.File) error {
	return f.Sync()
}

func isMountPoint(dir string) (bool, error) {
	return false, errors.New("mount point detection requires Linux")
}
