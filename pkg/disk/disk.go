// Package disk opens disk images and block devices for reading their first
// sector.
package disk

import (
	"os"

	"github.com/pkg/errors"

	"github.com/mbrtool/mbrtool/pkg/logflags"
)

// Open opens the disk image or block device at path. The caller must close
// the returned file.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	logger := logflags.DiskLogger().WithField("path", path)

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	switch {
	case fi.IsDir():
		f.Close()
		return nil, errors.Errorf("%s is a directory", path)
	case fi.Mode()&os.ModeDevice != 0:
		ssz, err := logicalSectorSize(f)
		if err != nil {
			if logflags.Disk() {
				logger.WithError(err).Debug("could not query logical sector size")
			}
			break
		}
		if logflags.Disk() {
			logger.Debugf("block device, logical sector size %d", ssz)
		}
		if ssz != 512 {
			logger.Warnf("logical sector size is %d bytes, decoding the first 512", ssz)
		}
	default:
		if logflags.Disk() {
			logger.Debugf("image file, %d bytes", fi.Size())
		}
	}
	return f, nil
}
