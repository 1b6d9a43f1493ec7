//go:build !linux
// +build !linux

package disk

import (
	"errors"
	"os"
)

func logicalSectorSize(f *os.File) (int, error) {
	return 0, errors.New("not supported")
}
