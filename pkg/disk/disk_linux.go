package disk

import (
	"os"

	"golang.org/x/sys/unix"
)

func logicalSectorSize(f *os.File) (int, error) {
	return unix.IoctlGetInt(int(f.Fd()), unix.BLKSSZGET)
}
