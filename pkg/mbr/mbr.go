// Package mbr decodes the Master Boot Record found in the first sector of
// legacy partitioned disks.
//
// Only the four primary partition table entries are decoded. Extended
// partitions and GPT disks are reported by their partition type and not
// followed.
package mbr

import (
	"encoding/binary"
	"errors"
	"io"

	pkgerrors "github.com/pkg/errors"

	"github.com/mbrtool/mbrtool/pkg/logflags"
)

const (
	// SectorSize is the size of the MBR sector.
	SectorSize = 512
	// PartitionCount is the number of partition table entries.
	PartitionCount = 4

	signatureOff     = 440
	partitionOff     = bootSignatureOff - PartitionCount*EntrySize
	bootSignatureOff = 510

	// BootSignature is the value found in the last two bytes of a bootable MBR.
	BootSignature = 0xAA55
)

// ErrSectorSize is returned by Decode when the input is not exactly
// SectorSize bytes long.
var ErrSectorSize = errors.New("MBR sector must be 512 bytes long")

// Sector is a decoded Master Boot Record.
type Sector struct {
	// Signature is the 32 bit disk signature at offset 440.
	Signature uint32
	// Partitions are the table entries in on-disk order, slot 1 first.
	Partitions [PartitionCount]PartitionEntry
	// BootSignature holds the last two bytes of the sector. It is not
	// checked by Decode.
	BootSignature uint16
}

// HasBootSignature returns true if the sector ends with 0x55 0xAA.
func (s *Sector) HasBootSignature() bool {
	return s.BootSignature == BootSignature
}

// Decode decodes a 512 byte MBR sector.
func Decode(b []byte) (*Sector, error) {
	if len(b) != SectorSize {
		return nil, ErrSectorSize
	}
	logger := logflags.MBRLogger()

	s := &Sector{
		Signature:     binary.LittleEndian.Uint32(b[signatureOff : signatureOff+4]),
		BootSignature: binary.LittleEndian.Uint16(b[bootSignatureOff : bootSignatureOff+2]),
	}
	if logflags.MBR() {
		logger.Debugf("disk signature 0x%08x, boot signature 0x%04x", s.Signature, s.BootSignature)
	}
	for i := range s.Partitions {
		off := partitionOff + i*EntrySize
		e, err := DecodeEntry(b[off : off+EntrySize])
		if err != nil {
			return nil, err
		}
		if logflags.MBR() {
			logger.WithFields(logflags.Fields{"slot": i + 1, "offset": off}).
				Debugf("status 0x%02x type 0x%02x start %v end %v lba %d sectors %d", uint8(e.Status), uint8(e.Type), e.StartCHS, e.EndCHS, e.StartLBA, e.Sectors)
		}
		s.Partitions[i] = e
	}
	return s, nil
}

// Read reads one sector from r and decodes it.
func Read(r io.Reader) (*Sector, error) {
	buf := make([]byte, SectorSize)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, pkgerrors.Wrapf(ErrSectorSize, "short read (%d bytes)", n)
		}
		return nil, pkgerrors.Wrap(err, "reading MBR sector")
	}
	return Decode(buf)
}
