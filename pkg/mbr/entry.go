package mbr

import (
	"encoding/binary"
	"errors"

	"github.com/mbrtool/mbrtool/pkg/geometry"
)

// EntrySize is the size of a partition table entry.
const EntrySize = 16

// ErrEntrySize is returned by DecodeEntry when the input is not exactly
// EntrySize bytes long.
var ErrEntrySize = errors.New("partition table entry must be 16 bytes long")

// PartitionEntry is one slot of the partition table.
type PartitionEntry struct {
	Status Status
	Type   PartitionType

	StartCHS geometry.CHS
	EndCHS   geometry.CHS
	// RawStartCHS and RawEndCHS hold the packed 3-byte CHS fields as
	// little-endian 24-bit values.
	RawStartCHS uint32
	RawEndCHS   uint32

	StartLBA uint32
	Sectors  uint32
}

// Empty returns true if the slot is unused. The other fields of an empty
// entry carry no meaning.
func (e *PartitionEntry) Empty() bool {
	return e.Type == TypeEmpty
}

// Size returns the size of the partition in bytes.
func (e *PartitionEntry) Size() uint64 {
	return uint64(e.Sectors) * SectorSize
}

// LastLBA returns the address of the last sector of the partition.
func (e *PartitionEntry) LastLBA() uint64 {
	if e.Sectors == 0 {
		return uint64(e.StartLBA)
	}
	return uint64(e.StartLBA) + uint64(e.Sectors) - 1
}

// DecodeEntry decodes a 16 byte partition table entry:
//
//	0      status
//	1-3    CHS address of the first sector
//	4      partition type
//	5-7    CHS address of the last sector
//	8-11   LBA of the first sector
//	12-15  number of sectors
//
// Multi-byte fields are little-endian. Unknown partition types are not an
// error, see PartitionType.Label.
func DecodeEntry(b []byte) (PartitionEntry, error) {
	if len(b) != EntrySize {
		return PartitionEntry{}, ErrEntrySize
	}
	var startCHS, endCHS [3]byte
	copy(startCHS[:], b[1:4])
	copy(endCHS[:], b[5:8])
	return PartitionEntry{
		Status:      Status(b[0]),
		Type:        PartitionType(b[4]),
		StartCHS:    geometry.Unpack(startCHS),
		EndCHS:      geometry.Unpack(endCHS),
		RawStartCHS: geometry.Raw(startCHS),
		RawEndCHS:   geometry.Raw(endCHS),
		StartLBA:    binary.LittleEndian.Uint32(b[8:12]),
		Sectors:     binary.LittleEndian.Uint32(b[12:16]),
	}, nil
}
