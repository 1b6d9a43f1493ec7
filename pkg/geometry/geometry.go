// Package geometry converts between Cylinder-Head-Sector and Logical Block
// Address disk addressing, using the fixed translation geometry found in
// MBR partition tables.
package geometry

import "fmt"

const (
	// HeadsPerCylinder is the number of heads, numbered 0 to 15.
	HeadsPerCylinder = 16
	// SectorsPerTrack is the number of sectors per track. Sectors are
	// numbered from 1 to 63 and fit in 6 bits.
	SectorsPerTrack = 63
	// MaxCylinders is the number of cylinders addressable with 10 bits.
	MaxCylinders = 1024
)

// CHS is a Cylinder-Head-Sector address.
type CHS struct {
	Cylinder uint32 `yaml:"cylinder"`
	Head     uint32 `yaml:"head"`
	Sector   uint32 `yaml:"sector"`
}

func (chs CHS) String() string {
	return fmt.Sprintf("%d/%d/%d", chs.Cylinder, chs.Head, chs.Sector)
}

// ToLBA returns the logical block address of chs:
//
//	LBA = (C × HPC + H) × SPT + (S - 1)
//
// The address is not validated, sector 0 or a head above 15 produce a
// meaningless result.
func ToLBA(chs CHS) uint32 {
	return chs.Cylinder*HeadsPerCylinder*SectorsPerTrack + chs.Head*SectorsPerTrack + (chs.Sector - 1)
}

// FromLBA is the inverse of ToLBA.
func FromLBA(lba uint32) CHS {
	return CHS{
		Cylinder: lba / (SectorsPerTrack * HeadsPerCylinder),
		Head:     (lba / SectorsPerTrack) % HeadsPerCylinder,
		Sector:   lba%SectorsPerTrack + 1,
	}
}

// Unpack decodes the 3-byte CHS field of a partition table entry. The
// first byte is the head, the low 6 bits of the second byte are the sector
// and the cylinder takes 10 bits: the top 2 bits of the second byte
// followed by the third byte.
func Unpack(raw [3]byte) CHS {
	return CHS{
		Head:     uint32(raw[0]),
		Sector:   uint32(raw[1] & 0x3F),
		Cylinder: uint32(raw[2]) | uint32(raw[1]&0xC0)<<2,
	}
}

// Raw returns the 3-byte CHS field as a little-endian 24-bit value.
func Raw(raw [3]byte) uint32 {
	return uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16
}
