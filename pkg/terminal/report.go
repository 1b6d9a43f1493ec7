package terminal

import (
	"fmt"

	"github.com/mbrtool/mbrtool/pkg/geometry"
	"github.com/mbrtool/mbrtool/pkg/mbr"
)

// SectorReport is the YAML form of a decoded MBR sector.
type SectorReport struct {
	Signature     string            `yaml:"signature"`
	BootSignature string            `yaml:"boot-signature"`
	Partitions    []PartitionReport `yaml:"partitions"`
}

// PartitionReport is the YAML form of one partition table entry.
type PartitionReport struct {
	Slot     int           `yaml:"slot"`
	Type     string        `yaml:"type"`
	TypeCode string        `yaml:"type-code"`
	Status   string        `yaml:"status,omitempty"`
	StartCHS *geometry.CHS `yaml:"start-chs,omitempty"`
	EndCHS   *geometry.CHS `yaml:"end-chs,omitempty"`
	StartLBA string        `yaml:"start-lba,omitempty"`
	LastLBA  string        `yaml:"last-lba,omitempty"`
	Sectors  *uint32       `yaml:"sectors,omitempty"`
	Size     string        `yaml:"size,omitempty"`
}

// NewSectorReport converts s. Empty entries only carry their slot and type
// unless showEmpty is set.
func NewSectorReport(s *mbr.Sector, showEmpty bool) *SectorReport {
	r := &SectorReport{
		Signature:     fmt.Sprintf("0x%08x", s.Signature),
		BootSignature: fmt.Sprintf("0x%04x", s.BootSignature),
		Partitions:    make([]PartitionReport, 0, len(s.Partitions)),
	}
	for i := range s.Partitions {
		e := &s.Partitions[i]
		pr := PartitionReport{
			Slot:     i + 1,
			Type:     e.Type.Label(),
			TypeCode: fmt.Sprintf("0x%02x", uint8(e.Type)),
		}
		if !e.Empty() || showEmpty {
			start, end, sectors := e.StartCHS, e.EndCHS, e.Sectors
			pr.Status = fmt.Sprintf("%s (0x%02x)", e.Status, uint8(e.Status))
			pr.StartCHS = &start
			pr.EndCHS = &end
			pr.StartLBA = fmt.Sprintf("0x%08x", e.StartLBA)
			pr.LastLBA = fmt.Sprintf("0x%08x", e.LastLBA())
			pr.Sectors = &sectors
			pr.Size = mbr.HumanSize(e.Size())
		}
		r.Partitions = append(r.Partitions, pr)
	}
	return r
}
