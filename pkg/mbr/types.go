package mbr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/derekparker/trie"
)

// Status is the first byte of a partition table entry.
type Status uint8

// StatusKind classifies a Status byte.
type StatusKind uint8

const (
	StatusInactive StatusKind = iota // 0x00
	StatusInvalid                    // 0x01 - 0x7f
	StatusBootable                   // 0x80 - 0xff
)

func (k StatusKind) String() string {
	switch k {
	case StatusInactive:
		return "Inactive"
	case StatusInvalid:
		return "Invalid"
	case StatusBootable:
		return "Bootable"
	}
	return "?"
}

// Kind returns the classification of s. Any value with the top bit set
// marks a bootable partition.
func (s Status) Kind() StatusKind {
	switch {
	case s == 0:
		return StatusInactive
	case s&0x80 != 0:
		return StatusBootable
	default:
		return StatusInvalid
	}
}

func (s Status) String() string {
	return s.Kind().String()
}

// PartitionType is the partition type byte of a partition table entry.
type PartitionType uint8

const (
	TypeEmpty    PartitionType = 0x00
	TypeFAT32LBA PartitionType = 0x0c
	TypeNTFS     PartitionType = 0x07
	TypeLinux    PartitionType = 0x83
	TypeGPT      PartitionType = 0xee
)

var partitionTypeLabels = map[PartitionType]string{
	0x00: "Empty",
	0x01: "FAT12, CHS",
	0x04: "FAT16, 16-32 MB, CHS",
	0x05: "Microsoft Extended, CHS",
	0x06: "FAT16, 32 MB-2GB, CHS",
	0x07: "NTFS",
	0x0b: "FAT32, CHS",
	0x0c: "FAT32, LBA",
	0x0e: "FAT16, 32 MB-2GB, LBA",
	0x0f: "Microsoft Extended, LBA",
	0x11: "Hidden Fat12, CHS",
	0x14: "Hidden FAT16, 16-32 MB, CHS",
	0x16: "Hidden FAT16, 32 MB-2GB, CHS",
	0x1b: "Hidden FAT32, CHS",
	0x1c: "Hidden FAT32, LBA",
	0x1e: "Hidden FAT16, 32 MB-2GB, LBA",
	0x27: "Windows Recovery Environment",
	0x42: "Microsoft MBR, Dynamic Disk",
	0x82: "Solaris x86 -or- Linux Swap",
	0x83: "Linux",
	0x84: "Hibernation",
	0x85: "Linux Extended",
	0x86: "NTFS Volume Set",
	0x87: "NTFS Volume SET",
	0xa0: "Hibernation",
	0xa1: "Hibernation",
	0xa5: "FreeBSD",
	0xa6: "OpenBSD",
	0xa8: "Mac OSX",
	0xa9: "NetBSD",
	0xab: "Mac OSX Boot",
	0xb7: "BSDI",
	0xb8: "BSDI swap",
	0xdb: "Recovery Partition",
	0xde: "Dell Diagnostic Partition",
	0xee: "EFI GPT Disk",
	0xef: "EFI System Partition",
	0xfb: "Vmware File System",
	0xfc: "Vmware swap",
}

// Known returns true if t has a label.
func (t PartitionType) Known() bool {
	_, ok := partitionTypeLabels[t]
	return ok
}

// Label returns the human readable name of t, or "Unknown (0xNN)" for
// codes missing from the table.
func (t PartitionType) Label() string {
	if l, ok := partitionTypeLabels[t]; ok {
		return l
	}
	return fmt.Sprintf("Unknown (0x%02x)", uint8(t))
}

// String returns the label followed by the type code, unknown types are
// printed as their label alone.
func (t PartitionType) String() string {
	if !t.Known() {
		return t.Label()
	}
	return fmt.Sprintf("%s (0x%02x)", t.Label(), uint8(t))
}

// KnownTypes returns every labeled partition type, sorted by code.
func KnownTypes() []PartitionType {
	r := make([]PartitionType, 0, len(partitionTypeLabels))
	for t := range partitionTypeLabels {
		r = append(r, t)
	}
	sort.Slice(r, func(i, j int) bool { return r[i] < r[j] })
	return r
}

// typeIndex maps lowercased labels to partition types. Keys carry the
// type code because several codes share a label.
var typeIndex = func() *trie.Trie {
	t := trie.New()
	for code, label := range partitionTypeLabels {
		t.Add(typeKey(code, label), code)
	}
	return t
}()

func typeKey(code PartitionType, label string) string {
	return fmt.Sprintf("%s#%02x", strings.ToLower(label), uint8(code))
}

// LookupTypes returns the partition types whose label starts with prefix,
// ignoring case, sorted by code. An empty prefix returns KnownTypes().
func LookupTypes(prefix string) []PartitionType {
	if prefix == "" {
		return KnownTypes()
	}
	keys := typeIndex.PrefixSearch(strings.ToLower(prefix))
	r := make([]PartitionType, 0, len(keys))
	for _, key := range keys {
		node, ok := typeIndex.Find(key)
		if !ok {
			continue
		}
		r = append(r, node.Meta().(PartitionType))
	}
	sort.Slice(r, func(i, j int) bool { return r[i] < r[j] })
	return r
}
