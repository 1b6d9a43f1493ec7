package terminal

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/mbrtool/mbrtool/pkg/mbr"
)

func testSector(t *testing.T) *mbr.Sector {
	b := make([]byte, mbr.SectorSize)
	binary.LittleEndian.PutUint32(b[440:], 0x0badcafe)
	e := b[446:462]
	e[0] = 0x80
	copy(e[1:4], []byte{0x20, 0x21, 0x00})
	e[4] = 0x83
	copy(e[5:8], []byte{0xfe, 0xff, 0xff})
	binary.LittleEndian.PutUint32(e[8:12], 2048)
	binary.LittleEndian.PutUint32(e[12:16], 1048576)
	b[462+4] = 0x99
	b[510], b[511] = 0x55, 0xaa
	s, err := mbr.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPrintSector(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintSector(testSector(t), false)

	expected := `Disk signature 0x0badcafe
=== Partition table #1:
    Status: Bootable (0x80)
    Partition type: Linux (0x83)
    CHS address of first sector: 0x002120
        cylinder: 0
        head: 32
        sector: 33
    CHS address of last sector: 0xfffffe
        cylinder: 1023
        head: 254
        sector: 63
    LBA address of first sector: 0x00000800
    Number of sectors: 1048576 (512.0000 MiB)

=== Partition table #2:
    Status: Inactive (0x00)
    Partition type: Unknown (0x99)
    CHS address of first sector: 0x000000
        cylinder: 0
        head: 0
        sector: 0
    CHS address of last sector: 0x000000
        cylinder: 0
        head: 0
        sector: 0
    LBA address of first sector: 0x00000000
    Number of sectors: 0 (0.0000 B)

=== Partition table #3:
    Partition type: Empty (0x00)
=== Partition table #4:
    Partition type: Empty (0x00)
`
	if buf.String() != expected {
		t.Fatalf("unexpected output:\n%s\nexpected:\n%s", buf.String(), expected)
	}
}

func TestPrintSectorShowEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintSector(&mbr.Sector{}, true)
	out := buf.String()
	if n := strings.Count(out, "Status: Inactive (0x00)"); n != 4 {
		t.Fatalf("expected four status lines, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "Warning: boot signature 0x0000, expected 0xaa55") {
		t.Fatalf("missing boot signature warning:\n%s", out)
	}
}

func TestPrintSectorColor(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true).PrintSector(testSector(t), false)
	out := buf.String()
	if !strings.Contains(out, defaultColorEscapes[BootableStyle]+"    Status: Bootable (0x80)"+ansiReset) {
		t.Fatalf("bootable status not colored:\n%q", out)
	}
}

func TestPrintSectorGPT(t *testing.T) {
	s := &mbr.Sector{BootSignature: mbr.BootSignature}
	s.Partitions[0].Type = mbr.TypeGPT
	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintSector(s, false)
	if !strings.HasSuffix(buf.String(), "Protective MBR: the disk is partitioned with GPT\n") {
		t.Fatalf("missing GPT note:\n%s", buf.String())
	}
}

func TestPrintTypes(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintTypes(mbr.LookupTypes("linux"))
	if buf.String() != "0x83  Linux\n0x85  Linux Extended\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, false).PrintYAML(NewSectorReport(testSector(t), false)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"signature: \"0x0badcafe\"",
		"boot-signature: \"0xaa55\"",
		"- slot: 1\n  type: Linux\n  type-code: \"0x83\"\n  status: Bootable (0x80)\n",
		"  start-chs:\n    cylinder: 0\n    head: 32\n    sector: 33\n",
		"  start-lba: \"0x00000800\"\n  last-lba: \"0x001007ff\"\n  sectors: 1048576\n  size: 512.0000 MiB\n",
		"- slot: 2\n  type: Unknown (0x99)\n",
		"  last-lba: \"0x00000000\"\n  sectors: 0\n  size: 0.0000 B\n",
		"- slot: 3\n  type: Empty\n  type-code: \"0x00\"\n- slot: 4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}
