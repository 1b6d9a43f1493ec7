// Package terminal renders decoded MBR sectors and partition type lists as
// text or YAML.
package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v2"

	"github.com/mbrtool/mbrtool/pkg/mbr"
)

// Printer writes human readable descriptions to an io.Writer.
type Printer struct {
	w            io.Writer
	colorEscapes map[Style]string
}

// NewPrinter returns a Printer writing to w. ANSI colors are used only if
// color is true.
func NewPrinter(w io.Writer, color bool) *Printer {
	p := &Printer{w: w}
	if color {
		p.colorEscapes = defaultColorEscapes
	}
	return p
}

// NewStdoutPrinter returns a Printer writing to standard output. If color
// is nil colors are enabled when standard output is a terminal.
func NewStdoutPrinter(color *bool) *Printer {
	useColor := isatty.IsTerminal(os.Stdout.Fd())
	if color != nil {
		useColor = *color
	}
	return NewPrinter(colorable.NewColorableStdout(), useColor)
}

func (p *Printer) printf(style Style, format string, args ...interface{}) {
	esc, ok := p.colorEscapes[style]
	if ok {
		fmt.Fprint(p.w, esc)
	}
	fmt.Fprintf(p.w, format, args...)
	if ok {
		fmt.Fprint(p.w, ansiReset)
	}
}

// PrintSector prints the disk signature followed by the four partition
// table entries. Empty entries are reduced to their type unless showEmpty
// is set.
func (p *Printer) PrintSector(s *mbr.Sector, showEmpty bool) {
	p.printf(HeaderStyle, "Disk signature 0x%08x", s.Signature)
	fmt.Fprintln(p.w)
	if !s.HasBootSignature() {
		p.printf(WarningStyle, "Warning: boot signature 0x%04x, expected 0x%04x", s.BootSignature, mbr.BootSignature)
		fmt.Fprintln(p.w)
	}

	gpt := false
	for i := range s.Partitions {
		e := &s.Partitions[i]
		if e.Type == mbr.TypeGPT {
			gpt = true
		}
		p.printEntry(i+1, e, showEmpty)
	}

	if gpt {
		p.printf(WarningStyle, "Protective MBR: the disk is partitioned with GPT")
		fmt.Fprintln(p.w)
	}
}

func (p *Printer) printEntry(slot int, e *mbr.PartitionEntry, showEmpty bool) {
	p.printf(HeaderStyle, "=== Partition table #%d:", slot)
	fmt.Fprintln(p.w)

	if e.Empty() && !showEmpty {
		p.printf(EmptyStyle, "    Partition type: %s", e.Type)
		fmt.Fprintln(p.w)
		return
	}

	statusStyle := NormalStyle
	if e.Status.Kind() == mbr.StatusBootable {
		statusStyle = BootableStyle
	}
	p.printf(statusStyle, "    Status: %s (0x%02x)", e.Status, uint8(e.Status))
	fmt.Fprintln(p.w)

	typeStyle := NormalStyle
	if !e.Type.Known() {
		typeStyle = WarningStyle
	}
	p.printf(typeStyle, "    Partition type: %s", e.Type)
	fmt.Fprintln(p.w)

	fmt.Fprintf(p.w, "    CHS address of first sector: 0x%06x\n", e.RawStartCHS)
	fmt.Fprintf(p.w, "        cylinder: %d\n", e.StartCHS.Cylinder)
	fmt.Fprintf(p.w, "        head: %d\n", e.StartCHS.Head)
	fmt.Fprintf(p.w, "        sector: %d\n", e.StartCHS.Sector)
	fmt.Fprintf(p.w, "    CHS address of last sector: 0x%06x\n", e.RawEndCHS)
	fmt.Fprintf(p.w, "        cylinder: %d\n", e.EndCHS.Cylinder)
	fmt.Fprintf(p.w, "        head: %d\n", e.EndCHS.Head)
	fmt.Fprintf(p.w, "        sector: %d\n", e.EndCHS.Sector)
	fmt.Fprintf(p.w, "    LBA address of first sector: 0x%08x\n", e.StartLBA)
	fmt.Fprintf(p.w, "    Number of sectors: %d (%s)\n", e.Sectors, mbr.HumanSize(e.Size()))
	fmt.Fprintln(p.w)
}

// PrintTypes prints one line per partition type: its code and its label.
func (p *Printer) PrintTypes(types []mbr.PartitionType) {
	for _, t := range types {
		fmt.Fprintf(p.w, "0x%02x  %s\n", uint8(t), t.Label())
	}
}

// PrintYAML marshals v as YAML.
func (p *Printer) PrintYAML(v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.w.Write(out)
	return err
}
