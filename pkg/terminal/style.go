package terminal

// Style describes the style of a chunk of text.
type Style uint8

const (
	NormalStyle Style = iota
	HeaderStyle
	BootableStyle
	EmptyStyle
	WarningStyle
)

const ansiReset = "\x1b[0m"

var defaultColorEscapes = map[Style]string{
	HeaderStyle:   "\x1b[1m",
	BootableStyle: "\x1b[32m",
	EmptyStyle:    "\x1b[2m",
	WarningStyle:  "\x1b[33m",
}
