package cmds

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/mbrtool/mbrtool/pkg/config"
)

var _ pflag.Value = (*formatValue)(nil)

// formatValue implements pflag.Value for the --format flag.
type formatValue string

func (f *formatValue) String() string {
	return string(*f)
}

func (f *formatValue) Set(s string) error {
	switch s {
	case config.FormatText, config.FormatYAML:
		*f = formatValue(s)
		return nil
	}
	return fmt.Errorf("must be %q or %q", config.FormatText, config.FormatYAML)
}

func (f *formatValue) Type() string {
	return "format"
}
