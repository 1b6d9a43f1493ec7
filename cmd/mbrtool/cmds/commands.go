package cmds

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mbrtool/mbrtool/cmd/mbrtool/cmds/helphelpers"
	"github.com/mbrtool/mbrtool/pkg/config"
	"github.com/mbrtool/mbrtool/pkg/disk"
	"github.com/mbrtool/mbrtool/pkg/geometry"
	"github.com/mbrtool/mbrtool/pkg/leb128"
	"github.com/mbrtool/mbrtool/pkg/logflags"
	"github.com/mbrtool/mbrtool/pkg/mbr"
	"github.com/mbrtool/mbrtool/pkg/terminal"
	"github.com/mbrtool/mbrtool/pkg/version"
)

var (
	// log is whether to log debug statements.
	log bool
	// logOutput is a comma separated list of components that should produce debug output.
	logOutput string
	// logDest is the file path or file descriptor where logs should go.
	logDest string
	// format selects the output format of the mbr and types commands.
	format formatValue

	// showEmpty prints every field of empty partition table entries.
	showEmpty bool

	leb128Encode bool
	leb128Decode bool
	leb128Hex    bool

	versionVerbose bool

	// rootCommand is the root of the command tree.
	rootCommand *cobra.Command

	conf *config.Config
)

const mbrtoolCommandLongDesc = `mbrtool decodes fixed layout binary structures.

It prints the partition table of a Master Boot Record, read from the first
sector of a disk image or block device, converts between CHS and LBA disk
addresses and encodes or decodes unsigned LEB128 integers.`

// New returns an initialized command tree.
func New(docCall bool) *cobra.Command {
	// Config setup and load.
	conf = &config.Config{}
	if !docCall {
		var err error
		conf, err = config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	log, logOutput, logDest = false, "", ""
	showEmpty = conf.ShowEmpty
	format = formatValue(conf.Format)
	if format == "" {
		format = config.FormatText
	}
	leb128Encode, leb128Decode, leb128Hex = false, false, false
	versionVerbose = false

	// Main mbrtool root command.
	rootCommand = &cobra.Command{
		Use:          "mbrtool",
		Short:        "mbrtool decodes Master Boot Records and LEB128 integers.",
		Long:         mbrtoolCommandLongDesc,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logstr := logOutput
			if log && logstr == "" {
				logstr = conf.LogOutput
			}
			if err := logflags.Setup(log, logstr, logDest); err != nil {
				return err
			}
			conf.LogLoad()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logflags.Close()
		},
	}

	rootCommand.PersistentFlags().BoolVarP(&log, "log", "", false, "Enable logging.")
	rootCommand.PersistentFlags().StringVarP(&logOutput, "log-output", "", "", `Comma separated list of components that should produce debug output (see 'mbrtool help log')`)
	rootCommand.PersistentFlags().StringVarP(&logDest, "log-dest", "", "", "Writes logs to the specified file or file descriptor (see 'mbrtool help log').")
	rootCommand.PersistentFlags().VarP(&format, "format", "f", "Output format, text or yaml.")

	// 'mbr' subcommand.
	mbrCommand := &cobra.Command{
		Use:   "mbr <image>",
		Short: "Print the partition table of a Master Boot Record.",
		Long: `Print the partition table of a Master Boot Record.

The first 512 bytes of the disk image or block device are decoded: the disk
signature followed by the status, type, CHS addresses, starting LBA and size
of each of the four partition table entries. Empty entries are reduced to
their type unless --show-empty is given.`,
		Args: cobra.ExactArgs(1),
		RunE: mbrCmd,
	}
	mbrCommand.Flags().BoolVar(&showEmpty, "show-empty", showEmpty, "Print every field of empty partition table entries.")
	rootCommand.AddCommand(mbrCommand)

	// 'leb128' subcommand.
	leb128Command := &cobra.Command{
		Use:   "leb128 <number>",
		Short: "Encode or decode an unsigned LEB128 integer.",
		Long: `Encode or decode an unsigned LEB128 integer.

The encoded form is printed as a single integer: the byte stream read as a
big-endian number, first byte most significant. For example 300 encodes to
the bytes 0xac 0x02, printed as 44034, and 'mbrtool leb128 -d 0xac02' prints
300. Numbers may be given in decimal or with a 0x, 0o or 0b prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: leb128Cmd,
	}
	leb128Command.Flags().BoolVarP(&leb128Encode, "encode", "e", false, "Encode unsigned number (default).")
	leb128Command.Flags().BoolVarP(&leb128Decode, "decode", "d", false, "Decode unsigned number.")
	leb128Command.Flags().BoolVarP(&leb128Hex, "hex", "x", false, "Print the result in hexadecimal.")
	rootCommand.AddCommand(leb128Command)

	// 'chs' subcommand.
	rootCommand.AddCommand(&cobra.Command{
		Use:   "chs <lba>",
		Short: "Convert a logical block address to cylinder/head/sector.",
		Long: `Convert a logical block address to cylinder/head/sector using the
translation geometry of MBR partition tables: 16 heads and 63 sectors per
track.`,
		Args: cobra.ExactArgs(1),
		RunE: chsCmd,
	})

	// 'lba' subcommand.
	rootCommand.AddCommand(&cobra.Command{
		Use:   "lba <cylinder> <head> <sector>",
		Short: "Convert a cylinder/head/sector address to a logical block address.",
		Args:  cobra.ExactArgs(3),
		RunE:  lbaCmd,
	})

	// 'types' subcommand.
	rootCommand.AddCommand(&cobra.Command{
		Use:   "types [prefix]",
		Short: "List known partition types.",
		Long: `List known partition type codes and their labels.

If a prefix is given only the types whose label starts with it, ignoring
case, are listed.`,
		RunE: typesCmd,
	})

	// 'config' subcommand.
	rootCommand.AddCommand(&cobra.Command{
		Use:   "config [<key> <value>]",
		Short: "List or change the configuration file.",
		Long: `List or change the configuration file.

Without arguments every configuration key is listed with its value. With a
key and a value the key is set and the configuration file saved, for
example:

	mbrtool config show-empty true
	mbrtool config color auto
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts 0 or 2 arg(s), received %d", len(args))
			}
			return nil
		},
		RunE: configCmd,
	})

	// 'version' subcommand.
	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Prints version.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mbrtool\n%s\n", version.MbrtoolVersion)
			if versionVerbose {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", version.BuildInfo())
			}
		},
	}
	versionCommand.Flags().BoolVarP(&versionVerbose, "verbose", "v", false, "print verbose version info")
	rootCommand.AddCommand(versionCommand)

	rootCommand.AddCommand(&cobra.Command{
		Use:   "log",
		Short: "Help about logging flags.",
		Long: `Logging can be enabled by specifying the --log flag and using the
--log-output flag to select which components should produce logs.

The argument of --log-output must be a comma separated list of component
names selected from this list:


	mbr	Log the fields of every decoded partition table entry
	leb128	Log encoded and decoded byte streams
	disk	Log reads from disk images and block devices
	config	Log loading of the configuration file

If --log-output is not given the log-output value of the configuration file
is used, and if that is empty too "mbr" is assumed.

Additionally --log-dest can be used to specify where the logs should be
written.
If the argument is a number it will be interpreted as a file descriptor,
otherwise as a file path.
`,
	})

	defaultHelpFunc := rootCommand.HelpFunc()
	rootCommand.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helphelpers.Prepare(cmd)
		defaultHelpFunc(cmd, args)
	})

	rootCommand.DisableAutoGenTag = true

	return rootCommand
}

func newPrinter(cmd *cobra.Command) *terminal.Printer {
	out := cmd.OutOrStdout()
	if out == os.Stdout {
		return terminal.NewStdoutPrinter(conf.Color)
	}
	return terminal.NewPrinter(out, conf.Color != nil && *conf.Color)
}

func mbrCmd(cmd *cobra.Command, args []string) error {
	f, err := disk.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	sector, err := mbr.Read(f)
	if err != nil {
		return pkgerrors.Wrap(err, args[0])
	}

	p := newPrinter(cmd)
	if format == config.FormatYAML {
		return p.PrintYAML(terminal.NewSectorReport(sector, showEmpty))
	}
	p.PrintSector(sector, showEmpty)
	return nil
}

func parseBig(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("invalid number %q: must not be negative", s)
	}
	return v, nil
}

func leb128Cmd(cmd *cobra.Command, args []string) error {
	if leb128Encode && leb128Decode {
		return errors.New("--encode and --decode are mutually exclusive")
	}
	v, err := parseBig(args[0])
	if err != nil {
		return err
	}
	logger := logflags.LEB128Logger()

	var result *big.Int
	if leb128Decode {
		if logflags.LEB128() {
			logger.Debugf("decoding stream % x", v.Bytes())
		}
		n, err := leb128.DecodePacked(v)
		if err != nil {
			return pkgerrors.Wrapf(err, "decoding %s", args[0])
		}
		result = new(big.Int).SetUint64(n)
	} else {
		if !v.IsUint64() {
			return fmt.Errorf("number %s does not fit in 64 bits", args[0])
		}
		result = leb128.EncodePacked(v.Uint64())
		if logflags.LEB128() {
			logger.Debugf("encoded %d bytes: % x", leb128.Size(v.Uint64()), result.Bytes())
		}
	}

	if leb128Hex {
		fmt.Fprintf(cmd.OutOrStdout(), "%#x\n", result)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), result.String())
	}
	return nil
}

func parseUint32(name, s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return uint32(n), nil
}

func chsCmd(cmd *cobra.Command, args []string) error {
	lba, err := parseUint32("lba", args[0])
	if err != nil {
		return err
	}
	chs := geometry.FromLBA(lba)
	fmt.Fprintln(cmd.OutOrStdout(), chs)
	if chs.Cylinder >= geometry.MaxCylinders {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: cylinder %d does not fit in a partition table entry (max %d)\n", chs.Cylinder, geometry.MaxCylinders-1)
	}
	return nil
}

func lbaCmd(cmd *cobra.Command, args []string) error {
	var chs geometry.CHS
	var err error
	if chs.Cylinder, err = parseUint32("cylinder", args[0]); err != nil {
		return err
	}
	if chs.Head, err = parseUint32("head", args[1]); err != nil {
		return err
	}
	if chs.Sector, err = parseUint32("sector", args[2]); err != nil {
		return err
	}
	if chs.Head >= geometry.HeadsPerCylinder {
		return fmt.Errorf("head %d out of range [0, %d]", chs.Head, geometry.HeadsPerCylinder-1)
	}
	if chs.Sector < 1 || chs.Sector > geometry.SectorsPerTrack {
		return fmt.Errorf("sector %d out of range [1, %d]", chs.Sector, geometry.SectorsPerTrack)
	}
	fmt.Fprintln(cmd.OutOrStdout(), geometry.ToLBA(chs))
	return nil
}

type typeReport struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

func typesCmd(cmd *cobra.Command, args []string) error {
	types := mbr.LookupTypes(strings.Join(args, " "))
	p := newPrinter(cmd)
	if format == config.FormatYAML {
		r := make([]typeReport, 0, len(types))
		for _, t := range types {
			r = append(r, typeReport{Code: fmt.Sprintf("0x%02x", uint8(t)), Label: t.Label()})
		}
		return p.PrintYAML(r)
	}
	p.PrintTypes(types)
	return nil
}
