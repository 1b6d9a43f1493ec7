package cmds

import (
	"bytes"
	"encoding/binary"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runIn(t, t.TempDir(), args...)
}

// runIn runs mbrtool with XDG_CONFIG_HOME set to configHome.
func runIn(t *testing.T, configHome string, args ...string) (string, string, error) {
	t.Helper()
	os.Setenv("XDG_CONFIG_HOME", configHome)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	var out, errOut bytes.Buffer
	root := New(false)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := run(t, args...)
	if err != nil {
		t.Fatalf("mbrtool %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func writeImage(t *testing.T) string {
	b := make([]byte, 1024)
	binary.LittleEndian.PutUint32(b[440:], 0xcafebabe)
	e := b[446:462]
	e[0] = 0x80
	copy(e[1:4], []byte{0x20, 0x21, 0x00})
	e[4] = 0x0c
	copy(e[5:8], []byte{0x3f, 0xbf, 0x1f})
	binary.LittleEndian.PutUint32(e[8:12], 2048)
	binary.LittleEndian.PutUint32(e[12:16], 204800)
	b[510], b[511] = 0x55, 0xaa

	path := filepath.Join(t.TempDir(), "disk.img")
	if err := ioutil.WriteFile(path, b, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMbrCommand(t *testing.T) {
	out := mustRun(t, "mbr", writeImage(t))
	for _, want := range []string{
		"Disk signature 0xcafebabe\n",
		"=== Partition table #1:\n    Status: Bootable (0x80)\n    Partition type: FAT32, LBA (0x0c)\n",
		"    CHS address of last sector: 0x1fbf3f\n        cylinder: 543\n        head: 63\n        sector: 63\n",
		"    LBA address of first sector: 0x00000800\n",
		"    Number of sectors: 204800 (100.0000 MiB)\n",
		"=== Partition table #4:\n    Partition type: Empty (0x00)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestMbrCommandShowEmpty(t *testing.T) {
	out := mustRun(t, "mbr", "--show-empty", writeImage(t))
	if n := strings.Count(out, "Status: Inactive (0x00)"); n != 3 {
		t.Fatalf("expected 3 inactive entries, got %d:\n%s", n, out)
	}
}

func TestMbrCommandYAML(t *testing.T) {
	out := mustRun(t, "--format", "yaml", "mbr", writeImage(t))
	if !strings.Contains(out, "signature: \"0xcafebabe\"\n") || !strings.Contains(out, "  type: FAT32, LBA\n") {
		t.Fatalf("unexpected yaml output:\n%s", out)
	}
	if _, _, err := run(t, "--format", "xml", "mbr", writeImage(t)); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestMbrCommandShortImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.img")
	if err := ioutil.WriteFile(path, make([]byte, 200), 0600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "mbr", path); err == nil {
		t.Fatal("expected an error for a short image")
	}
}

func TestLeb128Command(t *testing.T) {
	tc := []struct {
		args []string
		out  string
	}{
		{[]string{"leb128", "300"}, "44034\n"},
		{[]string{"leb128", "-e", "300"}, "44034\n"},
		{[]string{"leb128", "-x", "300"}, "0xac02\n"},
		{[]string{"leb128", "--decode", "44034"}, "300\n"},
		{[]string{"leb128", "-d", "0xac02"}, "300\n"},
		{[]string{"leb128", "-d", "0"}, "0\n"},
		{[]string{"leb128", "624485"}, "15044134\n"},
		{[]string{"leb128", "18446744073709551615"}, "1208925819614629174705921\n"},
		{[]string{"leb128", "-d", "1208925819614629174705921"}, "18446744073709551615\n"},
	}
	for _, c := range tc {
		if out := mustRun(t, c.args...); out != c.out {
			t.Errorf("mbrtool %s: expected %q, got %q", strings.Join(c.args, " "), c.out, out)
		}
	}
}

func TestLeb128CommandErrors(t *testing.T) {
	for _, args := range [][]string{
		{"leb128", "-e", "-d", "300"},
		{"leb128", "-d", "0xac"},
		{"leb128", "-d", "0x0203"},
		{"leb128", "--", "-1"},
		{"leb128", "abc"},
		{"leb128", "18446744073709551616"},
		{"leb128"},
	} {
		if _, _, err := run(t, args...); err == nil {
			t.Errorf("mbrtool %s: expected an error", strings.Join(args, " "))
		}
	}
}

func TestGeometryCommands(t *testing.T) {
	if out := mustRun(t, "chs", "1008"); out != "1/0/1\n" {
		t.Errorf("chs 1008: got %q", out)
	}
	if out := mustRun(t, "chs", "62"); out != "0/0/63\n" {
		t.Errorf("chs 62: got %q", out)
	}
	if out := mustRun(t, "lba", "1", "0", "1"); out != "1008\n" {
		t.Errorf("lba 1 0 1: got %q", out)
	}
	for _, args := range [][]string{
		{"lba", "0", "16", "1"},
		{"lba", "0", "0", "0"},
		{"lba", "0", "0", "64"},
		{"chs", "4294967296"},
	} {
		if _, _, err := run(t, args...); err == nil {
			t.Errorf("mbrtool %s: expected an error", strings.Join(args, " "))
		}
	}
}

func TestTypesCommand(t *testing.T) {
	if out := mustRun(t, "types", "hib"); out != "0x84  Hibernation\n0xa0  Hibernation\n0xa1  Hibernation\n" {
		t.Errorf("unexpected output %q", out)
	}
	out := mustRun(t, "types")
	if n := strings.Count(out, "\n"); n != 39 {
		t.Errorf("expected 39 types, got %d", n)
	}
	out = mustRun(t, "--format", "yaml", "types", "EFI")
	if out != "- code: \"0xee\"\n  label: EFI GPT Disk\n- code: \"0xef\"\n  label: EFI System Partition\n" {
		t.Errorf("unexpected yaml output %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out := mustRun(t, "version")
	if !strings.HasPrefix(out, "mbrtool\nVersion: ") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestHelpHidesFormat(t *testing.T) {
	out := mustRun(t, "help", "leb128")
	if strings.Contains(out, "--format") {
		t.Errorf("help for leb128 mentions --format:\n%s", out)
	}
	out = mustRun(t, "help", "mbr")
	if !strings.Contains(out, "--format") || !strings.Contains(out, "--show-empty") {
		t.Errorf("help for mbr is missing flags:\n%s", out)
	}
}

func TestLogOutputWithoutLog(t *testing.T) {
	if _, _, err := run(t, "--log-output", "mbr", "chs", "0"); err == nil {
		t.Fatal("expected an error when --log-output is given without --log")
	}
}

func TestChsCylinderWarning(t *testing.T) {
	out, errOut, err := run(t, "chs", "1032192")
	if err != nil {
		t.Fatal(err)
	}
	if out != "1024/0/1\n" {
		t.Errorf("chs 1032192: got %q", out)
	}
	if !strings.Contains(errOut, "Warning: cylinder 1024 does not fit in a partition table entry (max 1023)") {
		t.Errorf("missing cylinder warning, stderr: %q", errOut)
	}

	_, errOut, err = run(t, "chs", "1032191")
	if err != nil {
		t.Fatal(err)
	}
	if errOut != "" {
		t.Errorf("unexpected warning for cylinder 1023: %q", errOut)
	}
}

func TestConfigLogging(t *testing.T) {
	configHome := t.TempDir()
	logFile := filepath.Join(t.TempDir(), "mbrtool.log")
	if _, _, err := runIn(t, configHome, "--log", "--log-output=config", "--log-dest="+logFile, "chs", "0"); err != nil {
		t.Fatal(err)
	}
	data, err := ioutil.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	logs := string(data)
	if !strings.Contains(logs, "layer=config") || !strings.Contains(logs, "created default configuration") {
		t.Fatalf("config component did not log:\n%s", logs)
	}

	if _, _, err := runIn(t, configHome, "--log", "--log-output=config", "--log-dest="+logFile, "chs", "0"); err != nil {
		t.Fatal(err)
	}
	data, err = ioutil.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	logs = string(data)
	if strings.Contains(logs, "created default configuration") || !strings.Contains(logs, "loaded show-empty=false") {
		t.Fatalf("unexpected config log for an existing file:\n%s", logs)
	}
}

func TestConfigLoggingDisabled(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "mbrtool.log")
	if _, _, err := run(t, "--log", "--log-output=mbr", "--log-dest="+logFile, "chs", "0"); err != nil {
		t.Fatal(err)
	}
	data, err := ioutil.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "layer=config") {
		t.Fatalf("config component logged without being enabled:\n%s", data)
	}
}

func TestConfigCommand(t *testing.T) {
	configHome := t.TempDir()
	for _, args := range [][]string{
		{"config", "show-empty", "true"},
		{"config", "format", "yaml"},
		{"config", "color", "false"},
	} {
		if _, _, err := runIn(t, configHome, args...); err != nil {
			t.Fatalf("mbrtool %s: %v", strings.Join(args, " "), err)
		}
	}

	out, _, err := runIn(t, configHome, "config")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"show-empty true\n", "format     yaml\n", "color      false\n", "log-output \n"} {
		if !strings.Contains(out, want) {
			t.Errorf("config list does not contain %q:\n%s", want, out)
		}
	}
	if !strings.HasPrefix(out, "# "+filepath.Join(configHome, "mbrtool", "config.yml")+"\n") {
		t.Errorf("config list does not start with the file path:\n%s", out)
	}

	// saved values become the defaults of the next run
	out, _, err = runIn(t, configHome, "mbr", writeImage(t))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "signature: \"0xcafebabe\"\n") || !strings.Contains(out, "- slot: 4\n  type: Empty\n  type-code: \"0x00\"\n  status: Inactive (0x00)\n") {
		t.Errorf("saved show-empty and format not applied:\n%s", out)
	}

	if _, _, err := runIn(t, configHome, "config", "color", "auto"); err != nil {
		t.Fatal(err)
	}
	out, _, _ = runIn(t, configHome, "config")
	if !strings.Contains(out, "color      <not defined>\n") {
		t.Errorf("color not reset to auto:\n%s", out)
	}

	for _, args := range [][]string{
		{"config", "format", "xml"},
		{"config", "show-empty", "maybe"},
		{"config", "nosuchkey", "1"},
		{"config", "format"},
	} {
		if _, _, err := runIn(t, configHome, args...); err == nil {
			t.Errorf("mbrtool %s: expected an error", strings.Join(args, " "))
		}
	}
}
