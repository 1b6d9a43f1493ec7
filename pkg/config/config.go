package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/user"
	"path"

	"gopkg.in/yaml.v2"

	"github.com/mbrtool/mbrtool/pkg/logflags"
)

const (
	configDir  string = ".mbrtool"
	configFile string = "config.yml"
)

// Output formats understood by the presenter.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Config defines all configuration options available to be set through the config file.
type Config struct {
	// ShowEmpty prints every field of empty partition table entries
	// instead of their type only.
	ShowEmpty bool `yaml:"show-empty"`

	// Format is the default output format, "text" or "yaml".
	Format string `yaml:"format,omitempty"`

	// Color enables or disables ANSI colors. When unset colors are used if
	// standard output is a terminal.
	Color *bool `yaml:"color,omitempty"`

	// LogOutput is the list of components logging when --log is passed
	// without --log-output.
	LogOutput string `yaml:"log-output,omitempty"`

	path    string
	created bool
}

// LogLoad logs the file c was loaded from. It must be called after
// logflags.Setup.
func (c *Config) LogLoad() {
	if !logflags.Config() {
		return
	}
	logger := logflags.ConfigLogger().WithField("path", c.path)
	if c.created {
		logger.Debug("created default configuration")
	}
	color := "auto"
	if c.Color != nil {
		color = fmt.Sprint(*c.Color)
	}
	logger.Debugf("loaded show-empty=%v format=%q color=%s log-output=%q", c.ShowEmpty, c.Format, color, c.LogOutput)
}

// Validate returns an error if the configuration holds an unknown format.
func (c *Config) Validate() error {
	switch c.Format {
	case "", FormatText, FormatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q", c.Format)
}

// LoadConfig attempts to populate a Config object from the config.yml file.
func LoadConfig() (*Config, error) {
	err := createConfigPath()
	if err != nil {
		return &Config{}, fmt.Errorf("could not create config directory: %v", err)
	}
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		return &Config{}, fmt.Errorf("unable to get config file path: %v", err)
	}
	return loadConfigFile(fullConfigFile)
}

func loadConfigFile(fullConfigFile string) (*Config, error) {
	logger := logflags.ConfigLogger().WithField("path", fullConfigFile)

	created := false
	f, err := os.Open(fullConfigFile)
	if err != nil {
		created = true
		f, err = createDefaultConfig(fullConfigFile)
		if err != nil {
			return &Config{}, fmt.Errorf("error creating default config file: %v", err)
		}
	}
	defer func() {
		err := f.Close()
		if err != nil {
			logger.WithError(err).Warn("closing config file failed")
		}
	}()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		return &Config{}, fmt.Errorf("unable to read config data: %v", err)
	}

	var c Config
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return &Config{}, fmt.Errorf("unable to decode config file: %v", err)
	}
	if err := c.Validate(); err != nil {
		return &Config{}, fmt.Errorf("%s: %v", fullConfigFile, err)
	}
	c.path, c.created = fullConfigFile, created

	return &c, nil
}

// Path returns the file c was loaded from, empty for a configuration
// that was not read from disk.
func (c *Config) Path() string {
	return c.path
}

// SaveConfig will marshal and save the config struct
// to disk.
func SaveConfig(conf *Config) error {
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	out, err := yaml.Marshal(*conf)
	if err != nil {
		return err
	}

	f, err := os.Create(fullConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(out)
	return err
}

func createDefaultConfig(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create config file: %v", err)
	}
	err = writeDefaultConfig(f)
	if err != nil {
		return nil, fmt.Errorf("unable to write default configuration: %v", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	return f, nil
}

func writeDefaultConfig(f *os.File) error {
	_, err := f.WriteString(
		`# Configuration file for mbrtool.

# This is the default configuration file. Available options are provided, but disabled.
# Delete the leading hash mark to enable an item.

# Print every field of empty partition table entries, not only their type.
# show-empty: true

# Default output format, text or yaml.
# format: text

# Force ANSI colors on or off. By default colors are used when standard
# output is a terminal.
# color: false

# Components that log when --log is passed without --log-output.
# log-output: mbr,disk
`)
	return err
}

// createConfigPath creates the directory structure at which all config files are saved.
func createConfigPath() error {
	path, err := GetConfigFilePath("")
	if err != nil {
		return err
	}
	return os.MkdirAll(path, 0700)
}

// GetConfigFilePath gets the full path to the given config file name.
// $XDG_CONFIG_HOME/mbrtool is used when XDG_CONFIG_HOME is set.
func GetConfigFilePath(file string) (string, error) {
	if configPath := os.Getenv("XDG_CONFIG_HOME"); configPath != "" {
		return path.Join(configPath, "mbrtool", file), nil
	}

	userHomeDir := "."
	usr, err := user.Current()
	if err == nil {
		userHomeDir = usr.HomeDir
	}
	return path.Join(userHomeDir, configDir, file), nil
}
