// Package config provides configuration management for mkunit
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Provider defines the interface for configuration providers.
type Provider interface {
	// GetConfig returns the current application configuration.
	GetConfig() *Settings
	// SetConfig sets the application configuration.
	SetConfig(c *Settings)
	// InitConfig initializes the application configuration.
	InitConfig() (*Settings, error)
	// SetConfigFilePath sets the configuration file path.
	SetConfigFilePath(p string)
	// ConfigFileUsed returns the configuration file that was read, if any.
	ConfigFileUsed() string
}

// defaultConfigProvider implements the Provider interface.
type defaultConfigProvider struct {
	v          *viper.Viper
	cfg        *Settings
	configFile string
}

// NewDefaultConfigProvider creates a new default config provider.
func NewDefaultConfigProvider() Provider {
	return &defaultConfigProvider{v: viper.New()}
}

// Default configuration values for mkunit.
// The unit directories and the search precedence are the values systemd
// documents in systemd.unit(5); all of them can be overridden in the config file.
const (
	DefaultSystemUnitDir  = "/etc/systemd/system"
	DefaultVerify         = true
	DefaultNoColor        = false
	DefaultNoInteractive  = false
	DefaultVerbose        = false
	DefaultDryRun         = false
	DefaultCommandTimeout = 30 * time.Second
	EnvPrefix             = "MKUNIT"
)

// DefaultSystemSearchPaths is the ordered list of directories searched for system units.
var DefaultSystemSearchPaths = []string{
	DefaultSystemUnitDir,
	"/run/systemd/system",
	"/usr/lib/systemd/system",
	"/lib/systemd/system",
}

// Settings represents the configuration for mkunit.
type Settings struct {
	UserUnitDir       string        `yaml:"userUnitDir" json:"userUnitDir"`
	SystemUnitDir     string        `yaml:"systemUnitDir" json:"systemUnitDir"`
	UserSearchPaths   []string      `yaml:"userSearchPaths" json:"userSearchPaths"`
	SystemSearchPaths []string      `yaml:"systemSearchPaths" json:"systemSearchPaths"`
	Editor            string        `yaml:"editor,omitempty" json:"editor,omitempty"`
	Verify            bool          `yaml:"verify" json:"verify"`
	NoColor           bool          `yaml:"noColor" json:"noColor"`
	NoInteractive     bool          `yaml:"noInteractive" json:"noInteractive"`
	Verbose           bool          `yaml:"verbose" json:"verbose"`
	DryRun            bool          `yaml:"dryRun" json:"dryRun"`
	CommandTimeout    time.Duration `yaml:"commandTimeout" json:"commandTimeout"`
}

// DefaultUserUnitDir returns $XDG_CONFIG_HOME/systemd/user, falling back to ~/.config/systemd/user.
func DefaultUserUnitDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "systemd", "user")
	}
	return filepath.Join(homeDir(), ".config", "systemd", "user")
}

// DefaultUserSearchPaths returns the ordered list of directories searched for user units.
func DefaultUserSearchPaths() []string {
	return []string{
		DefaultUserUnitDir(),
		"/etc/systemd/user",
		filepath.Join(homeDir(), ".local", "share", "systemd", "user"),
		"/usr/lib/systemd/user",
	}
}

// Defaults returns Settings populated with default values.
func Defaults() *Settings {
	return &Settings{
		UserUnitDir:       DefaultUserUnitDir(),
		SystemUnitDir:     DefaultSystemUnitDir,
		UserSearchPaths:   DefaultUserSearchPaths(),
		SystemSearchPaths: append([]string(nil), DefaultSystemSearchPaths...),
		Verify:            DefaultVerify,
		NoColor:           DefaultNoColor,
		NoInteractive:     DefaultNoInteractive,
		Verbose:           DefaultVerbose,
		DryRun:            DefaultDryRun,
		CommandTimeout:    DefaultCommandTimeout,
	}
}

// Implementation of ConfigProvider methods for defaultConfigProvider

func (p *defaultConfigProvider) SetConfig(c *Settings) {
	p.cfg = c
}

func (p *defaultConfigProvider) GetConfig() *Settings {
	if p.cfg == nil {
		p.cfg = Defaults()
	}
	return p.cfg
}

func (p *defaultConfigProvider) SetConfigFilePath(path string) {
	p.configFile = path
}

func (p *defaultConfigProvider) ConfigFileUsed() string {
	return p.v.ConfigFileUsed()
}

func (p *defaultConfigProvider) InitConfig() (*Settings, error) {
	cfg, err := p.load()
	if err != nil {
		return nil, err
	}
	p.cfg = cfg
	return cfg, nil
}

func (p *defaultConfigProvider) load() (*Settings, error) {
	cfg := Defaults()
	v := p.v

	v.SetDefault("userUnitDir", cfg.UserUnitDir)
	v.SetDefault("systemUnitDir", cfg.SystemUnitDir)
	v.SetDefault("userSearchPaths", cfg.UserSearchPaths)
	v.SetDefault("systemSearchPaths", cfg.SystemSearchPaths)
	v.SetDefault("editor", "")
	v.SetDefault("verify", DefaultVerify)
	v.SetDefault("noColor", DefaultNoColor)
	v.SetDefault("noInteractive", DefaultNoInteractive)
	v.SetDefault("verbose", DefaultVerbose)
	v.SetDefault("dryRun", DefaultDryRun)
	v.SetDefault("commandTimeout", DefaultCommandTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// SetConfigName clears an explicit file, so search paths apply only without one.
	if p.configFile != "" {
		v.SetConfigFile(p.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "mkunit"))
		}
		v.AddConfigPath(os.ExpandEnv("$HOME/.config/mkunit"))
		v.AddConfigPath("/etc/mkunit")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	cfg.UserUnitDir = ExpandPath(cfg.UserUnitDir)
	cfg.SystemUnitDir = ExpandPath(cfg.SystemUnitDir)
	cfg.UserSearchPaths = expandAll(cfg.UserSearchPaths)
	cfg.SystemSearchPaths = expandAll(cfg.SystemSearchPaths)

	return cfg, nil
}

// ExpandPath expands environment variables and a leading "~" in path.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func expandAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, ExpandPath(p))
	}
	return out
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}
