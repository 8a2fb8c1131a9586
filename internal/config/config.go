package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/layout"
)

// Font registers a font under a family name usable in card styles.
type Font struct {
	Src   string `toml:"src"`
	Style string `toml:"style,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DefaultTemplate string          `toml:"default_template"`
	Padding         int             `toml:"padding"`
	OutputDir       string          `toml:"output_dir"`
	DPMM            float64         `toml:"dpmm"`
	SessionDir      string          `toml:"session_dir"`
	LogDir          string          `toml:"log_dir"`
	BlockColor      string          `toml:"block_color"`
	BlockOpacity    float64         `toml:"block_opacity"`
	Fonts           map[string]Font `toml:"fonts"`
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		DefaultTemplate: card.TemplateDefault,
		Padding:         card.DefaultPadding,
		OutputDir:       "output",
		DPMM:            layout.MmToPx,
		SessionDir:      filepath.Join(GetXDGDataHome(), "bookcard", "session"),
		BlockColor:      "#fff3a0",
		BlockOpacity:    0.3,
		Fonts: map[string]Font{
			"Body":      {Src: "builtin:regular"},
			"Go Mono":   {Src: "builtin:mono"},
			"Go Bold":   {Src: "builtin:bold", Style: "bold"},
			"Go Italic": {Src: "builtin:italic", Style: "italic"},
		},
	}
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "bookcard", "config.toml")
}

// LoadConfig loads the config file from the XDG location, creating it with
// defaults when it does not exist yet.
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}
	return Load(configPath)
}

// Load decodes the config at path. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	config := Default()
	md, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks values the rest of the program relies on.
func (c *Config) Validate() error {
	if _, ok := card.LookupTemplate(c.DefaultTemplate); !ok {
		return fmt.Errorf("unknown default_template %q", c.DefaultTemplate)
	}
	if c.Padding < 0 {
		return fmt.Errorf("padding must not be negative")
	}
	if c.DPMM <= 0 {
		return fmt.Errorf("dpmm must be positive")
	}
	if c.BlockOpacity < 0 || c.BlockOpacity > 1 {
		return fmt.Errorf("block_opacity must be within 0..1")
	}
	for name, f := range c.Fonts {
		if f.Src == "" {
			return fmt.Errorf("font %q has no src", name)
		}
	}
	return nil
}

// LayoutFonts converts the font table for layout.BuildOptions.
func (c *Config) LayoutFonts() map[string]layout.FontResource {
	out := make(map[string]layout.FontResource, len(c.Fonts))
	for name, f := range c.Fonts {
		out[name] = layout.FontResource{Name: name, Src: f.Src, Style: f.Style, Family: name}
	}
	return out
}

// createDefaultConfig creates a default config file
func createDefaultConfig(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	config := Default()
	file, err := os.Create(configPath)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return nil, fmt.Errorf("error encoding config: %w", err)
	}
	return config, nil
}
