// Package app ties the emulator core, graphics backend, configuration and
// save states into a runnable application.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"nescore/internal/nes"
)

// Config holds the application configuration, persisted as JSON.
type Config struct {
	Window    WindowConfig    `json:"window"`
	Video     VideoConfig     `json:"video"`
	Input     InputConfig     `json:"input"`
	Emulation EmulationConfig `json:"emulation"`
	Paths     PathsConfig     `json:"paths"`

	configPath string
	loaded     bool
}

// WindowConfig contains window-related configuration.
type WindowConfig struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	Fullscreen bool `json:"fullscreen"`
	Scale      int  `json:"scale"` // NES resolution multiplier
}

// VideoConfig contains rendering configuration.
type VideoConfig struct {
	VSync   bool   `json:"vsync"`
	Filter  string `json:"filter"`  // "nearest", "linear"
	Backend string `json:"backend"` // "ebitengine", "headless"
}

// InputConfig contains the keyboard bindings for both controller ports.
type InputConfig struct {
	Player1Keys KeyMapping `json:"player1_keys"`
	Player2Keys KeyMapping `json:"player2_keys"`
}

// KeyMapping names the keyboard keys bound to one NES controller.
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

// EmulationConfig contains emulation-specific settings.
type EmulationConfig struct {
	Region         string `json:"region"` // only "NTSC" is implemented
	SaveStateSlots int    `json:"save_state_slots"`
	AutoSave       bool   `json:"auto_save"` // save state to slot 0 on exit
}

// PathsConfig contains file and directory paths.
type PathsConfig struct {
	ROMs       string `json:"roms"`
	SaveStates string `json:"save_states"`
}

// NewConfig returns a configuration populated with defaults.
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  nes.Width * 2,
			Height: nes.Height * 2,
			Scale:  2,
		},
		Video: VideoConfig{
			VSync:   true,
			Filter:  "nearest",
			Backend: "ebitengine",
		},
		Input: InputConfig{
			Player1Keys: KeyMapping{
				Up:     "W",
				Down:   "S",
				Left:   "A",
				Right:  "D",
				A:      "J",
				B:      "K",
				Start:  "Return",
				Select: "Space",
			},
			Player2Keys: KeyMapping{
				Up:     "Up",
				Down:   "Down",
				Left:   "Left",
				Right:  "Right",
				A:      "N",
				B:      "M",
				Start:  "RShift",
				Select: "RCtrl",
			},
		},
		Emulation: EmulationConfig{
			Region:         "NTSC",
			SaveStateSlots: nes.NumBackupSlots,
		},
		Paths: PathsConfig{
			ROMs:       "./roms",
			SaveStates: "./states",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. A missing file is
// not an error: defaults are written there instead.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("app: read config: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("app: parse config: %w", err)
	}
	c.validate()

	if err := c.createDirectories(); err != nil {
		return err
	}

	c.loaded = true
	return nil
}

// SaveToFile writes the configuration as indented JSON.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("app: create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("app: marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("app: write config: %w", err)
	}

	c.configPath = path
	return nil
}

// Save writes the configuration back to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("app: no config file path set")
	}
	return c.SaveToFile(c.configPath)
}

// validate clamps out-of-range values back to their defaults.
func (c *Config) validate() {
	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		c.Window.Width = nes.Width * c.Window.Scale
		c.Window.Height = nes.Height * c.Window.Scale
	}
	if c.Emulation.SaveStateSlots <= 0 || c.Emulation.SaveStateSlots > nes.NumBackupSlots {
		c.Emulation.SaveStateSlots = nes.NumBackupSlots
	}
	if c.Video.Backend == "" {
		c.Video.Backend = "ebitengine"
	}
}

func (c *Config) createDirectories() error {
	for _, dir := range []string{c.Paths.ROMs, c.Paths.SaveStates} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("app: create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WindowResolution returns the configured window size.
func (c *Config) WindowResolution() (int, int) {
	return c.Window.Width, c.Window.Height
}

// IsLoaded reports whether the configuration came from a file.
func (c *Config) IsLoaded() bool {
	return c.loaded
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() string {
	return "./config/nescore.json"
}
