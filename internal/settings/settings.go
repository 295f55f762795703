// Package settings loads the daemon configuration and publishes reloads.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StickyHandling selects how windows on all virtual desktops participate in
// auto-snap and session restore.
type StickyHandling string

const (
	StickyHandleAll   StickyHandling = "all"
	StickyIgnoreAll   StickyHandling = "ignore_all"
	StickyRestoreOnly StickyHandling = "restore_only"
)

// Settings holds every behavioural gate the tiling core reads. All fields
// have working defaults; an absent config file is not an error.
type Settings struct {
	MoveNewWindowsToLastZone bool           `yaml:"move_new_windows_to_last_zone"`
	RestoreWindowsOnRestart  bool           `yaml:"restore_windows_on_restart"`
	StickyWindowHandling     StickyHandling `yaml:"sticky_window_handling"`
	NewWindowAsMaster        bool           `yaml:"new_window_as_master"`
	CountMinimizedWindows    bool           `yaml:"count_minimized_windows"`

	InnerGap     int `yaml:"inner_gap"`
	OuterGap     int `yaml:"outer_gap"`
	GapThreshold int `yaml:"gap_threshold"`

	AutoTileDebounceMs int `yaml:"auto_tile_debounce_ms"`
	SaveDebounceMs     int `yaml:"save_debounce_ms"`
}

// Default returns the settings used when no config file exists.
func Default() Settings {
	return Settings{
		MoveNewWindowsToLastZone: false,
		RestoreWindowsOnRestart:  true,
		StickyWindowHandling:     StickyHandleAll,
		NewWindowAsMaster:        false,
		CountMinimizedWindows:    false,
		InnerGap:                 0,
		OuterGap:                 0,
		GapThreshold:             5,
		AutoTileDebounceMs:       50,
		SaveDebounceMs:           500,
	}
}

// DefaultConfigPath returns ~/.config/plasmazones/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "plasmazones", "config.yaml"), nil
}

// Load reads settings from the standard location, merging over defaults.
func Load() (Settings, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads settings from an explicit file. A missing file yields
// the defaults without error; a malformed file is an error.
func LoadFromPath(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("failed to parse config: %w", err)
	}
	s.normalize()
	return s, nil
}

func (s *Settings) normalize() {
	switch s.StickyWindowHandling {
	case StickyHandleAll, StickyIgnoreAll, StickyRestoreOnly:
	default:
		s.StickyWindowHandling = StickyHandleAll
	}
	if s.InnerGap < 0 {
		s.InnerGap = 0
	}
	if s.OuterGap < 0 {
		s.OuterGap = 0
	}
	if s.GapThreshold < 0 {
		s.GapThreshold = 0
	}
	if s.AutoTileDebounceMs <= 0 {
		s.AutoTileDebounceMs = 50
	}
	if s.SaveDebounceMs <= 0 {
		s.SaveDebounceMs = 500
	}
}
