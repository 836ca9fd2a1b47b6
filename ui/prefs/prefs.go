// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	appDir    = "pose-editor"
	prefsFile = "preferences.json"

	// ConfigDirEnv overrides the directory holding the preferences file.
	ConfigDirEnv = "POSE_EDITOR_CONFIG_DIR"
)

// Preference keys.
const (
	KeyLastDir      = "lastDir"
	KeyZoom         = "zoom"
	KeyShowLabels   = "showLabels"
	KeyHitRadius    = "hitRadius"
	KeyHistoryLimit = "historyLimit"
	KeyWindowWidth  = "windowWidth"
	KeyWindowHeight = "windowHeight"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// DefaultPath returns the preferences file location, honoring ConfigDirEnv.
func DefaultPath() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return filepath.Join(dir, prefsFile)
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, prefsFile)
}

// Load reads preferences from DefaultPath.
// Returns a Prefs with defaults if the file doesn't exist.
func Load() *Prefs {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads preferences from path. A missing or corrupt file yields
// empty preferences that will be written back to path on Save.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	if p.values == nil {
		p.values = make(map[string]interface{})
	}
	return p
}

// Path returns the file the preferences are saved to.
func (p *Prefs) Path() string { return p.path }

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Int returns an integer preference, or fallback if not set.
// JSON numbers decode as float64 and are truncated.
func (p *Prefs) Int(key string, fallback int) int {
	return int(p.FloatWithFallback(key, float64(fallback)))
}

// SetInt stores an integer preference.
func (p *Prefs) SetInt(key string, val int) {
	p.SetFloat(key, float64(val))
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key].(bool); ok {
		return v
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}
