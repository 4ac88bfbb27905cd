package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds user preferences loaded from the config file. Every
// field is optional; command-line flags override config values.
//
// Example ~/.config/brickmap/config.toml:
//
//	cache_dir = "/var/cache/brickmap"
//	redis_url = "redis://localhost:6379/0"
//
//	[owner]
//	id = "a1b16aca-9627-4a16-a160-67fa9adbb7b6"
//	name = "Terrain Bot"
//
//	[defaults]
//	size = 2
//	style = "stud"
//	cull = true
type Config struct {
	CacheDir string `toml:"cache_dir"`
	RedisURL string `toml:"redis_url"`

	Owner struct {
		ID   string `toml:"id"`
		Name string `toml:"name"`
	} `toml:"owner"`

	Defaults struct {
		Size  uint32 `toml:"size"`
		Scale uint32 `toml:"scale"`
		Style string `toml:"style"`
		Cull  bool   `toml:"cull"`
		Snap  bool   `toml:"snap"`
	} `toml:"defaults"`
}

// loadConfig reads the config file at path. A missing file is not an
// error: commands work with a zero config.
func loadConfig(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		return &cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}
