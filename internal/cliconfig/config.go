// Package cliconfig loads scriptpp.yml: the module cache size, import
// search paths, and native-plugin connection strings a `scriptpp`
// invocation needs before it constructs its Program.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is scriptpp.yml's shape.
type Config struct {
	ModuleCache ModuleCacheConfig `mapstructure:"module_cache"`
	Import      ImportConfig      `mapstructure:"import"`
	Plugins     PluginsConfig     `mapstructure:"plugins"`
}

// ModuleCacheConfig sizes the Program's module cache
// (internal/lang/program.WithCacheCapacity) — a capacity hint for the
// underlying map, not a bound: the cache never evicts, since imported
// modules must stay memoized for the Program's lifetime.
type ModuleCacheConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// ImportConfig holds the `import.paths` list read from scriptpp.yml.
// Program.Import does not consult it: `import` resolves module ids
// against the entrypoint's startup directory only.
type ImportConfig struct {
	Paths []string `mapstructure:"paths"`
}

// PluginsConfig carries the DSNs the built-in native plugins dial when
// `cmd/scriptpp` registers them on a new Program.
type PluginsConfig struct {
	DB    DBPluginConfig    `mapstructure:"db"`
	Cache CachePluginConfig `mapstructure:"cache"`
}

type DBPluginConfig struct {
	DSN string `mapstructure:"dsn"`
}

type CachePluginConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads scriptpp.yml/scriptpp.yaml from the current directory,
// falling back to defaults for anything unset. A missing config file is
// not an error — a bare `scriptpp run script.spp` with no project
// config still works.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("module_cache.capacity", 256)
	v.SetDefault("import.paths", []string{})
	v.SetDefault("plugins.db.dsn", "scriptpp.db")
	v.SetDefault("plugins.cache.addr", "redis://127.0.0.1:6379/0")

	v.SetConfigName("scriptpp")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read scriptpp.yml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scriptpp.yml: %w", err)
	}
	return &cfg, nil
}

// InProject reports whether the current directory looks like a scriptpp
// project: a scriptpp.yml/yaml file, or at least one `.spp` file.
func InProject() bool {
	if _, err := os.Stat("scriptpp.yml"); err == nil {
		return true
	}
	if _, err := os.Stat("scriptpp.yaml"); err == nil {
		return true
	}
	matches, _ := filepath.Glob("*.spp")
	return len(matches) > 0
}

// FindProjectRoot walks upward from the current directory looking for
// scriptpp.yml/yaml, returning the directory it's found in.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "scriptpp.yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "scriptpp.yaml")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a scriptpp project (no scriptpp.yml found)")
		}
		dir = parent
	}
}
