package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mstoykov/envconfig"
	"github.com/spf13/afero"
)

// LookupFunc resolves an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// FindFile walks up from startDir to locate snep.toml.
func FindFile(fsys afero.Fs, startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := fsys.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadFile parses a snep.toml. Unknown keys are an error.
func LoadFile(fsys afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// FromEnv reads the SNEP_* variables through lookup.
func FromEnv(lookup LookupFunc) (Config, error) {
	var cfg Config
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := envconfig.Process("", &cfg, lookup); err != nil {
		return Config{}, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}

// Sources describes where the consolidated settings came from.
type Sources struct {
	FilePath string // пусто, если snep.toml не найден
}

// Options control Consolidate.
type Options struct {
	Fs       afero.Fs
	StartDir string // откуда искать snep.toml
	File     string // явный путь, отключает поиск
	Lookup   LookupFunc
	Flags    Config
}

// Consolidate combines {defaults + snep.toml + environment + flags} and
// validates the result.
func Consolidate(opts Options) (Config, Sources, error) {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	var src Sources
	result := Default()

	path, found := opts.File, opts.File != ""
	if !found {
		var err error
		path, found, err = FindFile(fsys, opts.StartDir)
		if err != nil {
			return result, src, err
		}
	}
	if found {
		fileConf, err := LoadFile(fsys, path)
		if err != nil {
			return result, src, err
		}
		result = result.Apply(fileConf)
		src.FilePath = path
	}

	envConf, err := FromEnv(opts.Lookup)
	if err != nil {
		return result, src, err
	}
	result = result.Apply(envConf).Apply(opts.Flags)

	if err := result.Validate(); err != nil {
		return result, src, fmt.Errorf("invalid configuration: %w", err)
	}
	return result, src, nil
}
