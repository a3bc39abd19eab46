package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	configFolderName  = "htmd"
	configFileName    = "config.toml"
	configPathEnvName = "XDG_CONFIG_HOME"
	configFileEnvName = "HTMD_CONFIG"
)

// Tag kinds accepted in [[tag]] entries.
const (
	KindInline = "inline"
	KindBlock  = "block"
	KindAtomic = "atomic"
)

// ErrInvalid reports a config file or value that cannot be used.
var ErrInvalid = errors.New("invalid config")

// Config is the resolved CLI configuration.
type Config struct {
	// Path is the file the config was loaded from, empty if none.
	Path         string
	TableDivider bool
	SelfClosing  []string
	Clean        bool
	Tags         []Tag
}

// Tag registers an extra HTML tag with a resolver and a render rule.
type Tag struct {
	Name   string `toml:"name"`
	Kind   string `toml:"kind"`
	Markup string `toml:"markup"`
	Block  bool   `toml:"block"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{TableDivider: true}
}

// Load resolves defaults, then the config file, then HTMD_* environment
// overrides. explicitPath, when set, must exist.
func Load(explicitPath string) (Config, error) {
	cfg := Default()
	path, hasConfig, err := findConfigPath(explicitPath)
	if err != nil {
		return Config{}, err
	}
	if hasConfig {
		fileCfg, err := loadFileConfig(path)
		if err != nil {
			return Config{}, err
		}
		applyFileConfig(&cfg, fileCfg)
		cfg.Path = path
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type fileConfig struct {
	TableDivider *bool    `toml:"table_divider"`
	SelfClosing  []string `toml:"self_closing"`
	Clean        *bool    `toml:"clean"`
	Tags         []Tag    `toml:"tag"`
}

func findConfigPath(explicitPath string) (string, bool, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", false, fmt.Errorf("%w: config path %q: %w", ErrInvalid, explicitPath, err)
		}
		return explicitPath, true, nil
	}
	candidates := make([]string, 0, 3)
	if v := strings.TrimSpace(os.Getenv(configFileEnvName)); v != "" {
		candidates = append(candidates, v)
	}
	if xdgConfigHome := strings.TrimSpace(os.Getenv(configPathEnvName)); xdgConfigHome != "" {
		candidates = append(candidates, filepath.Join(xdgConfigHome, configFolderName, configFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", configFolderName, configFileName))
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", false, fmt.Errorf("%w: config path %q is a directory; expected a file", ErrInvalid, candidate)
			}
			return candidate, true, nil
		}
		if os.IsNotExist(err) {
			continue
		}
		return "", false, fmt.Errorf("failed to read config path %q: %w", candidate, err)
	}
	return "", false, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%w: file %q: %w", ErrInvalid, path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		unknown := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			unknown = append(unknown, key.String())
		}
		sort.Strings(unknown)
		return fileConfig{}, fmt.Errorf("%w: file %q: unknown key(s): %s", ErrInvalid, path, strings.Join(unknown, ", "))
	}
	if err := validateFileConfig(path, cfg); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}

func validateFileConfig(path string, cfg fileConfig) error {
	for _, tag := range cfg.SelfClosing {
		if !validTagName(tag) {
			return fmt.Errorf("%w: file %q: self_closing entry %q is not a tag name", ErrInvalid, path, tag)
		}
	}
	seen := make(map[string]struct{}, len(cfg.Tags))
	for i, tag := range cfg.Tags {
		if !validTagName(tag.Name) {
			return fmt.Errorf("%w: file %q: tag[%d].name %q is not a tag name", ErrInvalid, path, i, tag.Name)
		}
		switch tag.Kind {
		case KindInline, KindBlock, KindAtomic:
		default:
			return fmt.Errorf("%w: file %q: tag[%d].kind must be inline, block or atomic, got %q", ErrInvalid, path, i, tag.Kind)
		}
		name := strings.ToLower(tag.Name)
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: file %q: tag %q defined twice", ErrInvalid, path, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func validTagName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-') {
			return false
		}
	}
	return true
}

func applyFileConfig(cfg *Config, fileCfg fileConfig) {
	if fileCfg.TableDivider != nil {
		cfg.TableDivider = *fileCfg.TableDivider
	}
	if fileCfg.Clean != nil {
		cfg.Clean = *fileCfg.Clean
	}
	cfg.SelfClosing = append(cfg.SelfClosing, fileCfg.SelfClosing...)
	for _, tag := range fileCfg.Tags {
		tag.Name = strings.ToLower(tag.Name)
		cfg.Tags = append(cfg.Tags, tag)
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v, ok := os.LookupEnv("HTMD_TABLE_DIVIDER"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: HTMD_TABLE_DIVIDER=%q: %w", ErrInvalid, v, err)
		}
		cfg.TableDivider = b
	}
	if v, ok := os.LookupEnv("HTMD_SELF_CLOSING"); ok && v != "" {
		for _, tag := range strings.Split(v, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if !validTagName(tag) {
				return fmt.Errorf("%w: HTMD_SELF_CLOSING entry %q is not a tag name", ErrInvalid, tag)
			}
			cfg.SelfClosing = append(cfg.SelfClosing, tag)
		}
	}
	return nil
}
