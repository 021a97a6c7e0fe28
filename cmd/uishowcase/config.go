package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/gnana997/uishowcase/catalogs"
	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/icons"
	"github.com/gnana997/uishowcase/pkg/jsx"
	"github.com/gnana997/uishowcase/pkg/util"
)

const (
	envPrefix         = "UISHOWCASE"
	envConfigFile     = "UISHOWCASE_CONFIG_FILE"
	defaultConfigDir  = ".uishowcase"
	defaultConfigName = "config"
)

// Config holds the contents of .uishowcase/config.yaml after environment
// and flag overrides.
type Config struct {
	CatalogPath string       `mapstructure:"catalog_path"`
	CatalogDir  string       `mapstructure:"catalog_dir"`
	IconsPath   string       `mapstructure:"icons_path"`
	LogLevel    string       `mapstructure:"log_level"`
	LogFormat   string       `mapstructure:"log_format"`
	LogPath     string       `mapstructure:"log_path"`
	HTTP        HTTPConfig   `mapstructure:"http"`
	Render      RenderConfig `mapstructure:"render"`
}

// HTTPConfig configures `uishowcase http`.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// RenderConfig holds serializer defaults.
type RenderConfig struct {
	IndentChar      string `mapstructure:"indent_char"`
	InlineAttrLimit int    `mapstructure:"inline_attr_limit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("render.indent_char", jsx.DefaultIndentChar)
	v.SetDefault("render.inline_attr_limit", jsx.DefaultInlineAttrLimit)
}

// readConfig resolves the config file with this precedence:
//  1. --config flag
//  2. UISHOWCASE_CONFIG_FILE
//  3. .uishowcase/config.yaml in the working directory (optional)
//
// Every key can also be set through UISHOWCASE_<KEY> with dots as
// underscores (UISHOWCASE_HTTP_ADDR, UISHOWCASE_RENDER_INDENT_CHAR).
func readConfig(v *viper.Viper, cfgFile string) (Config, error) {
	setDefaults(v)

	explicit := cfgFile
	if explicit == "" {
		explicit = os.Getenv(envConfigFile)
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(defaultConfigDir)
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// renderOptions returns the serializer options configured for this run.
func (c Config) renderOptions() jsx.Options {
	opts := jsx.DefaultOptions()
	if c.Render.IndentChar != "" {
		opts.IndentChar = c.Render.IndentChar
	}
	if c.Render.InlineAttrLimit != 0 {
		opts.InlineAttrLimit = c.Render.InlineAttrLimit
	}
	return opts
}

// loadCatalog returns the catalog to serve, applying the fallback chain:
//  1. catalog_dir: every catalog fragment under the directory, merged
//  2. catalog_path: a single YAML or JSON file
//  3. the embedded showcase catalog
func (c Config) loadCatalog(cache *util.SourceCache) (*catalog.QueryService, error) {
	switch {
	case c.CatalogDir != "":
		cat, idx, err := catalog.LoadDir(c.CatalogDir, catalog.DefaultDiscoverConfig(), cache)
		if err != nil {
			return nil, err
		}
		return catalog.NewQueryService(cat, idx), nil
	case c.CatalogPath != "":
		return catalog.LoadAndQuery(c.CatalogPath)
	default:
		return catalog.LoadAndQueryBytes(catalogs.ShowcaseYAML)
	}
}

// watchRoot returns the directory and patterns a watcher should use for the
// configured catalog source, or ok=false for the embedded catalog.
func (c Config) watchRoot() (root string, patterns catalog.DiscoverConfig, ok bool) {
	switch {
	case c.CatalogDir != "":
		return c.CatalogDir, catalog.DefaultDiscoverConfig(), true
	case c.CatalogPath != "":
		return filepath.Dir(c.CatalogPath), catalog.DiscoverConfig{Include: []string{filepath.Base(c.CatalogPath)}}, true
	default:
		return "", catalog.DiscoverConfig{}, false
	}
}

// loadIcons returns the icon registry from icons_path, or the built-in list.
func (c Config) loadIcons() (*icons.Registry, error) {
	if c.IconsPath == "" {
		return icons.Default(), nil
	}
	return icons.LoadFile(c.IconsPath)
}
