package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/uishowcase/pkg/util"
)

// DefaultInclude matches catalog fragment files.
var DefaultInclude = []string{"**/*.catalog.yaml", "**/*.catalog.yml", "**/*.catalog.json"}

// DefaultExclude skips dependency and VCS directories.
var DefaultExclude = []string{"**/node_modules/**", "**/.git/**"}

// DiscoverConfig holds glob patterns relative to the discovery root.
type DiscoverConfig struct {
	Include []string `yaml:"include" json:"include"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// DefaultDiscoverConfig returns the default include/exclude patterns.
func DefaultDiscoverConfig() DiscoverConfig {
	return DiscoverConfig{
		Include: append([]string(nil), DefaultInclude...),
		Exclude: append([]string(nil), DefaultExclude...),
	}
}

// Validate reports the first malformed pattern.
func (c DiscoverConfig) Validate() error {
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range c.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	return nil
}

// Excluded reports whether a slash-separated relative path matches an
// exclude pattern.
func (c DiscoverConfig) Excluded(relPath string) bool {
	for _, pattern := range c.Exclude {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}

// Included reports whether a slash-separated relative path matches an
// include pattern. No include patterns means everything is included.
func (c DiscoverConfig) Included(relPath string) bool {
	if len(c.Include) == 0 {
		return true
	}
	for _, pattern := range c.Include {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}

// Discover walks rootDir applying include/exclude globs from cfg.
// Returns a sorted slice of absolute file paths for deterministic output.
func Discover(rootDir string, cfg DiscoverConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			return nil // Continue walking on errors.
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if relPath != "." && cfg.Excluded(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !cfg.Included(relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", rootDir, err)
	}

	sort.Strings(files)
	return files, nil
}

// LoadDir discovers catalog fragments under rootDir, reads them through
// cache (nil reads directly), merges them, validates the result, and builds
// the index.
func LoadDir(rootDir string, cfg DiscoverConfig, cache *util.SourceCache) (*Catalog, *CatalogIndex, error) {
	files, err := Discover(rootDir, cfg)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no catalog files found under %s", rootDir)
	}

	if cache == nil {
		cache = util.NewSourceCache(len(files), nil)
	}

	parts := make([]*Catalog, 0, len(files))
	for _, path := range files {
		data, err := cache.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		part, err := decode(data)
		if err != nil {
			if errors.Is(err, ErrEmptyCatalog) {
				continue
			}
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		parts = append(parts, part)
	}

	merged := Merge(parts...)
	if merged.Source == "" {
		merged.Source = rootDir
	}
	if errs := merged.Validate(); len(errs) > 0 {
		return nil, nil, fmt.Errorf("catalog validation failed: %w", errors.Join(errs...))
	}
	return merged, merged.BuildIndex(), nil
}
