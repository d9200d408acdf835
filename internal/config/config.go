// Package config handles project and global configuration.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the project configuration file name at the project root.
const ProjectFile = "bibscope.yml"

// Output file names under the processed directory.
const (
	MergedFile     = "merged.bib"
	DuplicatesFile = "duplicates.bib"
	RecordsFile    = "merged.jsonl"
	StatsFile      = "stats.json"
	IndexFile      = "index.db"
)

// RootEnv overrides project discovery when set.
const RootEnv = "BIBSCOPE_ROOT"

// ErrProjectNotFound is returned when no bibscope.yml is found.
var ErrProjectNotFound = errors.New("not in a bibscope project (no " + ProjectFile + " found)")

// Config represents project configuration stored in bibscope.yml.
type Config struct {
	RawDir       string           `yaml:"raw_dir"`       // Directory of input .bib files
	ProcessedDir string           `yaml:"processed_dir"` // Merged bibliography and JSON outputs
	FiguresDir   string           `yaml:"figures_dir"`   // HTML renders
	Dedupe       DedupeConfig     `yaml:"dedupe"`
	Similarity   SimilarityConfig `yaml:"similarity"`
	Stats        StatsConfig      `yaml:"stats"`
	Viz          VizConfig        `yaml:"viz"`
	Categories   []Category       `yaml:"categories"`

	root string
}

// DedupeConfig configures the merge stage.
type DedupeConfig struct {
	KeepKeyless bool `yaml:"keep_keyless"` // Keep entries with no DOI and no title instead of collapsing them
}

// SimilarityConfig configures the similarity stage.
type SimilarityConfig struct {
	JaccardThreshold  float64 `yaml:"jaccard_threshold"`
	TFIDFThreshold    float64 `yaml:"tfidf_threshold"`
	MinAbstractLength int     `yaml:"min_abstract_length"` // Abstracts must be strictly longer
}

// StatsConfig configures the statistics stage.
type StatsConfig struct {
	TopN int `yaml:"top_n"`
}

// VizConfig configures graph rendering.
type VizConfig struct {
	Layout string `yaml:"layout"` // force, circle, or grid
}

// Category is a named list of raw keyword terms. A term may list synonyms
// separated by " - ".
type Category struct {
	Name  string   `yaml:"name"`
	Terms []string `yaml:"terms"`
}

// Slug returns the category's file name stem.
func (c Category) Slug() string {
	return Slug(c.Name)
}

// Default returns the configuration used when bibscope.yml leaves a field unset.
func Default() *Config {
	return &Config{
		RawDir:       filepath.Join("data", "raw"),
		ProcessedDir: filepath.Join("data", "processed"),
		FiguresDir:   "figures",
		Similarity: SimilarityConfig{
			JaccardThreshold:  0.2,
			TFIDFThreshold:    0.3,
			MinAbstractLength: 30,
		},
		Stats:      StatsConfig{TopN: 15},
		Viz:        VizConfig{Layout: "force"},
		Categories: DefaultCategories(),
	}
}

// ProjectPath returns the path to bibscope.yml from a root path.
func ProjectPath(root string) string {
	return filepath.Join(root, ProjectFile)
}

// IsProject checks if the given path contains a bibscope project.
func IsProject(root string) bool {
	info, err := os.Stat(ProjectPath(root))
	return err == nil && !info.IsDir()
}

// FindProject walks up from the given path to find a bibscope project.
// Returns the project root path or ErrProjectNotFound.
func FindProject(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsProject(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrProjectNotFound
		}
		abs = parent
	}
}

// ResolveProject locates the project root: $BIBSCOPE_ROOT if set, else the
// nearest enclosing project of start, else the global project_path.
func ResolveProject(start string, global *GlobalConfig) (string, error) {
	if root := os.Getenv(RootEnv); root != "" {
		root = ExpandPath(root)
		if !IsProject(root) {
			return "", fmt.Errorf("%s=%s: %w", RootEnv, root, ErrProjectNotFound)
		}
		return root, nil
	}

	root, err := FindProject(start)
	if err == nil {
		return root, nil
	}
	if !errors.Is(err, ErrProjectNotFound) {
		return "", err
	}

	if global != nil && global.ProjectPath != "" && IsProject(global.ProjectPath) {
		return global.ProjectPath, nil
	}
	return "", ErrProjectNotFound
}

// Load reads configuration from the project at the given root. Fields left
// out of bibscope.yml keep their defaults.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ProjectPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.root = root
	return cfg, nil
}

// Save writes configuration to the project at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ProjectPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	c.root = root
	return nil
}

// Validate checks thresholds, layout, and category names.
func (c *Config) Validate() error {
	for name, th := range map[string]float64{
		"similarity.jaccard_threshold": c.Similarity.JaccardThreshold,
		"similarity.tfidf_threshold":   c.Similarity.TFIDFThreshold,
	} {
		if math.IsNaN(th) || th < 0 || th > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, th)
		}
	}
	if c.Similarity.MinAbstractLength < 0 {
		return fmt.Errorf("similarity.min_abstract_length must not be negative")
	}
	if c.Stats.TopN <= 0 {
		return fmt.Errorf("stats.top_n must be positive, got %d", c.Stats.TopN)
	}
	switch c.Viz.Layout {
	case "", "force", "circle", "grid":
	default:
		return fmt.Errorf("invalid viz.layout %q: must be force, circle, or grid", c.Viz.Layout)
	}

	seen := make(map[string]string)
	for i, cat := range c.Categories {
		slug := cat.Slug()
		if slug == "" {
			return fmt.Errorf("category %d has no name", i)
		}
		if prev, dup := seen[slug]; dup {
			return fmt.Errorf("categories %q and %q share the file name %q", prev, cat.Name, slug)
		}
		seen[slug] = cat.Name
	}
	return nil
}

// Root returns the project root the config was loaded from or saved to.
func (c *Config) Root() string {
	return c.root
}

// WithRoot returns a copy of c anchored at root.
func (c *Config) WithRoot(root string) *Config {
	cp := *c
	cp.root = root
	return &cp
}

func (c *Config) resolve(p string) string {
	p = ExpandPath(p)
	if filepath.IsAbs(p) || c.root == "" {
		return p
	}
	return filepath.Join(c.root, p)
}

// RawPath returns the resolved raw input directory.
func (c *Config) RawPath() string { return c.resolve(c.RawDir) }

// ProcessedPath returns the resolved processed output directory.
func (c *Config) ProcessedPath() string { return c.resolve(c.ProcessedDir) }

// FiguresPath returns the resolved figures directory.
func (c *Config) FiguresPath() string { return c.resolve(c.FiguresDir) }

// ProcessedFile returns the path of a file in the processed directory.
func (c *Config) ProcessedFile(name string) string {
	return filepath.Join(c.ProcessedPath(), name)
}

// FigureFile returns the path of a file in the figures directory.
func (c *Config) FigureFile(name string) string {
	return filepath.Join(c.FiguresPath(), name)
}

// Category returns the category whose name or slug matches name.
func (c *Config) Category(name string) (Category, bool) {
	slug := Slug(name)
	for _, cat := range c.Categories {
		if cat.Slug() == slug {
			return cat, true
		}
	}
	return Category{}, false
}

// Slug lowercases name and joins its letter and digit runs with underscores:
// "Computational concepts" becomes "computational_concepts".
func Slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "_")
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
