package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cortex/pkg/cache"
	"github.com/matzehuels/cortex/pkg/catalog"
	"github.com/matzehuels/cortex/pkg/pipeline"
	"github.com/matzehuels/cortex/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cortex"

	// defaultArtifactPrefix prefixes files written by the plan command.
	defaultArtifactPrefix = "cortex-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command results; status lines and logs go elsewhere.
	Out io.Writer

	catalogPath string // --catalog
	plansDir    string // --plans-dir
	noCache     bool   // --no-cache
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Catalog & Runner Factory
// =============================================================================

// loadCatalog returns the catalog named by --catalog, or the embedded one.
func (c *CLI) loadCatalog() (*catalog.Catalog, error) {
	if c.catalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(c.catalogPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded catalog", "path", c.catalogPath, "version", cat.Version)
	return cat, nil
}

// newRunner creates a pipeline runner for CLI use. Plans are persisted in
// the file store when persist is set.
func (c *CLI) newRunner(persist bool) (*pipeline.Runner, error) {
	cat, err := c.loadCatalog()
	if err != nil {
		return nil, err
	}
	var store session.Store
	if persist {
		dir := c.plansDir
		if dir == "" {
			if dir, err = defaultPlansDir(); err != nil {
				return nil, err
			}
		}
		fs, err := session.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using plan store", "path", fs.Path())
		store = fs
	}
	runner := pipeline.NewRunner(cat, store, c.Logger)
	runner.Cache = c.newCache()
	return runner, nil
}

// newCache returns the render cache, or a null cache when caching is
// disabled or the cache directory is unusable.
func (c *CLI) newCache() cache.Cache {
	if c.noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("render cache disabled", "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the render cache directory following XDG
// (~/.cache/cortex/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// defaultPlansDir returns the plan directory following XDG
// (~/.config/cortex/plans/).
func defaultPlansDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "plans"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "plans"), nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// parseFormats splits a comma-separated flag value, dropping blanks.
// An empty value yields def.
func parseFormats(s string, def ...string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// completeFrom returns a flag completion function over catalog names.
func (c *CLI) completeFrom(names func(*catalog.Catalog) []string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cat, err := c.loadCatalog()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return names(cat), cobra.ShellCompDirectiveNoFileComp
	}
}

// registerSelectionCompletions completes the selection flags that cmd
// defines.
func (c *CLI) registerSelectionCompletions(cmd *cobra.Command) {
	completions := map[string]func(*catalog.Catalog) []string{
		"objective": (*catalog.Catalog).CategoryNames,
		"vertical":  (*catalog.Catalog).VerticalNames,
		"budget":    (*catalog.Catalog).InvestmentNames,
		"priority":  (*catalog.Catalog).PriorityNames,
		"stage":     func(cat *catalog.Catalog) []string { return cat.Stages },
	}
	for flag, names := range completions {
		if cmd.Flags().Lookup(flag) != nil {
			_ = cmd.RegisterFlagCompletionFunc(flag, c.completeFrom(names))
		}
	}
}
