// Package catalog loads a directory of walkthrough definitions and keeps it current.
//
// Every *.yaml and *.yml file in the directory holds one definition. Files that fail to
// parse or compile are reported through Problems and left out of the catalog; the
// remaining tours stay available.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/waypoint/internal/compiler"
	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/schema"
)

// DefaultDebounce coalesces the burst of events editors emit for a single save.
const DefaultDebounce = 100 * time.Millisecond

// Entry summarises one loaded tour.
type Entry struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Steps int    `json:"steps"`
	Path  string `json:"path"`
}

type Option func(*Catalog)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithDebounce sets the quiet period before a watched change triggers a reload.
func WithDebounce(d time.Duration) Option {
	return func(c *Catalog) {
		c.debounce = d
	}
}

// Catalog is safe for concurrent use.
type Catalog struct {
	dir      string
	compiler *compiler.Compiler
	logger   *slog.Logger
	debounce time.Duration

	mu       sync.RWMutex
	defs     map[string]*schema.Definition
	paths    map[string]string
	problems map[string]error
}

// New creates an empty catalog over dir. Call Load to read it.
func New(dir string, c *compiler.Compiler, opts ...Option) *Catalog {
	cat := &Catalog{
		dir:      dir,
		compiler: c,
		logger:   logging.NewNop(),
		debounce: DefaultDebounce,
		defs:     make(map[string]*schema.Definition),
		paths:    make(map[string]string),
		problems: make(map[string]error),
	}
	for _, opt := range opts {
		opt(cat)
	}
	return cat
}

// Dir returns the watched directory.
func (c *Catalog) Dir() string { return c.dir }

// Load reads every definition in the directory and replaces the catalog contents.
// The returned error joins the per-file problems; valid files are loaded regardless.
func (c *Catalog) Load() error {
	files, err := definitionFiles(c.dir)
	if err != nil {
		return err
	}

	defs := make(map[string]*schema.Definition, len(files))
	paths := make(map[string]string, len(files))
	problems := make(map[string]error)

	for _, path := range files {
		def, err := c.loadFile(path)
		if err != nil {
			problems[path] = err
			continue
		}
		if other, dup := paths[def.ID]; dup {
			problems[path] = fmt.Errorf("%w: duplicate tour id %q (also in %s)", domain.ErrInvalidDefinition, def.ID, other)
			continue
		}
		defs[def.ID] = def
		paths[def.ID] = path
	}

	c.mu.Lock()
	c.defs, c.paths, c.problems = defs, paths, problems
	c.mu.Unlock()

	c.logger.Info("catalog loaded", "dir", c.dir, "tours", len(defs), "problems", len(problems))
	return joinProblems(problems)
}

func (c *Catalog) loadFile(path string) (*schema.Definition, error) {
	def, err := schema.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidDefinition, err)
	}
	// Compiling surfaces unknown actions and bad params at load time.
	if _, err := c.compiler.Compile(def); err != nil {
		return nil, err
	}
	return def, nil
}

// List returns the loaded tours sorted by id.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entry, 0, len(c.defs))
	for id, def := range c.defs {
		out = append(out, Entry{ID: id, Title: def.Title, Steps: len(def.Steps), Path: c.paths[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Definition returns the definition with the given id.
func (c *Catalog) Definition(id string) (*schema.Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.defs[id]
	return def, ok
}

// Tour compiles a fresh tour for id. Each session needs its own instance.
func (c *Catalog) Tour(id string) (*domain.Tour, error) {
	def, ok := c.Definition(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTourNotFound, id)
	}
	return c.compiler.Compile(def)
}

// Problems returns the load error of every rejected file, keyed by path.
func (c *Catalog) Problems() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]error, len(c.problems))
	for k, v := range c.problems {
		out[k] = v
	}
	return out
}

func definitionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !isDefinitionFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isDefinitionFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return (ext == ".yaml" || ext == ".yml") && !strings.HasPrefix(name, ".")
}

func joinProblems(problems map[string]error) error {
	if len(problems) == 0 {
		return nil
	}
	paths := make([]string, 0, len(problems))
	for p := range problems {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	errs := make([]error, 0, len(paths))
	for _, p := range paths {
		errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(p), problems[p]))
	}
	return errors.Join(errs...)
}
