package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"ranger/internal/core/errors"
	"ranger/internal/engine/alscan"
	"ranger/internal/engine/ranges"
	"ranger/internal/shared/observability"
)

const unitExtension = ".al"

// Project is one independently-authored app: its manifest identity, its
// configured identifier ranges and every declaration scanned from its units.
type Project struct {
	Name         string
	Root         string
	Ranges       []ranges.Range
	Declarations []alscan.Declaration
	Units        int
}

// UsedIDs collects the object identifiers declared by the project, the input
// the range calculator expects.
func (p Project) UsedIDs() map[int]bool {
	used := make(map[int]bool, len(p.Declarations))
	for _, d := range p.Declarations {
		used[d.ID] = true
	}
	return used
}

// Loader reads projects off disk: it walks a project root, filters units
// through the exclusion globs, and scans them in parallel.
type Loader struct {
	scanner      *alscan.Scanner
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
	workers      int
}

func NewLoader(excludeDirs, excludeFiles []string, workers int) (*Loader, error) {
	compiledDirs := make([]glob.Glob, 0, len(excludeDirs))
	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", pattern, err)
		}
		compiledDirs = append(compiledDirs, g)
	}

	compiledFiles := make([]glob.Glob, 0, len(excludeFiles))
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", pattern, err)
		}
		compiledFiles = append(compiledFiles, g)
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Loader{
		scanner:      alscan.New(),
		excludeDirs:  compiledDirs,
		excludeFiles: compiledFiles,
		workers:      workers,
	}, nil
}

// LoadProject assembles one Project from its root directory and manifest
// path. An invalid manifest surfaces as INVALID_MANIFEST so callers can skip
// the project without aborting the workspace.
func (l *Loader) LoadProject(ctx context.Context, name, root, manifestPath string) (Project, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return Project{}, errors.AddContext(
			errors.Wrap(err, errors.CodeInvalidManifest, "manifest unreadable"),
			errors.CtxPath, manifestPath,
		)
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return Project{}, errors.AddContext(err, errors.CtxPath, manifestPath)
	}

	units, err := l.ListUnits(root)
	if err != nil {
		return Project{}, errors.AddContext(err, errors.CtxProject, name)
	}

	started := time.Now()
	decls, err := l.scanUnits(ctx, root, units)
	if err != nil {
		return Project{}, err
	}
	observability.ScanDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())
	observability.DeclarationsTotal.Add(float64(len(decls)))

	// The config entry name wins over the manifest name so that two apps with
	// the same display name stay distinguishable in reports.
	if strings.TrimSpace(name) == "" {
		name = manifest.Name
	}

	return Project{
		Name:         name,
		Root:         root,
		Ranges:       manifest.Ranges,
		Declarations: decls,
		Units:        len(units),
	}, nil
}

// ListUnits walks root and returns every source unit path, sorted by the
// walk order, with the exclusion globs applied to directory and file names.
func (l *Loader) ListUnits(root string) ([]string, error) {
	var units []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := filepath.Base(path)
		if entry.IsDir() {
			if path != root && l.matchesDir(base) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(base), unitExtension) {
			return nil
		}
		if l.matchesFile(base) {
			return nil
		}
		units = append(units, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return units, nil
}

// scanUnits scans every unit concurrently. Each unit is independent, so the
// only coordination is the per-index result slot; the merged output keeps the
// walk order regardless of which worker finished first.
func (l *Loader) scanUnits(ctx context.Context, root string, units []string) ([]alscan.Declaration, error) {
	results := make([][]alscan.Declaration, len(units))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < l.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = l.scanUnit(root, units[i])
			}
		}()
	}

	var cancelled error
feed:
	for i := range units {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}

	merged := make([]alscan.Declaration, 0)
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}

func (l *Loader) scanUnit(root, path string) []alscan.Declaration {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("failed to read unit", "path", path, "error", err)
		return nil
	}
	observability.UnitsScannedTotal.Inc()
	return l.scanner.Scan(string(data), unitID(root, path))
}

// unitID is the unit identifier stamped into source locations: the path
// relative to the project root, slash-separated on every platform.
func unitID(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (l *Loader) matchesDir(base string) bool {
	for _, g := range l.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (l *Loader) matchesFile(base string) bool {
	for _, g := range l.excludeFiles {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// DeclarationsByProject shapes loaded projects into the conflict detector's
// input.
func DeclarationsByProject(projects []Project) map[string][]alscan.Declaration {
	out := make(map[string][]alscan.Declaration, len(projects))
	for _, p := range projects {
		out[p.Name] = p.Declarations
	}
	return out
}
