// # cmd/ranger/app.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"ranger/internal/core/config"
	"ranger/internal/core/errors"
	"ranger/internal/core/watcher"
	"ranger/internal/core/workspace"
	"ranger/internal/data/history"
	"ranger/internal/engine/conflicts"
	"ranger/internal/engine/ranges"
	"ranger/internal/shared/observability"
	"ranger/internal/shared/util"
	"ranger/internal/ui/report"
)

type App struct {
	Config *config.Config
	Loader *workspace.Loader

	store      *history.Store
	watcher    *watcher.Watcher
	limiter    *util.Limiter
	teaProgram *tea.Program

	mu      sync.Mutex
	current report.Data
}

func NewApp(cfg *config.Config) (*App, error) {
	loader, err := workspace.NewLoader(cfg.Exclude.Dirs, cfg.Exclude.Files, 0)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Loader:  loader,
		limiter: util.NewLimiter(cfg.Watch.RescanPerSecond, cfg.Watch.RescanBurst),
	}

	if cfg.DB.Enabled {
		store, err := history.Open(cfg.DB.Path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		app.store = store
	}

	return app, nil
}

// RunPass recomputes the whole analysis from current file contents. Results
// are a fresh snapshot every time; nothing carries over between passes.
func (a *App) RunPass(ctx context.Context) (report.Data, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.RunPass")
	defer span.End()

	passID := uuid.NewString()
	data := report.Data{
		PassID:        passID,
		GeneratedAt:   time.Now().UTC(),
		GapsByProject: make(map[string][]ranges.Gap),
		NextByProject: make(map[string]int),
	}

	for _, entry := range a.Config.Projects {
		project, err := a.Loader.LoadProject(ctx, entry.Name, entry.Root, entry.Manifest)
		if err != nil {
			if errors.IsCode(err, errors.CodeInvalidManifest) {
				slog.Warn("skipping project with invalid manifest", "project", entry.Name, "error", err)
				continue
			}
			return report.Data{}, err
		}
		data.Projects = append(data.Projects, project)
	}

	gapsStarted := time.Now()
	for _, project := range data.Projects {
		used := project.UsedIDs()
		data.GapsByProject[project.Name] = ranges.Gaps(project.Ranges, used)
		if next, ok := ranges.NextAvailable(project.Ranges, used); ok {
			data.NextByProject[project.Name] = next
		}
	}
	observability.AnalysisDuration.WithLabelValues("gaps").Observe(time.Since(gapsStarted).Seconds())

	if a.Config.Analysis.SharedRanges {
		mergeStarted := time.Now()
		all := make([]ranges.Range, 0)
		usedAll := make(map[int]bool)
		for _, project := range data.Projects {
			all = append(all, project.Ranges...)
			for id := range project.UsedIDs() {
				usedAll[id] = true
			}
		}
		data.SharedRanges = ranges.Merge(all)
		data.SharedGaps = ranges.Gaps(data.SharedRanges, usedAll)
		observability.AnalysisDuration.WithLabelValues("merge").Observe(time.Since(mergeStarted).Seconds())
	}

	conflictsStarted := time.Now()
	byProject := workspace.DeclarationsByProject(data.Projects)
	data.ObjectConflicts = conflicts.Objects(byProject)
	data.FieldConflicts = conflicts.Fields(byProject)
	data.ValueConflicts = conflicts.Values(byProject)
	observability.AnalysisDuration.WithLabelValues("conflicts").Observe(time.Since(conflictsStarted).Seconds())

	a.publishMetrics(data)
	if err := a.recordPass(data); err != nil {
		slog.Warn("failed to record analysis pass", "pass", passID, "error", err)
	}

	a.mu.Lock()
	a.current = data
	a.mu.Unlock()

	slog.Debug("analysis pass complete",
		"pass", passID,
		"projects", len(data.Projects),
		"object_conflicts", len(data.ObjectConflicts),
		"field_conflicts", len(data.FieldConflicts),
		"value_conflicts", len(data.ValueConflicts),
	)
	return data, nil
}

func (a *App) publishMetrics(data report.Data) {
	observability.PassesTotal.Inc()
	observability.ObjectConflicts.Set(float64(len(data.ObjectConflicts)))
	observability.ChildConflicts.WithLabelValues("field").Set(float64(len(data.FieldConflicts)))
	observability.ChildConflicts.WithLabelValues("value").Set(float64(len(data.ValueConflicts)))
	for name, gaps := range data.GapsByProject {
		free := 0
		for _, g := range gaps {
			free += g.Count()
		}
		observability.FreeIdentifiers.WithLabelValues(name).Set(float64(free))
	}
}

func (a *App) recordPass(data report.Data) error {
	if a.store == nil {
		return nil
	}

	units := 0
	objects := 0
	for _, p := range data.Projects {
		units += p.Units
		objects += len(p.Declarations)
	}
	return a.store.SaveSnapshot(history.Snapshot{
		PassID:          data.PassID,
		Timestamp:       data.GeneratedAt,
		ProjectCount:    len(data.Projects),
		UnitCount:       units,
		ObjectCount:     objects,
		ObjectConflicts: len(data.ObjectConflicts),
		FieldConflicts:  len(data.FieldConflicts),
		ValueConflicts:  len(data.ValueConflicts),
		GapCount:        data.TotalGaps(),
		FreeIDs:         data.TotalFree(),
	})
}

func (a *App) GenerateOutputs(data report.Data) error {
	out := a.Config.Output
	if out.Markdown != "" {
		if err := report.NewMarkdownGenerator().WriteFile(out.Markdown, data); err != nil {
			return fmt.Errorf("write markdown report: %w", err)
		}
	}
	if out.TSV != "" {
		if err := report.NewTSVGenerator().WriteFile(out.TSV, data); err != nil {
			return fmt.Errorf("write tsv report: %w", err)
		}
	}
	if out.SARIF != "" {
		if err := report.WriteSARIF(out.SARIF, VERSION, data); err != nil {
			return fmt.Errorf("write sarif report: %w", err)
		}
	}
	return nil
}

func (a *App) PrintSummary(data report.Data) {
	fmt.Printf("Projects: %d\n", len(data.Projects))
	for _, project := range data.Projects {
		line := fmt.Sprintf("  %s: %d declarations", project.Name, len(project.Declarations))
		if next, ok := data.NextByProject[project.Name]; ok {
			line += fmt.Sprintf(", next free id %d", next)
		} else if len(project.Ranges) == 0 {
			line += ", no ranges configured"
		} else {
			line += ", no free ids"
		}
		fmt.Println(line)
	}
	if data.SharedGaps != nil {
		free := 0
		for _, g := range data.SharedGaps {
			free += g.Count()
		}
		fmt.Printf("Shared space: %d free ids across %d merged ranges\n", free, len(data.SharedRanges))
	}
	fmt.Printf("Conflicts: %d object, %d field, %d value\n",
		len(data.ObjectConflicts), len(data.FieldConflicts), len(data.ValueConflicts))
}

// StartWatcher rescans on debounced file changes. The limiter coalesces event
// storms into at most a few passes per second.
func (a *App) StartWatcher(ctx context.Context) error {
	roots := make([]string, 0, len(a.Config.Projects))
	for _, entry := range a.Config.Projects {
		roots = append(roots, entry.Root)
	}

	w, err := watcher.New(a.Config.Watch.Debounce, a.Config.Exclude.Dirs, a.Config.Exclude.Files, func(paths []string) {
		if !a.limiter.Allow(1) {
			if err := a.limiter.Wait(ctx, 1); err != nil {
				return
			}
		}
		slog.Debug("rescanning after change", "changed", len(paths))
		data, err := a.RunPass(ctx)
		if err != nil {
			slog.Error("rescan failed", "error", err)
			return
		}
		if err := a.GenerateOutputs(data); err != nil {
			slog.Error("failed to generate outputs", "error", err)
		}
		if a.teaProgram != nil {
			a.teaProgram.Send(toUpdateMsg(data))
		}
	})
	if err != nil {
		return err
	}
	a.watcher = w
	return w.Watch(roots)
}

func (a *App) RunUI() error {
	a.mu.Lock()
	data := a.current
	a.mu.Unlock()

	m := initialModel()
	a.teaProgram = tea.NewProgram(m, tea.WithAltScreen())
	go a.teaProgram.Send(toUpdateMsg(data))

	_, err := a.teaProgram.Run()
	return err
}

func (a *App) Close() error {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			return err
		}
	}
	return a.store.Close()
}
