// Package build orchestrates the staged site build: content discovery,
// layout resolution, collection indexing, rendering and output writing.
package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/history"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/render"
)

// Service runs builds for one configuration.
type Service struct {
	cfg *config.Config
	rec metrics.Recorder
}

// NewService creates a build service. A nil recorder disables metrics.
func NewService(cfg *config.Config, rec metrics.Recorder) *Service {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Service{cfg: cfg, rec: rec}
}

// Build runs the full pipeline once and returns the report. The report is
// non-nil whenever the pipeline started, including aborted builds; the error
// is the fatal stage error if one occurred.
func (s *Service) Build(ctx context.Context) (*Report, error) {
	buildID := uuid.NewString()
	slog.Info("Build starting", logfields.BuildID(buildID))

	st := &State{
		Config:     s.cfg,
		OutputDir:  s.cfg.Output.Directory,
		Roots:      s.cfg.Content.Roots,
		LayoutsDir: s.cfg.Content.Layouts,
		StaticDir:  s.cfg.Content.Static,
		Site: &render.Site{
			Title:       s.cfg.Site.Title,
			Description: s.cfg.Site.Description,
			BaseURL:     s.cfg.Site.BaseURL,
			Author:      s.cfg.Site.Author,
		},
		Renderer: render.New(),
		Report:   newReport(buildID),
		rec:      s.rec,
	}

	stages := []namedStage{}
	if s.cfg.Content.Remote != nil {
		stages = append(stages, namedStage{"fetch_remote", stageFetchRemote})
	}
	stages = append(stages,
		namedStage{"scan_content", stageScanContent},
		namedStage{"load_layouts", stageLoadLayouts},
		namedStage{"index_collections", stageIndexCollections},
		namedStage{"compute_permalinks", stageComputePermalinks},
		namedStage{"render_documents", stageRenderDocuments},
	)
	if !s.cfg.Build.DisableFeeds {
		stages = append(stages, namedStage{"generate_feeds", stageGenerateFeeds})
	}
	stages = append(stages, namedStage{"write_output", stageWriteOutput})

	fatal := runStages(ctx, st, stages)

	if st.Workspace != nil {
		if err := st.Workspace.Remove(); err != nil {
			slog.Warn("Failed to remove content workspace", logfields.Path(st.Workspace.Dir), logfields.Error(err))
		}
	}

	st.Report.finish()
	st.Report.deriveOutcome()

	s.rec.ObserveBuildDuration(st.Report.End.Sub(st.Report.Start))
	s.rec.IncBuildOutcome(string(st.Report.Outcome))

	if fatal == nil {
		if err := st.Report.Persist(st.OutputDir); err != nil {
			slog.Warn("Failed to persist build report", logfields.Output(st.OutputDir), logfields.Error(err))
		}
	}
	s.exportMetrics()
	s.appendHistory(ctx, st.Report)

	slog.Info("Build finished", logfields.BuildID(buildID), slog.String("summary", st.Report.Summary()))
	return st.Report, fatal
}

func (s *Service) exportMetrics() {
	if s.cfg.Build.MetricsFile == "" {
		return
	}
	prom, ok := s.rec.(*metrics.PrometheusRecorder)
	if !ok {
		return
	}
	if err := prom.WriteTextfile(s.cfg.Build.MetricsFile); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(s.cfg.Build.MetricsFile), logfields.Error(err))
	}
}

func (s *Service) appendHistory(ctx context.Context, report *Report) {
	if s.cfg.Build.HistoryDB == "" {
		return
	}
	store, err := history.Open(s.cfg.Build.HistoryDB)
	if err != nil {
		slog.Warn("Failed to open build history", logfields.Path(s.cfg.Build.HistoryDB), logfields.Error(err))
		return
	}
	defer func() { _ = store.Close() }()

	// Bound ledger writes so a wedged database cannot hang the build exit.
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err = store.Append(hctx, history.Entry{
		BuildID:   report.BuildID,
		Started:   report.Start,
		Finished:  report.End,
		Outcome:   string(report.Outcome),
		Documents: report.Documents,
		Rendered:  report.Rendered,
		Failed:    len(report.FailedDocuments),
		Skipped:   report.Skipped,
	})
	if err != nil {
		slog.Warn("Failed to append build history", logfields.Path(s.cfg.Build.HistoryDB), logfields.Error(err))
	}
}
