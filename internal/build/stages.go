package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/collections"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	bberrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/feeds"
	"git.home.luguber.info/inful/blogbuilder/internal/gitsource"
	"git.home.luguber.info/inful/blogbuilder/internal/layouts"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/output"
	"git.home.luguber.info/inful/blogbuilder/internal/render"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, st *State) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newWarnStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}
func newCanceledStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// State carries mutable build state across stages. It is constructed fresh
// per build and discarded afterwards; nothing here outlives the build, and
// stages never write back into the shared configuration.
type State struct {
	Config    *config.Config
	OutputDir string

	// Content locations for this build. They start as the configured paths
	// and are rebased into the workspace when a remote is fetched.
	Roots      []config.ContentRoot
	LayoutsDir string
	StaticDir  string

	Site        *render.Site
	Workspace   *gitsource.Workspace
	Scan        *content.ScanResult
	Layouts     *layouts.Store
	Collections map[string]*collections.Collection
	Renderer    *render.Renderer

	// Tree maps output path to rendered byte content, keyed uniquely.
	Tree map[string][]byte
	// sources tracks which document produced each output path for
	// collision reporting.
	sources map[string]string

	Report *Report
	rec    metrics.Recorder
}

type namedStage struct {
	name string
	fn   Stage
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal error.
func runStages(ctx context.Context, st *State, stages []namedStage) error {
	for _, stage := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(stage.name, ctx.Err())
			st.Report.Errors = append(st.Report.Errors, se)
			st.rec.IncStageResult(stage.name, metrics.ResultCanceled)
			return se
		default:
		}

		t0 := time.Now()
		err := stage.fn(ctx, st)
		dur := time.Since(t0)
		st.Report.StageDurations[stage.name] = dur
		st.rec.ObserveStageDuration(stage.name, dur)
		slog.Debug("Stage complete", logfields.Stage(stage.name), logfields.DurationMS(float64(dur.Milliseconds())))

		if err == nil {
			st.rec.IncStageResult(stage.name, metrics.ResultSuccess)
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			// Wrap unknown errors as fatal by default.
			se = newFatalStageError(stage.name, err)
		}
		switch se.Kind {
		case StageErrorWarning:
			st.Report.Warnings = append(st.Report.Warnings, se)
			st.rec.IncStageResult(stage.name, metrics.ResultWarning)
			continue
		case StageErrorCanceled:
			st.Report.Errors = append(st.Report.Errors, se)
			st.rec.IncStageResult(stage.name, metrics.ResultCanceled)
			return se
		default:
			st.Report.Errors = append(st.Report.Errors, se)
			st.rec.IncStageResult(stage.name, metrics.ResultFatal)
			return se
		}
	}
	return nil
}

// stageFetchRemote clones the remote content repository and rebases this
// build's content paths into the checkout. The configuration itself stays
// untouched so a Service can run repeated builds.
func stageFetchRemote(ctx context.Context, st *State) error {
	ws, err := gitsource.Fetch(ctx, st.Config.Content.Remote)
	if err != nil {
		return newFatalStageError("fetch_remote", err)
	}
	st.Workspace = ws
	st.Roots, st.LayoutsDir, st.StaticDir = rebaseIntoWorkspace(ws, st.Roots, st.LayoutsDir, st.StaticDir)
	return nil
}

// rebaseIntoWorkspace maps content paths into the workspace checkout,
// returning fresh values and leaving its inputs unmodified.
func rebaseIntoWorkspace(ws *gitsource.Workspace, roots []config.ContentRoot, layoutsDir, staticDir string) ([]config.ContentRoot, string, string) {
	rebased := make([]config.ContentRoot, len(roots))
	for i, root := range roots {
		rebased[i] = config.ContentRoot{Path: ws.Rebase(root.Path), Collection: root.Collection}
	}
	if layoutsDir != "" {
		layoutsDir = ws.Rebase(layoutsDir)
	}
	if staticDir != "" {
		staticDir = ws.Rebase(staticDir)
	}
	return rebased, layoutsDir, staticDir
}

// stageScanContent discovers documents and assets under the content roots.
func stageScanContent(ctx context.Context, st *State) error {
	result, err := content.NewStore(st.Roots, st.StaticDir, st.Config.Build.StrictFrontMatter).Scan(ctx)
	if err != nil {
		var mfe *content.MalformedFrontMatterError
		if errors.As(err, &mfe) {
			return newFatalStageError("scan_content", bberrors.ContentError(mfe.Path, err))
		}
		return newFatalStageError("scan_content", err)
	}
	st.Scan = result
	st.Report.Documents = len(result.Documents)
	st.Report.Skipped = len(result.Problems)
	st.Report.Assets = len(result.Assets)
	st.rec.AddDocumentsSkipped(len(result.Problems))
	for _, problem := range result.Problems {
		st.Report.Warnings = append(st.Report.Warnings, problem)
	}
	if len(result.Documents) == 0 {
		return newWarnStageError("scan_content", errors.New("no documents found under content roots"))
	}
	return nil
}

// stageLoadLayouts parses every layout template up front so chain resolution
// has a complete view.
func stageLoadLayouts(_ context.Context, st *State) error {
	store, err := layouts.Load(st.LayoutsDir)
	if err != nil {
		return newFatalStageError("load_layouts", bberrors.LayoutError(st.LayoutsDir, err))
	}
	st.Layouts = store
	return nil
}

// stageIndexCollections builds all collections before any render starts; the
// collections map is read-only from here on.
func stageIndexCollections(_ context.Context, st *State) error {
	st.Collections = collections.Index(st.Scan.Documents)
	st.Site.Collections = st.Collections
	for name, col := range st.Collections {
		slog.Debug("Collection indexed", logfields.Collection(name), logfields.Count(len(col.Documents)))
	}
	return nil
}

// stageComputePermalinks computes every document's output path and detects
// collisions before anything is rendered or written, so a collision aborts
// with no partial output from the colliding pair.
func stageComputePermalinks(_ context.Context, st *State) error {
	st.sources = make(map[string]string, len(st.Scan.Documents))
	for _, doc := range st.Scan.Documents {
		p := outputPath(doc)
		if first, exists := st.sources[p]; exists {
			collision := &CollisionError{
				Path:         p,
				FirstSource:  first,
				SecondSource: doc.SourcePath,
			}
			return newFatalStageError("compute_permalinks",
				bberrors.Wrap(collision, bberrors.CategoryOutput, bberrors.SeverityFatal, "output path collision"))
		}
		st.sources[p] = doc.SourcePath
		doc.URL = prettyURL(p)
	}
	return nil
}

// stageRenderDocuments resolves each document's layout chain and renders it
// into the output tree. Individual failures are collected; fail_fast
// escalates the first one to fatal.
func stageRenderDocuments(ctx context.Context, st *State) error {
	st.Tree = make(map[string][]byte, len(st.Scan.Documents))

	// fail records a per-document failure; classified carries the error
	// category when fail_fast escalates it to fatal.
	fail := func(doc *content.Document, err, classified error) *StageError {
		st.Report.FailedDocuments = append(st.Report.FailedDocuments, DocumentFailure{
			Source:  doc.SourcePath,
			Stage:   "render_documents",
			Message: err.Error(),
		})
		st.rec.AddDocumentsFailed(1)
		slog.Error("Document failed", logfields.Source(doc.SourcePath), logfields.Error(err))
		if st.Config.Build.FailFast {
			return newFatalStageError("render_documents", classified)
		}
		return nil
	}

	for _, doc := range st.Scan.Documents {
		select {
		case <-ctx.Done():
			return newCanceledStageError("render_documents", ctx.Err())
		default:
		}

		var chain []*layouts.Layout
		if doc.Meta.Layout != "" {
			resolved, err := st.Layouts.Resolve(doc.Meta.Layout)
			if err != nil {
				if se := fail(doc, err, bberrors.LayoutError(doc.Meta.Layout, err)); se != nil {
					return se
				}
				continue
			}
			chain = resolved
		}

		rendered, err := st.Renderer.Render(doc, chain, st.Site)
		if err != nil {
			if se := fail(doc, err, bberrors.RenderError(doc.SourcePath, err)); se != nil {
				return se
			}
			continue
		}

		st.Tree[outputPath(doc)] = rendered
		st.Report.Rendered++
		st.rec.AddDocumentsRendered(1)
	}

	if len(st.Report.FailedDocuments) > 0 {
		return newWarnStageError("render_documents",
			fmt.Errorf("%d document(s) failed to render", len(st.Report.FailedDocuments)))
	}
	return nil
}

// stageGenerateFeeds adds feed.xml and sitemap.xml for the posts collection.
func stageGenerateFeeds(_ context.Context, st *State) error {
	col, ok := st.Collections[feedCollection(st.Config)]
	if !ok {
		return nil
	}

	site := feeds.Site{
		Title:       st.Config.Site.Title,
		Description: st.Config.Site.Description,
		BaseURL:     st.Config.Site.BaseURL,
	}
	items := make([]feeds.Item, 0, len(col.Documents))
	for _, doc := range col.Documents {
		// Documents that failed to render have no output page to link to.
		if _, rendered := st.Tree[outputPath(doc)]; !rendered {
			continue
		}
		fragment, err := st.Renderer.Fragment(doc)
		if err != nil {
			return newWarnStageError("generate_feeds", err)
		}
		items = append(items, feeds.Item{
			Title:       doc.Meta.Title,
			URL:         doc.URL,
			Description: render.Excerpt(fragment, 280),
			Date:        doc.Meta.Date,
			HasDate:     doc.Meta.HasDate,
		})
	}

	rss, err := feeds.RSS(site, items)
	if err != nil {
		return newWarnStageError("generate_feeds", err)
	}
	sitemap, err := feeds.Sitemap(site, items)
	if err != nil {
		return newWarnStageError("generate_feeds", err)
	}

	for p, data := range map[string][]byte{"/feed.xml": rss, "/sitemap.xml": sitemap} {
		if first, exists := st.sources[p]; exists {
			return newFatalStageError("generate_feeds", &CollisionError{
				Path: p, FirstSource: first, SecondSource: "generated feed",
			})
		}
		st.Tree[p] = data
	}
	return nil
}

// feedCollection picks the collection feeds are built from: the first
// content root with a collection name, defaulting to "posts".
func feedCollection(cfg *config.Config) string {
	for _, root := range cfg.Content.Roots {
		if root.Collection != "" {
			return root.Collection
		}
	}
	return "posts"
}

// stageWriteOutput clears the destination and materializes the output tree.
// Failures here are fatal for the whole build.
func stageWriteOutput(_ context.Context, st *State) error {
	// A static asset landing on a rendered page or generated feed would
	// silently overwrite it; treat that like any other path collision and
	// abort before touching the destination.
	for _, asset := range st.Scan.Assets {
		p := "/" + asset.RelPath
		if _, taken := st.Tree[p]; taken {
			first, ok := st.sources[p]
			if !ok {
				first = "generated feed"
			}
			collision := &CollisionError{Path: p, FirstSource: first, SecondSource: asset.SourcePath}
			return newFatalStageError("write_output",
				bberrors.Wrap(collision, bberrors.CategoryOutput, bberrors.SeverityFatal, "output path collision"))
		}
	}

	writer := output.NewWriter(st.OutputDir)
	if st.Config.Output.CleanEnabled() {
		if err := writer.Clean(); err != nil {
			return newFatalStageError("write_output", bberrors.OutputError(st.OutputDir, err))
		}
	}
	if err := writer.WriteTree(st.Tree); err != nil {
		return newFatalStageError("write_output", bberrors.OutputError(st.OutputDir, err))
	}
	if err := writer.CopyAssets(st.Scan.Assets); err != nil {
		return newFatalStageError("write_output", bberrors.OutputError(st.OutputDir, err))
	}
	return nil
}
