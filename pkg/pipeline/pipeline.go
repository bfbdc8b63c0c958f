// Package pipeline orchestrates a full load run: fetch the four STRING source
// files, build and populate the identifier table, run one filter pass per
// configured cutoff, then hand each output table to the CX writer and NDEx.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-stringload/pkg/archive"
	"github.com/dd0wney/cluso-stringload/pkg/config"
	"github.com/dd0wney/cluso-stringload/pkg/cx"
	"github.com/dd0wney/cluso-stringload/pkg/download"
	"github.com/dd0wney/cluso-stringload/pkg/edges"
	"github.com/dd0wney/cluso-stringload/pkg/identifiers"
	"github.com/dd0wney/cluso-stringload/pkg/ledger"
	"github.com/dd0wney/cluso-stringload/pkg/logging"
	"github.com/dd0wney/cluso-stringload/pkg/metrics"
)

// NetworkService is the slice of the NDEx client the pipeline uses. The
// concrete client satisfies it; tests substitute a fake.
type NetworkService interface {
	CreateNetwork(ctx context.Context, cx io.Reader) (uuid.UUID, error)
	UpdateNetwork(ctx context.Context, id uuid.UUID, cx io.Reader) error
}

// Loader wires the pipeline stages together. Profile, DataDir and Logger are
// required; everything else is optional and skipped when nil.
type Loader struct {
	Profile *config.Profile
	DataDir string

	// SkipDownload reuses the unpacked files already in DataDir.
	SkipDownload bool

	Logger  logging.Logger
	Metrics *metrics.Registry

	Downloader *download.Downloader
	Ledger     *ledger.Ledger
	Archiver   *archive.Archiver

	// Writer and Style enable CX generation; NDEx enables upload of the
	// generated files.
	Writer cx.Writer
	Style  *cx.StyleTemplate
	NDEx   NetworkService
	Layout cx.LayoutEngine
}

// PassReport describes the outcome of one cutoff pass.
type PassReport struct {
	Cutoff     float64
	Result     edges.Result
	OutputPath string
	CXPath     string    // empty when no writer is configured
	NetworkID  uuid.UUID // uuid.Nil when not uploaded
	Created    bool      // true when the upload created a new network
	Nodes      int
	Edges      int
}

// Report summarizes a whole run.
type Report struct {
	Identifiers         int
	NameConflicts       int
	RepresentsConflicts int
	Passes              []PassReport

	// UploadErrors maps a cutoff label to the error that kept its network
	// off NDEx. Upload failures don't abort the batch; the tables are on
	// disk and the remaining cutoffs still run.
	UploadErrors map[string]error
}

// Run executes the pipeline. It returns a partial report alongside the error
// when a stage fails, so callers can see how far the run got.
func (l *Loader) Run(ctx context.Context) (*Report, error) {
	if l.Logger == nil {
		l.Logger = logging.NewNopLogger()
	}
	report := &Report{UploadErrors: make(map[string]error)}

	if !l.SkipDownload {
		if err := l.fetchSources(ctx); err != nil {
			return report, err
		}
	}

	catalog, err := l.buildCatalog()
	if err != nil {
		return report, err
	}
	report.Identifiers = catalog.Len()
	report.NameConflicts = len(catalog.NameConflicts)
	report.RepresentsConflicts = len(catalog.RepresentsConflicts)

	for _, cutoff := range l.Profile.CutoffScores {
		pass, err := l.runPass(ctx, catalog, cutoff, report)
		if err != nil {
			return report, err
		}
		report.Passes = append(report.Passes, pass)
	}

	return report, nil
}

func (l *Loader) fetchSources(ctx context.Context) error {
	if l.Downloader == nil {
		l.Downloader = download.New(l.Logger)
	}
	files := l.Profile.Files
	sources := []download.Source{
		{URL: l.Profile.Sources.ProteinLinks, Dest: filepath.Join(l.DataDir, files.Links)},
		{URL: l.Profile.Sources.Names, Dest: filepath.Join(l.DataDir, files.Names)},
		{URL: l.Profile.Sources.EntrezIDs, Dest: filepath.Join(l.DataDir, files.Entrez)},
		{URL: l.Profile.Sources.UniprotIDs, Dest: filepath.Join(l.DataDir, files.Uniprot)},
	}
	if err := os.MkdirAll(l.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return l.Downloader.FetchAll(ctx, sources)
}

func (l *Loader) buildCatalog() (*identifiers.Catalog, error) {
	files := l.Profile.Files
	linksPath := filepath.Join(l.DataDir, files.Links)

	start := time.Now()
	catalog, err := identifiers.BuildCatalog(linksPath)
	if err != nil {
		return nil, err
	}
	l.Logger.Info("identifier table built",
		logging.File(linksPath), logging.Count(catalog.Len()))
	l.recordStage("catalog", catalog.Len(), time.Since(start))
	if l.Metrics != nil {
		l.Metrics.RecordIdentifiers(catalog.Len())
	}

	type populator struct {
		stage string
		path  string
		run   func(string) (int, error)
	}
	for _, p := range []populator{
		{"display_names", filepath.Join(l.DataDir, files.Names), catalog.PopulateDisplayNames},
		{"aliases", filepath.Join(l.DataDir, files.Entrez), catalog.PopulateAliases},
		{"represents", filepath.Join(l.DataDir, files.Uniprot), catalog.PopulateRepresents},
	} {
		start := time.Now()
		rows, err := p.run(p.path)
		if err != nil {
			return nil, err
		}
		l.Logger.Info("reference file applied",
			logging.String("stage", p.stage), logging.File(p.path), logging.Rows(rows))
		l.recordStage(p.stage, rows, time.Since(start))
	}

	if l.Metrics != nil {
		l.Metrics.RecordConflicts("display_name", len(catalog.NameConflicts))
		l.Metrics.RecordConflicts("represents", len(catalog.RepresentsConflicts))
	}
	for id, rejected := range catalog.NameConflicts {
		l.Logger.Warn("conflicting display names",
			logging.String("id", id), logging.Any("values", rejected))
	}
	for id, rejected := range catalog.RepresentsConflicts {
		l.Logger.Warn("conflicting uniprot mappings",
			logging.String("id", id), logging.Any("values", rejected))
	}

	return catalog, nil
}

func (l *Loader) runPass(ctx context.Context, catalog *identifiers.Catalog, cutoff float64, report *Report) (PassReport, error) {
	pass := PassReport{
		Cutoff:     cutoff,
		OutputPath: l.Profile.OutputPath(l.DataDir, cutoff),
	}

	start := time.Now()
	result, err := edges.RunPass(edges.Options{
		LinksPath:  filepath.Join(l.DataDir, l.Profile.Files.Links),
		OutputPath: pass.OutputPath,
		Cutoff:     cutoff,
	}, catalog, l.Logger)
	if err != nil {
		return pass, err
	}
	pass.Result = result
	l.Logger.Info("filter pass complete",
		logging.Cutoff(cutoff),
		logging.Rows(result.Accepted),
		logging.Duplicates(result.Duplicates))
	if l.Metrics != nil {
		l.Metrics.RecordFilterPass(cutoff, result.Accepted, result.Duplicates, time.Since(start))
	}

	if l.Writer != nil {
		if err := l.generateAndUpload(ctx, &pass, report); err != nil {
			return pass, err
		}
	}

	if l.Ledger != nil {
		networkID := ""
		if pass.NetworkID != uuid.Nil {
			networkID = pass.NetworkID.String()
		}
		if _, err := l.Ledger.Record(ledger.Run{
			StringVersion: l.Profile.StringVersion,
			Cutoff:        cutoff,
			Scanned:       result.Scanned,
			Accepted:      result.Accepted,
			Duplicates:    result.Duplicates,
			NetworkID:     networkID,
			OutputPath:    pass.OutputPath,
		}); err != nil {
			return pass, err
		}
	}

	if l.Archiver != nil {
		if _, err := l.Archiver.Archive(ctx, pass.OutputPath); err != nil {
			return pass, err
		}
	}

	return pass, nil
}

// generateAndUpload converts one output table to CX and pushes it to NDEx.
// Upload failures are recorded in the report, not returned: the table and CX
// file stay on disk for a manual retry with stringupdate.
func (l *Loader) generateAndUpload(ctx context.Context, pass *PassReport, report *Report) error {
	tsv, err := os.Open(pass.OutputPath)
	if err != nil {
		return fmt.Errorf("open output table: %w", err)
	}
	defer tsv.Close()

	cxPath := pass.OutputPath + ".cx"
	out, err := os.Create(cxPath)
	if err != nil {
		return fmt.Errorf("create cx file: %w", err)
	}

	attrs := cx.NetworkAttributes(l.Style,
		l.Profile.NetworkName(pass.Cutoff),
		l.Profile.StringVersion,
		l.Profile.IconURL)

	nodes, edgeCount, err := l.Writer.WriteNetwork(tsv, out, attrs)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write cx %s: %w", cxPath, err)
	}
	pass.CXPath = cxPath
	pass.Nodes = nodes
	pass.Edges = edgeCount
	l.Logger.Info("cx file written",
		logging.File(cxPath), logging.Int("nodes", nodes), logging.Int("edges", edgeCount))

	if l.Layout != nil {
		if err := l.Layout.Apply(ctx, cxPath); err != nil {
			return fmt.Errorf("apply layout: %w", err)
		}
	}

	if l.NDEx == nil {
		return nil
	}
	if err := l.upload(ctx, pass); err != nil {
		report.UploadErrors[config.FormatCutoff(pass.Cutoff)] = err
		l.Logger.Error("upload failed",
			logging.Cutoff(pass.Cutoff), logging.Error(err))
		if l.Metrics != nil {
			l.Metrics.RecordUpload("error")
		}
		return nil
	}
	if l.Metrics != nil {
		l.Metrics.RecordUpload("ok")
	}
	return nil
}

func (l *Loader) upload(ctx context.Context, pass *PassReport) error {
	f, err := os.Open(pass.CXPath)
	if err != nil {
		return fmt.Errorf("open cx file: %w", err)
	}
	defer f.Close()

	if id, ok := l.Profile.NetworkID(pass.Cutoff); ok {
		if err := l.NDEx.UpdateNetwork(ctx, id, f); err != nil {
			return err
		}
		pass.NetworkID = id
		l.Logger.Info("network updated",
			logging.Network(l.Profile.NetworkName(pass.Cutoff)),
			logging.String("network_id", id.String()))
		return nil
	}

	id, err := l.NDEx.CreateNetwork(ctx, f)
	if err != nil {
		return err
	}
	pass.NetworkID = id
	pass.Created = true
	l.Logger.Info("network created",
		logging.Network(l.Profile.NetworkName(pass.Cutoff)),
		logging.String("network_id", id.String()))
	return nil
}

func (l *Loader) recordStage(stage string, rows int, d time.Duration) {
	if l.Metrics != nil {
		l.Metrics.RecordStage(stage, rows, d)
	}
}
