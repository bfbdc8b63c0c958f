// stringload runs the STRING load pipeline: download the source files, build
// the identifier table, and emit one filtered network table per cutoff score.
// Generated tables are handed to the CX tooling and uploaded separately with
// stringupdate.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-stringload/pkg/archive"
	"github.com/dd0wney/cluso-stringload/pkg/config"
	"github.com/dd0wney/cluso-stringload/pkg/ledger"
	"github.com/dd0wney/cluso-stringload/pkg/logging"
	"github.com/dd0wney/cluso-stringload/pkg/metrics"
	"github.com/dd0wney/cluso-stringload/pkg/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))
)

func main() {
	var (
		confPath      = flag.String("conf", "stringload.yaml", "configuration file")
		profileName   = flag.String("profile", "string_human", "configuration profile to load")
		datadir       = flag.String("datadir", "string_data", "working directory for source and output files")
		cutoffScore   = flag.Float64("cutoffscore", 0, "override the configured cutoff scores with a single value")
		skipDownload  = flag.Bool("skipdownload", false, "reuse already-downloaded files in the data directory")
		stringVersion = flag.String("stringversion", "", "override the STRING release version")
		verbose       = flag.Bool("verbose", false, "enable debug logging")
		metricsAddr   = flag.String("metrics", "", "expose Prometheus metrics on this address (e.g. :9090)")
	)
	flag.Parse()

	logger := logging.NewDefaultLogger()
	if *verbose {
		logger.SetLevel(logging.DebugLevel)
	}

	if err := run(logger, *confPath, *profileName, *datadir, *cutoffScore, *stringVersion, *skipDownload, *metricsAddr); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("load failed: "+err.Error()))
		os.Exit(2)
	}
}

func run(logger logging.Logger, confPath, profileName, datadir string, cutoffScore float64, stringVersion string, skipDownload bool, metricsAddr string) error {
	profile, err := config.Load(confPath, profileName)
	if err != nil {
		return err
	}
	if cutoffScore > 0 {
		profile.CutoffScores = []float64{cutoffScore}
	}
	if stringVersion != "" {
		profile.StringVersion = stringVersion
	}

	registry := metrics.DefaultRegistry()
	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Warn("metrics listener stopped", logging.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := &pipeline.Loader{
		Profile:      profile,
		DataDir:      datadir,
		SkipDownload: skipDownload,
		Logger:       logger,
		Metrics:      registry,
	}

	if profile.LedgerPath != "" {
		runLedger, err := ledger.Open(profile.LedgerPath)
		if err != nil {
			return err
		}
		defer runLedger.Close()
		loader.Ledger = runLedger
	}

	if profile.Archive.Enabled {
		uploader, err := archive.NewS3Uploader(ctx, profile.Archive.Bucket, profile.Archive.Region)
		if err != nil {
			return err
		}
		loader.Archiver = archive.NewArchiver(uploader, profile.Archive.Prefix, logger)
	}

	report, err := loader.Run(ctx)
	if err != nil {
		return err
	}

	printReport(profile, report)
	return nil
}

func printReport(profile *config.Profile, report *pipeline.Report) {
	fmt.Println(titleStyle.Render("STRING load complete"))
	row("identifiers", fmt.Sprintf("%d", report.Identifiers))
	row("name conflicts", fmt.Sprintf("%d", report.NameConflicts))
	row("uniprot conflicts", fmt.Sprintf("%d", report.RepresentsConflicts))
	for _, pass := range report.Passes {
		fmt.Println(titleStyle.Render("cutoff " + config.FormatCutoff(pass.Cutoff)))
		row("threshold", fmt.Sprintf("%d", pass.Result.Threshold))
		row("rows scanned", fmt.Sprintf("%d", pass.Result.Scanned))
		row("edges accepted", fmt.Sprintf("%d", pass.Result.Accepted))
		row("duplicates dropped", fmt.Sprintf("%d", pass.Result.Duplicates))
		row("output", pass.OutputPath)
	}
}

func row(label, value string) {
	fmt.Println(labelStyle.Render(label) + valueStyle.Render(value))
}
