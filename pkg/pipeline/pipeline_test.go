package pipeline

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-stringload/pkg/config"
	"github.com/dd0wney/cluso-stringload/pkg/cx"
	"github.com/dd0wney/cluso-stringload/pkg/ledger"
)

const linksFixture = `protein1 protein2 homology combined_score
9606.ENSP00000000233 9606.ENSP00000272298 0 490
9606.ENSP00000000233 9606.ENSP00000253401 0 800
9606.ENSP00000253401 9606.ENSP00000000233 0 800
9606.ENSP00000300000 9606.ENSP00000000233 0 900
`

const namesFixture = `# taxon display_name string_id
9606	ARF5	9606.ENSP00000000233
`

const entrezFixture = `# taxon entrez string_id
9606	381	9606.ENSP00000000233
`

// No header line: the first row is data.
const uniprotFixture = `9606	P84085|ARF5_HUMAN	9606.ENSP00000000233	100	100
`

func writeFixtures(t *testing.T) (datadir string, p *config.Profile) {
	t.Helper()
	datadir = t.TempDir()
	files := map[string]string{
		"links.txt":   linksFixture,
		"names.txt":   namesFixture,
		"entrez.txt":  entrezFixture,
		"uniprot.txt": uniprotFixture,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(datadir, name), []byte(content), 0o644))
	}

	p = &config.Profile{
		Files: config.Files{
			Links:   "links.txt",
			Names:   "names.txt",
			Entrez:  "entrez.txt",
			Uniprot: "uniprot.txt",
			Output:  "network.tsv",
		},
		CutoffScores:  []float64{0.7},
		StringVersion: "12.0",
		IconURL:       config.DefaultIconURL,
	}
	return datadir, p
}

// lineCountWriter stands in for the CX writer: it copies the table and reports
// one node per distinct name and one edge per data row.
type lineCountWriter struct {
	attrs []cx.NetworkAttribute
}

func (w *lineCountWriter) WriteNetwork(tsv io.Reader, out io.Writer, attrs []cx.NetworkAttribute) (int, int, error) {
	w.attrs = attrs
	names := map[string]bool{}
	edges := 0
	scanner := bufio.NewScanner(tsv)
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue
		}
		fields := splitTab(scanner.Text())
		if len(fields) < 6 {
			continue
		}
		names[fields[0]] = true
		names[fields[3]] = true
		edges++
	}
	if _, err := io.WriteString(out, "[]"); err != nil {
		return 0, 0, err
	}
	return len(names), edges, scanner.Err()
}

func splitTab(s string) []string {
	var fields []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\t' {
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}
	return append(fields, s[start:])
}

type fakeNetworkService struct {
	created  int
	updated  []uuid.UUID
	createID uuid.UUID
	err      error
}

func (f *fakeNetworkService) CreateNetwork(ctx context.Context, cx io.Reader) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	f.created++
	return f.createID, nil
}

func (f *fakeNetworkService) UpdateNetwork(ctx context.Context, id uuid.UUID, cx io.Reader) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, id)
	return nil
}

func TestRunFilterOnly(t *testing.T) {
	datadir, profile := writeFixtures(t)

	loader := &Loader{Profile: profile, DataDir: datadir, SkipDownload: true}
	report, err := loader.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Identifiers)
	require.Len(t, report.Passes, 1)

	pass := report.Passes[0]
	assert.Equal(t, 700, pass.Result.Threshold)
	assert.Equal(t, 4, pass.Result.Scanned)
	assert.Equal(t, 2, pass.Result.Accepted)
	assert.Equal(t, 1, pass.Result.Duplicates)

	data, err := os.ReadFile(pass.OutputPath)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "ARF5\tuniprot:P84085\tncbigene:381|ensembl:ENSP00000000233")
	assert.NotContains(t, out, "490")
}

func TestRunCreatesNetworks(t *testing.T) {
	datadir, profile := writeFixtures(t)

	service := &fakeNetworkService{createID: uuid.New()}
	writer := &lineCountWriter{}
	loader := &Loader{
		Profile:      profile,
		DataDir:      datadir,
		SkipDownload: true,
		Writer:       writer,
		Style:        &cx.StyleTemplate{},
		NDEx:         service,
	}

	report, err := loader.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Passes, 1)
	assert.Empty(t, report.UploadErrors)

	pass := report.Passes[0]
	assert.True(t, pass.Created)
	assert.Equal(t, service.createID, pass.NetworkID)
	assert.Equal(t, 1, service.created)
	assert.Equal(t, 3, pass.Nodes)
	assert.Equal(t, 2, pass.Edges)
	assert.FileExists(t, pass.CXPath)

	var name string
	for _, a := range writer.attrs {
		if a.Name == "name" {
			name, _ = a.Value.(string)
		}
	}
	assert.Equal(t, "STRING - Human Protein Links - High Confidence (Score > 0.7)", name)
}

func TestRunUpdatesConfiguredNetwork(t *testing.T) {
	datadir, profile := writeFixtures(t)
	existing := uuid.New()
	profile.Networks = map[string]string{"0.7": existing.String()}

	service := &fakeNetworkService{}
	loader := &Loader{
		Profile:      profile,
		DataDir:      datadir,
		SkipDownload: true,
		Writer:       &lineCountWriter{},
		Style:        &cx.StyleTemplate{},
		NDEx:         service,
	}

	report, err := loader.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Passes, 1)
	assert.False(t, report.Passes[0].Created)
	assert.Equal(t, []uuid.UUID{existing}, service.updated)
	assert.Zero(t, service.created)
}

func TestRunUploadFailureDoesNotAbort(t *testing.T) {
	datadir, profile := writeFixtures(t)
	profile.CutoffScores = []float64{0.4, 0.7}

	service := &fakeNetworkService{err: errors.New("server unavailable")}
	loader := &Loader{
		Profile:      profile,
		DataDir:      datadir,
		SkipDownload: true,
		Writer:       &lineCountWriter{},
		Style:        &cx.StyleTemplate{},
		NDEx:         service,
	}

	report, err := loader.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Passes, 2)
	assert.Len(t, report.UploadErrors, 2)
	assert.Error(t, report.UploadErrors["0.7"])

	// Both tables and CX files survive for a manual retry
	for _, pass := range report.Passes {
		assert.FileExists(t, pass.OutputPath)
		assert.FileExists(t, pass.CXPath)
		assert.Equal(t, uuid.Nil, pass.NetworkID)
	}
}

func TestRunMultipleCutoffs(t *testing.T) {
	datadir, profile := writeFixtures(t)
	profile.CutoffScores = []float64{0.7, 0.85}

	loader := &Loader{Profile: profile, DataDir: datadir, SkipDownload: true}
	report, err := loader.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Passes, 2)

	assert.Equal(t, 2, report.Passes[0].Result.Accepted)
	assert.Equal(t, 1, report.Passes[1].Result.Accepted) // only the 900 edge
	assert.NotEqual(t, report.Passes[0].OutputPath, report.Passes[1].OutputPath)
}

func TestRunRecordsLedgerAndArchive(t *testing.T) {
	datadir, profile := writeFixtures(t)

	runLedger, err := ledger.Open(filepath.Join(datadir, "runs.db"))
	require.NoError(t, err)
	defer runLedger.Close()

	loader := &Loader{
		Profile:      profile,
		DataDir:      datadir,
		SkipDownload: true,
		Ledger:       runLedger,
	}
	report, err := loader.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Passes, 1)

	runs, err := runLedger.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 0.7, runs[0].Cutoff)
	assert.Equal(t, 2, runs[0].Accepted)
	assert.Equal(t, "12.0", runs[0].StringVersion)
	assert.Empty(t, runs[0].NetworkID)
}
