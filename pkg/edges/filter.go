// Package edges streams the STRING links file through a score filter and an
// unordered-pair deduplicator, emitting the 20-column network table consumed
// by the CX writer.
package edges

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-stringload/pkg/identifiers"
	"github.com/dd0wney/cluso-stringload/pkg/logging"
)

// OutputColumns is the fixed schema of the emitted table: the resolved triple
// for each endpoint followed by the fourteen original STRING sub-score columns.
var OutputColumns = []string{
	"name1",
	"represents1",
	"alias1",
	"name2",
	"represents2",
	"alias2",
	"neighborhood",
	"neighborhood_transferred",
	"fusion",
	"cooccurence",
	"homology",
	"coexpression",
	"coexpression_transferred",
	"experiments",
	"experiments_transferred",
	"database",
	"database_transferred",
	"textmining",
	"textmining_transferred",
	"combined_score",
}

// pairKey is one direction of an unordered edge pair. Both directions are
// checked against the dedupe map; exactly one is stored per accepted edge.
type pairKey struct {
	a, b string
}

// Options configures a single filter pass.
type Options struct {
	LinksPath  string  // whitespace-delimited links file with header
	OutputPath string  // destination for the tab-separated table
	Cutoff     float64 // user-facing confidence cutoff in [0,1]
}

// Result summarizes one completed filter pass.
type Result struct {
	Threshold  int // cutoff on STRING's 0-1000 scale
	Scanned    int // data rows read
	Accepted   int // rows written to the output table
	Duplicates int // equal-score duplicate rows dropped
}

// Threshold converts a [0,1] cutoff to STRING's 0-1000 integer scale using
// truncation, not rounding: 0.7 -> 700, and so does 0.7005.
func Threshold(cutoff float64) int {
	return int(cutoff * 1000)
}

// RunPass streams the links file once, drops rows under the cutoff, rejects
// equal-score duplicate pairs, and writes one output row per accepted edge,
// resolving both endpoints through the catalog. A duplicate pair with a
// different score aborts the pass with ErrDuplicateEdgeConflict.
//
// The dedupe map lives and dies with the pass: every call starts from an empty
// map, so independent cutoffs never contaminate each other.
func RunPass(opts Options, catalog *identifiers.Catalog, logger logging.Logger) (Result, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	result := Result{Threshold: Threshold(opts.Cutoff)}

	in, err := os.Open(opts.LinksPath)
	if err != nil {
		return result, fmt.Errorf("open links file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(opts.OutputPath)
	if err != nil {
		return result, fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if _, err := w.WriteString(strings.Join(OutputColumns, "\t") + "\n"); err != nil {
		return result, fmt.Errorf("write header: %w", err)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	seen := make(map[pairKey]int)

	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue // header
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		result.Scanned++

		scoreText := fields[len(fields)-1]
		score, err := strconv.Atoi(scoreText)
		if err != nil {
			return result, &ScoreParseError{File: opts.LinksPath, Line: line, Value: scoreText, Cause: err}
		}
		if score < result.Threshold {
			continue
		}

		p1, p2 := fields[0], fields[1]
		duplicate, err := observePair(seen, p1, p2, score, line)
		if err != nil {
			return result, err
		}
		if duplicate {
			result.Duplicates++
			continue
		}

		r1 := catalog.Resolve(p1)
		r2 := catalog.Resolve(p2)

		row := r1.Name + "\t" + r1.Represents + "\t" + r1.Alias + "\t" +
			r2.Name + "\t" + r2.Represents + "\t" + r2.Alias + "\t" +
			strings.Join(fields[2:], "\t") + "\n"
		if _, err := w.WriteString(row); err != nil {
			return result, fmt.Errorf("write row: %w", err)
		}
		result.Accepted++
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("scan %s: %w", opts.LinksPath, err)
	}

	if err := w.Flush(); err != nil {
		return result, fmt.Errorf("flush output: %w", err)
	}

	logger.Debug("filter pass complete",
		logging.File(opts.OutputPath),
		logging.Cutoff(opts.Cutoff),
		logging.Rows(result.Accepted),
		logging.Duplicates(result.Duplicates))

	return result, nil
}

// observePair checks both directions of the pair against the dedupe map.
// Unseen pairs are recorded in file order and accepted. A pair already present
// with the same score is a duplicate; with a different score it is fatal.
func observePair(seen map[pairKey]int, p1, p2 string, score, line int) (duplicate bool, err error) {
	if existing, ok := seen[pairKey{p1, p2}]; ok {
		if existing != score {
			return false, &DuplicateScoreError{Protein1: p1, Protein2: p2, Existing: existing, Candidate: score, Line: line}
		}
		return true, nil
	}
	if existing, ok := seen[pairKey{p2, p1}]; ok {
		if existing != score {
			return false, &DuplicateScoreError{Protein1: p1, Protein2: p2, Existing: existing, Candidate: score, Line: line}
		}
		return true, nil
	}
	seen[pairKey{p1, p2}] = score
	return false, nil
}
