// Package report exports the curves and exclusions of an analysis as
// tab-separated tables.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-qeeg/analysis"
	"github.com/cwbudde/algo-qeeg/measure/summary"
)

// File name suffixes used by WriteDir.
const (
	SuffixSummary   = "_summary.tsv"
	SuffixSpectra   = "_spectra.tsv"
	SuffixCoherence = "_coherence.tsv"
	SuffixExcluded  = "_excluded.tsv"
)

type row struct {
	name   string
	values []float64
}

// WriteSpectra writes one row per channel and per network with the log
// power at every frequency. Channels without a spectrum have NA cells.
func WriteSpectra(w io.Writer, res *analysis.Result) error {
	rows := make([]row, 0, len(res.Spectra)+len(res.NetworkSpectra))
	for _, ch := range res.Spectra {
		rows = append(rows, row{ch.Name, ch.Spectrum.Power})
	}
	for _, c := range res.NetworkSpectra {
		rows = append(rows, row{c.Name, c.Values})
	}
	return writeCurves(w, res.Subject, "Channel", res.Freq, rows)
}

// WriteCoherence writes one row per connection and per network connection
// with the coherence at every frequency above 0 Hz.
func WriteCoherence(w io.Writer, res *analysis.Result) error {
	rows := make([]row, 0, len(res.Coherence)+len(res.NetworkCoherence))
	for _, pr := range res.Coherence {
		rows = append(rows, row{pr.Name(), pr.Coherence.Values})
	}
	for _, c := range res.NetworkCoherence {
		rows = append(rows, row{c.Name, c.Values})
	}
	return writeCurves(w, res.Subject, "Connection", res.CoherenceFreq, rows)
}

// WriteExcluded writes one row per exclusion record.
func WriteExcluded(w io.Writer, res *analysis.Result) error {
	cw := newWriter(w)
	_ = cw.Write([]string{"Subject", "Session", "Channel", "Reason", "ExcludedFrom"})
	for _, e := range res.Exclusions {
		_ = cw.Write([]string{res.Subject, res.Session, e.Channel, e.Message, e.Reason.ExcludedFrom()})
	}
	return flush(cw)
}

func writeCurves(w io.Writer, subject, label string, freq []float64, rows []row) error {
	cw := newWriter(w)

	header := make([]string, 0, len(freq)+2)
	header = append(header, "Subject", label)
	for _, f := range freq {
		header = append(header, summary.FormatFloat(f)+"Hz")
	}
	_ = cw.Write(header)

	record := make([]string, len(header))
	for _, r := range rows {
		record[0], record[1] = subject, r.name
		for i := range freq {
			if i < len(r.values) {
				record[i+2] = summary.FormatFloat(r.values[i])
			} else {
				record[i+2] = summary.TokenMissing
			}
		}
		_ = cw.Write(record)
	}
	return flush(cw)
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return cw
}

// flush reports the first error of any earlier Write as well.
func flush(cw *csv.Writer) error {
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}

// Files lists the paths written by WriteDir.
type Files struct {
	Summary   string
	Spectra   string
	Coherence string
	Excluded  string
}

// WriteDir writes the summary and the three tables into dir, named after
// prefix. The directory is created if needed.
func WriteDir(dir, prefix string, res *analysis.Result) (Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("report: %w", err)
	}

	files := Files{
		Summary:   filepath.Join(dir, prefix+SuffixSummary),
		Spectra:   filepath.Join(dir, prefix+SuffixSpectra),
		Coherence: filepath.Join(dir, prefix+SuffixCoherence),
		Excluded:  filepath.Join(dir, prefix+SuffixExcluded),
	}

	if res.Summary != nil {
		if err := res.Summary.WriteFile(files.Summary); err != nil {
			return files, err
		}
	}
	for _, t := range []struct {
		path  string
		write func(io.Writer, *analysis.Result) error
	}{
		{files.Spectra, WriteSpectra},
		{files.Coherence, WriteCoherence},
		{files.Excluded, WriteExcluded},
	} {
		if err := writeFile(t.path, res, t.write); err != nil {
			return files, err
		}
	}
	return files, nil
}

func writeFile(path string, res *analysis.Result, write func(io.Writer, *analysis.Result) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := write(f, res); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
