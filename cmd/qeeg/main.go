// Command qeeg computes quantitative EEG metrics for EDF recordings.
//
// Usage:
//
//	qeeg [flags] recording.edf [recording.edf ...]
//
// For every recording it writes a summary table together with spectra,
// coherence and exclusion tables into the output directory.
//
// Examples:
//
//	qeeg -config qeeg.toml S01.edf
//	qeeg -out results -session rest S01.edf S02.edf
//	QEEG_BAND_METHOD=FBFW qeeg S01.edf
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/cwbudde/algo-qeeg/analysis"
	"github.com/cwbudde/algo-qeeg/internal/config"
	"github.com/cwbudde/algo-qeeg/recording"
	"github.com/cwbudde/algo-qeeg/report"
	"github.com/sirupsen/logrus"
)

type options struct {
	config  string
	out     string
	subject string
	session string
	version string
}

func main() {
	var opts options
	flag.StringVar(&opts.config, "config", "", "configuration file (TOML or YAML); default searches ./config and . for qeeg.*")
	flag.StringVar(&opts.out, "out", "", "output directory; overrides output_dir")
	flag.StringVar(&opts.subject, "subject", "", "subject name; overrides the EDF patient field")
	flag.StringVar(&opts.session, "session", "", "session name; overrides the EDF recording field")
	flag.StringVar(&opts.version, "version", "", "headset version; overrides the EDF recording field")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: qeeg [flags] recording.edf [recording.edf ...]\n\n")
		fmt.Fprintf(os.Stderr, "Computes spectra, coherence and summary metrics of EEG recordings.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(opts.config)
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, _ := cfg.Level()
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, flag.Args(), logger); err != nil {
		stop()
		logger.Fatalf("qeeg: %v", err)
	}
}

// run analyses every file in turn. A file that fails is logged and skipped;
// the returned error reports how many failed.
func run(ctx context.Context, cfg *config.Config, opts options, files []string, logger *logrus.Logger) error {
	out := cfg.OutputDir
	if opts.out != "" {
		out = opts.out
	}

	analysisOpts, err := cfg.AnalysisOptions(logger)
	if err != nil {
		return err
	}
	acfg := analysis.ApplyOptions(analysisOpts...)

	failed := 0
	for _, path := range files {
		log := logger.WithField("file", path)

		written, err := process(ctx, cfg, acfg, opts, path, out)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.WithError(err).Error("analysis failed")
			failed++
			continue
		}
		log.WithField("summary", written.Summary).Info("analysis written")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d recordings failed", failed, len(files))
	}
	return nil
}

func process(ctx context.Context, cfg *config.Config, acfg analysis.Config, opts options, path, out string) (report.Files, error) {
	loader := &recording.EDFLoader{
		Path:    path,
		Layout:  cfg.Layout,
		Subject: opts.subject,
		Session: opts.session,
		Version: opts.version,
	}
	rec, err := loader.Load(ctx)
	if err != nil {
		return report.Files{}, err
	}

	res, err := analysis.Run(ctx, rec, cfg.Montage, acfg)
	if err != nil {
		return report.Files{}, err
	}

	return report.WriteDir(out, outputPrefix(rec, path), res)
}

// outputPrefix names the output files after subject and session, falling
// back to the input file name.
func outputPrefix(rec *recording.Recording, path string) string {
	var parts []string
	for _, p := range []string{rec.Subject, rec.Session} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, strings.ReplaceAll(p, " ", "_"))
		}
	}
	if len(parts) == 0 {
		return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return strings.Join(parts, "_")
}
