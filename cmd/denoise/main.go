// SPDX-License-Identifier: EPL-2.0

// Command denoise runs 16-bit mono WAV, AIFF or headerless PCM files
// through a frame transform and writes the result as WAV. Outputs named
// .raw or .pcm are written without a header.
//
//	denoise [flags] <input> <output>
//	denoise [flags] -out-dir DIR <input>...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ik5/pcmdenoise/internal/config"
	"github.com/ik5/pcmdenoise/internal/observe"
	"github.com/ik5/pcmdenoise/pipeline"
	"github.com/ik5/pcmdenoise/transform"
	"github.com/ik5/pcmdenoise/transform/passthrough"
	"github.com/ik5/pcmdenoise/transform/rnnoise"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

type options struct {
	configPath string
	transform  string
	policy     string
	workers    int
	logLevel   string
	logFormat  string
	outDir     string
	rawRate    int
	stats      bool
	args       []string
	set        map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("denoise", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.configPath, "config", "", "path to a YAML configuration file")
	fs.StringVar(&o.transform, "transform", "", "frame transform: "+strings.Join(config.ValidTransforms, ", "))
	fs.StringVar(&o.policy, "policy", "", "sample rate policy: "+strings.Join(config.ValidPolicies, ", "))
	fs.IntVar(&o.workers, "workers", 0, "files processed in parallel with -out-dir")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: "+strings.Join(config.ValidLogLevels, ", "))
	fs.StringVar(&o.logFormat, "log-format", "", "log format: "+strings.Join(config.ValidLogFormats, ", "))
	fs.StringVar(&o.outDir, "out-dir", "", "write <input>.wav files into this directory")
	fs.IntVar(&o.rawRate, "raw-rate", 0, "sample rate of .raw and .pcm inputs (default: the transform rate)")
	fs.BoolVar(&o.stats, "stats", false, "log a summary of all runs at exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: denoise [flags] <input> <output>")
		fmt.Fprintln(stderr, "       denoise [flags] -out-dir DIR <input>...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	o.args = fs.Args()
	o.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	switch {
	case o.outDir == "" && len(o.args) != 2:
		fs.Usage()
		return nil, errors.New("need exactly one input and one output")
	case o.outDir != "" && len(o.args) == 0:
		fs.Usage()
		return nil, errors.New("need at least one input")
	}
	return &o, nil
}

// loadConfig reads the config file, if any, and applies flag overrides on
// top of it.
func loadConfig(o *options) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}

	if o.set["transform"] {
		cfg.Transform = o.transform
	}
	if o.set["policy"] {
		cfg.SampleRatePolicy = o.policy
	}
	if o.set["workers"] {
		cfg.Workers = o.workers
	}
	if o.set["raw-rate"] {
		cfg.RawSampleRate = o.rawRate
	}
	if o.set["log-level"] {
		cfg.Logging.Level = o.logLevel
	}
	if o.set["log-format"] {
		cfg.Logging.Format = o.logFormat
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch cfg.Level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newFactory(cfg *config.Config) (transform.Factory, error) {
	if cfg.Transform == "rnnoise" {
		f, err := rnnoise.New()
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	f, err := passthrough.New(cfg.FrameSize, cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// jobs pairs every input with its output path.
func jobs(o *options) []pipeline.Job {
	if o.outDir == "" {
		return []pipeline.Job{{Input: o.args[0], Output: o.args[1]}}
	}
	out := make([]pipeline.Job, 0, len(o.args))
	for _, in := range o.args {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out = append(out, pipeline.Job{Input: in, Output: filepath.Join(o.outDir, base+".wav")})
	}
	return out
}

func run(args []string, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "denoise: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(stderr, "denoise: %v\n", err)
		return exitUsage
	}

	logger := newLogger(cfg.Logging, stderr)
	slog.SetDefault(logger)

	var stats *observe.Stats
	if o.stats {
		stats = observe.NewStats()
		stats.Install()
	}

	factory, err := newFactory(cfg)
	if err != nil {
		logger.Error("failed to build transform", "transform", cfg.Transform, "err", err)
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver := pipeline.New(factory, pipeline.Options{
		Policy:        pipeline.SampleRatePolicy(cfg.SampleRatePolicy),
		Logger:        logger,
		ProgressEvery: cfg.ProgressEvery,
		RawSampleRate: cfg.RawSampleRate,
	})

	if o.outDir != "" {
		if err := os.MkdirAll(o.outDir, 0o755); err != nil {
			logger.Error("failed to create output directory", "dir", o.outDir, "err", err)
			return exitError
		}
	}

	logger.Debug("starting",
		"transform", cfg.Transform,
		"frame_size", factory.FrameSize(),
		"sample_rate", factory.SampleRate(),
		"policy", cfg.SampleRatePolicy,
		"workers", cfg.Workers,
	)

	_, runErr := driver.RunBatch(ctx, jobs(o), cfg.Workers)

	if stats != nil {
		if t, err := stats.Totals(context.Background()); err == nil {
			logger.Info("summary",
				"files", t.Files,
				"failed", t.Failed,
				"frames", t.Frames,
				"samples", t.Samples,
				"rate_mismatches", t.Mismatches,
			)
		}
		_ = stats.Shutdown(context.Background())
	}

	if runErr != nil {
		logger.Error("denoise failed", "err", runErr)
		return exitError
	}
	return exitOK
}
