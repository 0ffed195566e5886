// SPDX-License-Identifier: EPL-2.0

// Package pipeline drives audio files through a frame transform:
//
//	input file -> header + PCM -> frames -> transform -> PCM -> WAV output
//
// The output header is written twice: a placeholder before the first sample
// and the real data size after the last one, so output is streamed instead
// of buffered in memory. Outputs named .raw or .pcm get no header at all,
// and inputs with those extensions are read as headerless PCM.
package pipeline

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/pcmdenoise/audio"
	"github.com/ik5/pcmdenoise/formats/aiff"
	"github.com/ik5/pcmdenoise/formats/raw"
	"github.com/ik5/pcmdenoise/formats/wav"
	"github.com/ik5/pcmdenoise/internal/observe"
	"github.com/ik5/pcmdenoise/session"
	"github.com/ik5/pcmdenoise/transform"
)

var (
	ErrSampleRateMismatch = errors.New("pipeline: sample rate does not match the transform")
	ErrUnsupportedInput   = errors.New("pipeline: unsupported input format")
	ErrSameFile           = errors.New("pipeline: output would overwrite the input")
	ErrDuplicateOutput    = errors.New("pipeline: two jobs write the same output")
)

// SampleRatePolicy decides what happens to an input whose sample rate is not
// the transform's.
type SampleRatePolicy string

const (
	// PolicyWarn logs the mismatch and processes the samples unchanged; the
	// output keeps the input rate.
	PolicyWarn SampleRatePolicy = "warn"
	// PolicyReject fails the run before any output is created.
	PolicyReject SampleRatePolicy = "reject"
	// PolicyResample converts the input to the transform rate first; the
	// output is written at the transform rate.
	PolicyResample SampleRatePolicy = "resample"
)

type Options struct {
	// Policy defaults to PolicyWarn.
	Policy SampleRatePolicy

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics defaults to observe.DefaultMetrics().
	Metrics *observe.Metrics

	// ProgressEvery logs a debug line every that many frames; 0 disables it.
	ProgressEvery int

	// RawSampleRate is the rate assumed for headerless .raw and .pcm inputs.
	// It defaults to the transform's sample rate.
	RawSampleRate int
}

// Result describes one finished run.
type Result struct {
	Input  string
	Output string

	// Format is what was written to the output header, or what the samples
	// are in when RawOutput is set.
	Format    wav.AudioFormat
	RawOutput bool
	InputRate int
	Resampled bool

	// Warnings holds non-fatal conditions, such as a *wav.SampleRateWarning.
	Warnings []error

	Frames  int
	Samples int64
	MeanVAD float64
}

type Driver struct {
	factory  transform.Factory
	opts     Options
	log      *slog.Logger
	metrics  *observe.Metrics
	decoders *audio.Registry
}

func New(f transform.Factory, opts Options) *Driver {
	if opts.Policy == "" {
		opts.Policy = PolicyWarn
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = observe.DefaultMetrics()
	}
	if opts.RawSampleRate == 0 {
		opts.RawSampleRate = f.SampleRate()
	}

	reg := audio.NewRegistry()
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("raw", raw.Decoder{SampleRate: opts.RawSampleRate})
	reg.Register("pcm", raw.Decoder{SampleRate: opts.RawSampleRate})

	return &Driver{
		factory:  f,
		opts:     opts,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		decoders: reg,
	}
}

// Register adds a decoder for inputs with the given extension (without the
// dot). WAV inputs never go through the registry.
func (d *Driver) Register(ext string, dec audio.Decoder) {
	d.decoders.Register(strings.ToLower(ext), dec)
}

// Run processes the file at inPath into a WAV file at outPath, or into
// headerless PCM when outPath ends in .raw or .pcm. The input is fully
// validated before outPath is created, and a run that fails after that
// removes the partial output. outPath must not name the input file. ctx is only consulted before the run
// starts; a started run goes to completion or to its first error.
func (d *Driver) Run(ctx context.Context, inPath, outPath string) (res Result, err error) {
	res = Result{Input: inPath, Output: outPath}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	log := d.log.With("input", inPath, "output", outPath)
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		d.metrics.RecordFile(ctx, status, time.Since(start).Seconds(), res.Frames, res.Samples, res.MeanVAD)
	}()

	in, err := os.Open(inPath)
	if err != nil {
		return res, fmt.Errorf("pipeline: %w", err)
	}
	defer in.Close()

	if err := checkDistinct(in, outPath); err != nil {
		return res, err
	}

	inp, err := d.open(ctx, log, in, inputFormat(inPath))
	if err != nil {
		return res, err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return res, fmt.Errorf("pipeline: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("pipeline: %w", cerr)
		}
		if err != nil {
			if rerr := os.Remove(outPath); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				log.Warn("could not remove partial output", "err", rerr)
			}
		}
	}()

	if err := d.pump(log, inp, out, isRaw(outPath), &res); err != nil {
		return res, err
	}

	log.Info("denoised",
		"frames", res.Frames,
		"samples", res.Samples,
		"mean_vad", res.MeanVAD,
		"duration", time.Since(start),
	)
	return res, nil
}

// Process runs a WAV stream from in into out. It is Run without the file
// handling: nothing is closed or removed on failure.
func (d *Driver) Process(ctx context.Context, in io.ReadSeeker, out io.WriteSeeker) (Result, error) {
	var res Result
	src, err := d.open(ctx, d.log, in, "wav")
	if err != nil {
		return res, err
	}
	err = d.pump(d.log, src, out, false, &res)
	return res, err
}

// Job is one input/output pair for RunBatch.
type Job struct {
	Input  string
	Output string
}

// RunBatch runs jobs with at most workers in flight. Every job gets its own
// transform state. After the first failure no further jobs are started; the
// returned slice holds a Result for every job, in job order. Jobs that share
// an output path are rejected before any of them runs.
func (d *Driver) RunBatch(ctx context.Context, jobs []Job, workers int) ([]Result, error) {
	results := make([]Result, len(jobs))
	if err := checkOutputs(jobs); err != nil {
		return results, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for i, job := range jobs {
		g.Go(func() error {
			res, err := d.Run(ctx, job.Input, job.Output)
			results[i] = res
			if err != nil {
				return fmt.Errorf("%s: %w", job.Input, err)
			}
			return nil
		})
	}

	return results, g.Wait()
}

// input is a validated, positioned sample stream ready for pumping.
type input struct {
	pcm       audio.PCM16Reader
	format    wav.AudioFormat
	inputRate int
	resampled bool
	warnings  []error
}

func (d *Driver) open(ctx context.Context, log *slog.Logger, r io.ReadSeeker, format string) (*input, error) {
	if format == "wav" || format == "wave" {
		hdr, err := wav.ReadHeader(r)
		if err != nil {
			return nil, err
		}
		if _, err := r.Seek(hdr.Location.Offset, io.SeekStart); err != nil {
			return nil, fmt.Errorf("pipeline: seek to data: %w", err)
		}
		pcm := wav.NewPCMReader(r, hdr.Location)
		return d.applyPolicy(ctx, log, pcm, wav.NewSource(pcm, hdr.Format), hdr.Format)
	}

	dec, ok := d.decoders.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedInput, format)
	}
	src, err := dec.Decode(r)
	if err != nil {
		return nil, err
	}
	pcm, err := audio.NewSourceReader(src)
	if err != nil {
		return nil, err
	}
	return d.applyPolicy(ctx, log, pcm, src, wav.Mono16(src.SampleRate()))
}

// applyPolicy picks between pcm as-is and a resampled view of src. Both read
// from the same underlying stream, so only one of them is ever consumed.
func (d *Driver) applyPolicy(ctx context.Context, log *slog.Logger, pcm audio.PCM16Reader, src audio.Source, f wav.AudioFormat) (*input, error) {
	in := &input{pcm: pcm, format: f, inputRate: f.SampleRate}

	want := d.factory.SampleRate()
	warning := f.CheckRate(want)
	if warning == nil {
		return in, nil
	}
	d.metrics.RecordRateMismatch(ctx, string(d.opts.Policy))

	switch d.opts.Policy {
	case PolicyReject:
		return nil, fmt.Errorf("%w: %w", ErrSampleRateMismatch, warning)

	case PolicyResample:
		rs, err := audio.NewResampler(src, want)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		r, err := audio.NewSourceReader(rs)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		log.Info("resampling input", "from_hz", f.SampleRate, "to_hz", want)
		in.pcm = r
		in.format = wav.Mono16(want)
		in.resampled = true

	default:
		log.Warn("sample rate mismatch, processing anyway", "got_hz", f.SampleRate, "want_hz", want)
		in.warnings = append(in.warnings, warning)
	}
	return in, nil
}

// pump streams every frame of in through a fresh session into out and
// finalises the header. Raw output has no header at all.
func (d *Driver) pump(log *slog.Logger, in *input, out io.WriteSeeker, headerless bool, res *Result) error {
	res.Format = in.format
	res.RawOutput = headerless
	res.InputRate = in.inputRate
	res.Resampled = in.resampled
	res.Warnings = in.warnings

	if !headerless {
		if err := wav.WriteHeader(out, in.format, 0); err != nil {
			return fmt.Errorf("pipeline: placeholder header: %w", err)
		}
	}

	sess := session.New(d.factory)
	if err := sess.Init(); err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			log.Warn("releasing transform state", "err", cerr)
		}
	}()

	size := d.factory.FrameSize()
	var (
		pcm    = make([]int16, size)
		frame  = make([]float32, size)
		result = make([]float32, size)
		enc    = make([]int16, size)
		raw    = make([]byte, size*2)
	)
	bw := bufio.NewWriterSize(out, 64*1024)

	var written int64
	for {
		n, rerr := in.pcm.ReadPCM16(pcm)
		if n > 0 {
			valid := audio.DecodeFrame(frame, pcm[:n])
			if _, err := sess.ProcessOne(result, frame); err != nil {
				return err
			}
			samples := audio.EncodeFrame(enc, result, valid)
			for i, s := range samples {
				binary.LittleEndian.PutUint16(raw[2*i:], uint16(s))
			}
			if _, err := bw.Write(raw[:2*len(samples)]); err != nil {
				return fmt.Errorf("pipeline: write samples: %w", err)
			}
			written += int64(len(samples))

			if every := d.opts.ProgressEvery; every > 0 && sess.Result().Frames%every == 0 {
				log.Debug("progress", "frames", sess.Result().Frames)
			}
		}
		if rerr == io.EOF || (rerr == nil && n == 0) {
			break
		}
		if rerr != nil {
			return fmt.Errorf("pipeline: read samples: %w", rerr)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("pipeline: write samples: %w", err)
	}
	if !headerless {
		dataSize, err := wav.DataSize(written)
		if err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		if err := wav.WriteHeader(out, in.format, dataSize); err != nil {
			return fmt.Errorf("pipeline: final header: %w", err)
		}
	}

	stats := sess.Result()
	res.Frames = stats.Frames
	res.Samples = written
	res.MeanVAD = stats.MeanVAD()
	return nil
}

// inputFormat maps a path to a registry key; files without an extension are
// treated as WAV.
func inputFormat(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "wav"
	}
	return ext
}

func isRaw(path string) bool {
	switch inputFormat(path) {
	case "raw", "pcm":
		return true
	}
	return false
}

// checkDistinct fails when outPath already exists and is the open input, so
// creating the output would truncate the samples about to be read.
func checkDistinct(in *os.File, outPath string) error {
	ost, err := os.Stat(outPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	ist, err := in.Stat()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if os.SameFile(ist, ost) {
		return fmt.Errorf("%w: %s", ErrSameFile, outPath)
	}
	return nil
}

// checkOutputs rejects jobs whose outputs resolve to the same path, and jobs
// that would write into another job's input.
func checkOutputs(jobs []Job) error {
	owner := make(map[string]string, len(jobs))
	inputs := make(map[string]string, len(jobs))
	for _, job := range jobs {
		inputs[cleanPath(job.Input)] = job.Input
	}
	for _, job := range jobs {
		out := cleanPath(job.Output)
		if prev, ok := owner[out]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrDuplicateOutput, prev, job.Input, job.Output)
		}
		owner[out] = job.Input
		if in, ok := inputs[out]; ok {
			return fmt.Errorf("%w: %s", ErrSameFile, in)
		}
	}
	return nil
}

func cleanPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
