// SPDX-License-Identifier: EPL-2.0

package pcmdenoise

import (
	"context"
	"fmt"

	"github.com/ik5/pcmdenoise/pipeline"
	"github.com/ik5/pcmdenoise/session"
	"github.com/ik5/pcmdenoise/transform"
)

// DenoiseFile streams inPath through a fresh state of f into a WAV file at
// outPath. Inputs whose sample rate differs from f's are processed anyway;
// the mismatch is reported in Result.Warnings. Use pipeline.New directly
// for the other sample rate policies.
func DenoiseFile(ctx context.Context, inPath, outPath string, f transform.Factory) (pipeline.Result, error) {
	return pipeline.New(f, pipeline.Options{}).Run(ctx, inPath, outPath)
}

// DenoiseFrames processes frameCount consecutive frames of in into out with
// a one-shot state and returns the mean per-frame statistic. The state does
// not outlive the call, so history is not carried between calls.
func DenoiseFrames(out, in []float32, frameCount int, f transform.Factory) (vad float32, err error) {
	s := session.New(f)
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("pcmdenoise: %w", cerr)
		}
	}()
	return s.ProcessInterleaved(out, in, frameCount)
}
