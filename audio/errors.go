// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrNotMono     = errors.New("source must be mono")
	ErrInvalidRate = errors.New("sample rate must be positive")
)
