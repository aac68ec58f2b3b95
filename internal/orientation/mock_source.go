// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package orientation

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
}

// NewMockSource creates a mock acceleration source that generates a
// smoothly rocking device: gravity mostly on Z with slow sway on X and Y.
func NewMockSource() Source {
	return &mockSource{start: time.Now()}
}

func (m *mockSource) Next() (Sample, error) {
	elapsed := time.Since(m.start).Seconds()

	return Sample{
		Ax: 3.0 * math.Sin(elapsed*0.6),
		Ay: 2.0 * math.Cos(elapsed*0.4),
		Az: 9.8,
	}, nil
}
