// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/katalvlaran/rollrate/matrix"
)

// ErrLabels is returned when label counts do not match the matrix shape.
var ErrLabels = errors.New("render: labels do not match matrix shape")

// Grid is one matrix to draw.
type Grid struct {
	Title     string
	Matrix    *matrix.Dense
	RowLabels []string
	ColLabels []string
}

// Labels formats integer bucket labels.
func Labels(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}

	return out
}

func (g Grid) validate() error {
	if err := matrix.ValidateNotNil(g.Matrix); err != nil {
		return fmt.Errorf("render: %q: %w", g.Title, err)
	}
	r, c := g.Matrix.Shape()
	if len(g.RowLabels) != r || len(g.ColLabels) != c {
		return fmt.Errorf("render: %q: %d×%d matrix, %d row / %d col labels: %w",
			g.Title, r, c, len(g.RowLabels), len(g.ColLabels), ErrLabels)
	}

	return nil
}
