// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// Defaults for the heatmap.
const (
	DefaultThreshold = 0.5 // percentage points; smaller cells render blank
	DefaultRowAxis   = "current bucket"
	DefaultColAxis   = "next bucket"
	minCellWidth     = 4
)

// Option configures a Heatmap.
type Option func(*Heatmap)

// WithThreshold sets the blanking threshold in percentage points.
func WithThreshold(pp float64) Option {
	return func(r *Heatmap) { r.threshold = pp }
}

// WithProfile selects the termenv colour profile. termenv.Ascii disables colour.
func WithProfile(p termenv.Profile) Option {
	return func(r *Heatmap) { r.profile = p }
}

// WithColor enables shading with the profile detected from the environment.
func WithColor(on bool) Option {
	return func(r *Heatmap) {
		r.profile = termenv.Ascii
		if on {
			r.profile = termenv.EnvColorProfile()
		}
	}
}

// WithAxes overrides the row/column axis captions.
func WithAxes(row, col string) Option {
	return func(r *Heatmap) { r.rowAxis, r.colAxis = row, col }
}

// Heatmap draws Grids. The zero value is not usable; call New.
type Heatmap struct {
	threshold float64
	profile   termenv.Profile
	rowAxis   string
	colAxis   string
}

// New returns a Heatmap with colour disabled unless WithProfile says otherwise.
func New(opts ...Option) *Heatmap {
	r := &Heatmap{
		threshold: DefaultThreshold,
		profile:   termenv.Ascii,
		rowAxis:   DefaultRowAxis,
		colAxis:   DefaultColAxis,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render writes one grid to w:
//
//	Global Transition Matrix (%)
//	current bucket \ next bucket     0    30    60
//	                           0    33    33    33
//	                          30    25    50    25
//	                          60
func (r *Heatmap) Render(w io.Writer, g Grid) error {
	if err := g.validate(); err != nil {
		return err
	}
	out := termenv.NewOutput(w, termenv.WithProfile(r.profile))

	corner := r.rowAxis + ` \ ` + r.colAxis
	head := runewidth.StringWidth(corner)
	for _, l := range g.RowLabels {
		head = max(head, runewidth.StringWidth(l))
	}
	cell := minCellWidth
	for _, l := range g.ColLabels {
		cell = max(cell, runewidth.StringWidth(l)+1)
	}

	var b strings.Builder
	b.WriteString(g.Title)
	b.WriteByte('\n')
	b.WriteString(runewidth.FillRight(corner, head))
	for _, l := range g.ColLabels {
		b.WriteString(runewidth.FillLeft(l, cell+1))
	}
	b.WriteByte('\n')

	rows := g.Matrix.ToRows()
	for i, row := range rows {
		b.WriteString(runewidth.FillLeft(g.RowLabels[i], head))
		for _, p := range row {
			b.WriteByte(' ')
			b.WriteString(r.cell(out, p, cell))
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderAll writes grids separated by blank lines.
func (r *Heatmap) RenderAll(w io.Writer, grids []Grid) error {
	for i, g := range grids {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, g); err != nil {
			return err
		}
	}

	return nil
}

// cell formats probability p as a padded percentage, blank below threshold.
func (r *Heatmap) cell(out *termenv.Output, p float64, width int) string {
	pct := p * 100
	text := strings.Repeat(" ", width)
	if pct >= r.threshold {
		text = runewidth.FillLeft(fmt.Sprintf("%.0f", pct), width)
	}
	if r.profile == termenv.Ascii {
		return text
	}
	style := out.String(text).Background(out.Color(shade(p)))
	if p > 0.5 {
		style = style.Foreground(out.Color("#ffffff"))
	} else {
		style = style.Foreground(out.Color("#000000"))
	}

	return style.String()
}

// shade maps p ∈ [0,1] onto a linear white → navy ramp.
func shade(p float64) string {
	p = math.Max(0, math.Min(1, p))
	lerp := func(a, b float64) int { return int(math.Round(a + (b-a)*p)) }

	return fmt.Sprintf("#%02x%02x%02x", lerp(0xf7, 0x08), lerp(0xfb, 0x30), lerp(0xff, 0x6b))
}
