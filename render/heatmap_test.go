// SPDX-License-Identifier: MIT

package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rollrate/matrix"
	"github.com/katalvlaran/rollrate/render"
)

func grid(t *testing.T, rows [][]float64, labels []int) render.Grid {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return render.Grid{
		Title:     "Transition Matrix – global (%)",
		Matrix:    m,
		RowLabels: render.Labels(labels),
		ColLabels: render.Labels(labels),
	}
}

func TestRenderPlain(t *testing.T) {
	g := grid(t, [][]float64{
		{1.0 / 3, 1.0 / 3, 1.0 / 3},
		{0.25, 0.5, 0.25},
		{0, 0, 0},
	}, []int{0, 30, 60})

	var buf bytes.Buffer
	require.NoError(t, render.New().Render(&buf, g))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Transition Matrix – global (%)", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `current bucket \ next bucket`))
	assert.Equal(t, []string{"0", "30", "60"}, strings.Fields(strings.TrimPrefix(lines[1], `current bucket \ next bucket`)))
	assert.Equal(t, []string{"0", "33", "33", "33"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"30", "25", "50", "25"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"60"}, strings.Fields(lines[4]))
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestRenderColumnsAlign(t *testing.T) {
	g := grid(t, [][]float64{{0.5, 0.5}, {0.1, 0.9}}, []int{0, 120})

	var buf bytes.Buffer
	require.NoError(t, render.New().Render(&buf, g))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	width := len(lines[1])
	for _, l := range lines[2:] {
		assert.Len(t, l, width)
	}
}

func TestRenderThreshold(t *testing.T) {
	g := grid(t, [][]float64{{0.996, 0.004}, {0.2, 0.8}}, []int{0, 30})

	var buf bytes.Buffer
	require.NoError(t, render.New().Render(&buf, g))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{"0", "100"}, strings.Fields(lines[2]), "0.4pp is blank")

	buf.Reset()
	require.NoError(t, render.New(render.WithThreshold(0)).Render(&buf, g))
	lines = strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{"0", "100", "0"}, strings.Fields(lines[2]))
}

func TestRenderColor(t *testing.T) {
	g := grid(t, [][]float64{{1, 0}, {0.5, 0.5}}, []int{0, 30})

	var buf bytes.Buffer
	require.NoError(t, render.New(render.WithProfile(termenv.TrueColor)).Render(&buf, g))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestRenderAxes(t *testing.T) {
	g := grid(t, [][]float64{{1}}, []int{0})

	var buf bytes.Buffer
	require.NoError(t, render.New(render.WithAxes("from", "to")).Render(&buf, g))
	assert.Contains(t, buf.String(), `from \ to`)
}

func TestRenderEmptyMatrix(t *testing.T) {
	g := grid(t, nil, nil)

	var buf bytes.Buffer
	require.NoError(t, render.New().Render(&buf, g))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestRenderLabelMismatch(t *testing.T) {
	g := grid(t, [][]float64{{1, 0}, {0, 1}}, []int{0, 30})
	g.ColLabels = g.ColLabels[:1]

	err := render.New().Render(&bytes.Buffer{}, g)
	require.ErrorIs(t, err, render.ErrLabels)

	err = render.New().Render(&bytes.Buffer{}, render.Grid{Title: "nil"})
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestRenderAll(t *testing.T) {
	a := grid(t, [][]float64{{1}}, []int{0})
	b := a
	b.Title = "second"

	var buf bytes.Buffer
	require.NoError(t, render.New().RenderAll(&buf, []render.Grid{a, b}))
	assert.Contains(t, buf.String(), "\n\nsecond\n")
}

func TestWithColorOff(t *testing.T) {
	g := grid(t, [][]float64{{1, 0}, {0.5, 0.5}}, []int{0, 30})

	var buf bytes.Buffer
	require.NoError(t, render.New(render.WithProfile(termenv.TrueColor), render.WithColor(false)).Render(&buf, g))
	assert.NotContains(t, buf.String(), "\x1b[")
}
