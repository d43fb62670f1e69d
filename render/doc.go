// SPDX-License-Identifier: MIT

// Package render draws transition matrices as labeled terminal heatmaps.
//
// A Grid is the hand-off format: a matrix, its row and column labels and a
// title. Cells are printed as whole percentages; cells below the display
// threshold (0.5 percentage points by default) are left blank so structural
// zeros do not clutter the grid. With colour enabled each cell is shaded on a
// white-to-navy ramp via termenv; widths are measured with go-runewidth so
// titles and labels with wide characters stay aligned.
package render
