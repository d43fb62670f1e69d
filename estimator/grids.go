// SPDX-License-Identifier: MIT

package estimator

import (
	"fmt"

	"github.com/katalvlaran/rollrate/render"
)

// Mode selects which modalities Grids returns.
type Mode string

const (
	ModeGlobal Mode = "global"
	ModeGroup  Mode = "group"
	ModeStage  Mode = "stage"
)

// ParseMode accepts "global", "group"/"groups" and "stage"/"stages".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "global":
		return ModeGlobal, nil
	case "group", "groups":
		return ModeGroup, nil
	case "stage", "stages":
		return ModeStage, nil
	}

	return "", fmt.Errorf("%q: %w", s, ErrUnknownMode)
}

// Title formats the heading of a rendered matrix.
func Title(key Key) string {
	return fmt.Sprintf("Transition Matrix – %s (%%)", key)
}

// Grids returns one render.Grid per matrix of the requested modes, in
// global, group, stage order regardless of argument order. No modes means
// ModeGlobal.
func (e *Estimator) Grids(modes ...Mode) ([]render.Grid, error) {
	if e.fit == nil {
		return nil, fmt.Errorf("Grids: %w", ErrNotFitted)
	}
	if len(modes) == 0 {
		modes = []Mode{ModeGlobal}
	}
	want := make(map[Mode]bool, len(modes))
	for _, m := range modes {
		if m != ModeGlobal && m != ModeGroup && m != ModeStage {
			return nil, fmt.Errorf("Grids: %q: %w", m, ErrUnknownMode)
		}
		want[m] = true
	}

	var grids []render.Grid
	for _, key := range e.Keys() {
		if !want[Mode(key.kind.String())] {
			continue
		}
		en, err := e.lookup(key)
		if err != nil {
			return nil, err
		}
		labels := render.Labels(en.result.Labels)
		grids = append(grids, render.Grid{
			Title:     Title(key),
			Matrix:    en.result.Matrix.Copy(),
			RowLabels: labels,
			ColLabels: labels,
		})
	}

	return grids, nil
}
