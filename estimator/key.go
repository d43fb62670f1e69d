// SPDX-License-Identifier: MIT

package estimator

import (
	"fmt"
	"strconv"
)

// Kind names a modality.
type Kind uint8

const (
	KindGlobal Kind = iota
	KindGroup
	KindStage
)

// String returns "global", "group" or "stage".
func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindGroup:
		return "group"
	case KindStage:
		return "stage"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Key identifies one stored result.
type Key struct {
	kind  Kind
	group string
	stage int
}

// Global is the key of the all-transitions matrix.
func Global() Key { return Key{kind: KindGlobal} }

// Group is the key of the matrix for group label l.
func Group(l string) Key { return Key{kind: KindGroup, group: l} }

// Stage is the key of the matrix for transitions leaving raw bucket value v.
func Stage(v int) Key { return Key{kind: KindStage, stage: v} }

// Kind reports which modality k addresses.
func (k Key) Kind() Kind { return k.kind }

// Label returns the group label (KindGroup only).
func (k Key) Label() string { return k.group }

// Value returns the stage value (KindStage only).
func (k Key) Value() int { return k.stage }

// String renders "global", "group:<label>" or "stage:<value>".
// It is also the scope attached to cleaning events.
func (k Key) String() string {
	switch k.kind {
	case KindGroup:
		return "group:" + k.group
	case KindStage:
		return "stage:" + strconv.Itoa(k.stage)
	default:
		return "global"
	}
}

// Selector is the optional-arguments form of a Key: nil fields are absent.
type Selector struct {
	Group *string
	Stage *int
}

// Key resolves s. Neither field set means Global.
func (s Selector) Key() (Key, error) {
	switch {
	case s.Group != nil && s.Stage != nil:
		return Key{}, fmt.Errorf("Selector{group=%q, stage=%d}: %w", *s.Group, *s.Stage, ErrInvalidSelector)
	case s.Group != nil:
		return Group(*s.Group), nil
	case s.Stage != nil:
		return Stage(*s.Stage), nil
	default:
		return Global(), nil
	}
}
