// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package session

import (
	"slices"

	"github.com/gogpu/gridcut"
)

// Status is the observable phase of a session.
type Status uint8

const (
	// StatusIdle means no operation is running and the last one succeeded.
	StatusIdle Status = iota

	// StatusLoading means an operation is running.
	StatusLoading

	// StatusError means the last operation recorded a failure.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusLoading:
		return "Loading"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// State is a snapshot of a session.
//
// Transition functions never modify their argument; they return a new State
// that shares no slices with it.
type State struct {
	// Images is the collection in upload order.
	Images []gridcut.ImageRecord

	// Current indexes Images. It is 0 when Images is empty.
	Current int

	// Tiles is the active tile set, derived from one image in Images.
	Tiles []gridcut.TileRecord

	// Grid is the grid Tiles were cut with. Zero when Tiles is empty.
	Grid gridcut.Grid

	// Loading is set while an operation runs.
	Loading bool

	// Err is the most recent failure.
	Err error
}

// Status derives the phase: Loading wins over Error, Error over Idle.
func (s State) Status() Status {
	switch {
	case s.Loading:
		return StatusLoading
	case s.Err != nil:
		return StatusError
	default:
		return StatusIdle
	}
}

// HasImages reports whether the collection is non-empty.
func (s State) HasImages() bool {
	return len(s.Images) > 0
}

// CurrentImage returns the image at Current.
func (s State) CurrentImage() (gridcut.ImageRecord, bool) {
	if s.Current < 0 || s.Current >= len(s.Images) {
		return gridcut.ImageRecord{}, false
	}
	return s.Images[s.Current], true
}

// HasImage reports whether an image named name is in the collection.
// name must already be NFC-normalized.
func (s State) HasImage(name string) bool {
	return slices.ContainsFunc(s.Images, func(r gridcut.ImageRecord) bool {
		return r.Name == name
	})
}

func (s State) clone() State {
	s.Images = slices.Clone(s.Images)
	s.Tiles = slices.Clone(s.Tiles)
	return s
}

func startLoading(s State) State {
	s = s.clone()
	s.Loading = true
	return s
}

func stopLoading(s State) State {
	s = s.clone()
	s.Loading = false
	return s
}

func recordError(s State, err error) State {
	s = s.clone()
	s.Err = err
	return s
}

func clearError(s State) State {
	return recordError(s, nil)
}

func appendImage(s State, img gridcut.ImageRecord) State {
	s = s.clone()
	s.Images = append(s.Images, img)
	return s
}

// backfillSize records decoded dimensions for the image with the given ID.
func backfillSize(s State, id string, width, height int) State {
	s = s.clone()
	for i := range s.Images {
		if s.Images[i].ID == id {
			s.Images[i].Width = width
			s.Images[i].Height = height
		}
	}
	return s
}

func replaceTiles(s State, tiles []gridcut.TileRecord, grid gridcut.Grid) State {
	s = s.clone()
	s.Tiles = slices.Clone(tiles)
	s.Grid = grid
	if len(tiles) == 0 {
		s.Grid = gridcut.Grid{}
	}
	return s
}

func clearTiles(s State) State {
	return replaceTiles(s, nil, gridcut.Grid{})
}

// removeAt drops the image at index, clears the tile set and clamps
// Current. ok is false when index is out of range.
func removeAt(s State, index int) (State, bool) {
	if index < 0 || index >= len(s.Images) {
		return s, false
	}
	s = clearTiles(s)
	s.Images = slices.Delete(s.Images, index, index+1)
	if len(s.Images) == 0 {
		s.Current = 0
	} else {
		s.Current = min(s.Current, len(s.Images)-1)
	}
	return s, true
}

func removeAll(s State) State {
	s = s.clone()
	s.Images = nil
	s.Tiles = nil
	s.Grid = gridcut.Grid{}
	s.Current = 0
	s.Err = nil
	return s
}

// selectIndex makes index current. ok is false when index is out of range.
func selectIndex(s State, index int) (State, bool) {
	if index < 0 || index >= len(s.Images) {
		return s, false
	}
	s = s.clone()
	s.Current = index
	return s, true
}
