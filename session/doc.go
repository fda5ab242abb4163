// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package session sequences the gridcut pipeline for one interactive user.
//
// A Machine owns an ordered image collection, the current image index, the
// active tile set, a loading flag and a single last-error slot. Each
// operation moves the state through explicit transition functions:
//
//	Idle -> Loading -> Idle | Error
//
// Error keeps the images and tiles produced before the failure. Callers
// read immutable State snapshots with Machine.State or subscribe with
// WithObserver.
//
// Operations never queue. A call made while another operation runs returns
// ErrBusy at once.
package session
