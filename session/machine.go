// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"

	"github.com/gogpu/gridcut"
	"github.com/gogpu/gridcut/surface"
)

// Session errors.
var (
	// ErrBusy is returned when an operation is started while another runs.
	ErrBusy = errors.New("session: operation in progress")

	// ErrIndexOutOfRange is returned for an image index outside the
	// collection.
	ErrIndexOutOfRange = errors.New("session: image index out of range")
)

// Observer receives a snapshot after every state transition.
type Observer func(State)

// Option configures a Machine.
type Option func(*Machine)

// WithObserver registers fn to be called after each transition. Observers
// run synchronously on the goroutine performing the operation.
func WithObserver(fn Observer) Option {
	return func(m *Machine) {
		if fn != nil {
			m.observers = append(m.observers, fn)
		}
	}
}

// size is a cached image dimension pair.
type size struct {
	width, height int
}

// Machine runs session operations against a gridcut pipeline.
//
// All methods are safe for concurrent use. Mutating operations are
// exclusive: while one runs, the others return ErrBusy.
type Machine struct {
	cfg        gridcut.Config
	surf       surface.Surface
	validator  *gridcut.Validator
	normalizer *gridcut.Normalizer
	splitter   *gridcut.Splitter
	archiver   *gridcut.Archiver
	observers  []Observer

	// sizes caches decoded dimensions per image ID.
	sizes *cache.Cache

	// op is held for the whole of a mutating operation.
	op sync.Mutex

	mu    sync.RWMutex
	state State
	opts  gridcut.ProcessingOptions
}

// New creates a Machine. A nil surf selects the backend named by
// cfg.Surface.
func New(cfg gridcut.Config, surf surface.Surface, opts ...Option) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if surf == nil {
		var err error
		if surf, err = cfg.NewSurface(); err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}

	m := &Machine{
		cfg:        cfg,
		surf:       surf,
		validator:  gridcut.NewValidator(cfg),
		normalizer: gridcut.NewNormalizer(surf, cfg.Processing),
		splitter:   gridcut.NewSplitter(surf, cfg.Processing, gridcut.WithDecodeCache(cfg.DecodeCache)),
		archiver:   gridcut.NewArchiver(),
		sizes:      cache.New(cache.NoExpiration, 0),
		opts:       cfg.Processing,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// State returns a snapshot of the session.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

// Options returns the session's processing options.
func (m *Machine) Options() gridcut.ProcessingOptions {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opts
}

// apply runs a transition and notifies observers.
func (m *Machine) apply(fn func(State) State) State {
	m.mu.Lock()
	m.state = fn(m.state)
	snap := m.state.clone()
	m.mu.Unlock()

	for _, obs := range m.observers {
		obs(snap)
	}
	return snap
}

func (m *Machine) begin() {
	m.apply(func(s State) State { return startLoading(clearError(s)) })
}

func (m *Machine) fail(err error) {
	gridcut.Logger().Warn("session: operation failed", "err", err)
	m.apply(func(s State) State { return recordError(s, err) })
}

// UploadFiles validates, normalizes and appends files in input order.
//
// Files whose type is not image/* are skipped with a warning. A duplicate
// name, a validation failure or a decode failure is recorded in the error
// slot and the batch continues. When the collection was empty before the
// call and auto-split is enabled, the current image is split at the
// default grid.
//
// The returned error is ErrBusy or a context error; per-file failures are
// reported through State.Err.
func (m *Machine) UploadFiles(ctx context.Context, files []gridcut.File) (st State, err error) {
	if !m.op.TryLock() {
		return m.State(), ErrBusy
	}
	defer m.op.Unlock()

	if len(files) == 0 {
		return m.State(), nil
	}

	wasEmpty := !m.State().HasImages()
	opts := m.Options()

	m.begin()
	defer func() { st = m.apply(stopLoading) }()

	added := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		if m.uploadOne(ctx, f, opts) {
			added++
		}
	}

	gridcut.Logger().Info("session: uploaded files", "files", len(files), "added", added)

	if wasEmpty && m.State().HasImages() && m.cfg.AutoSplit {
		if err := m.split(ctx, m.cfg.DefaultGrid, opts); err != nil {
			return st, err
		}
	}
	return st, nil
}

// uploadOne processes one file and reports whether it was added.
func (m *Machine) uploadOne(ctx context.Context, f gridcut.File, opts gridcut.ProcessingOptions) (added bool) {
	defer func() {
		if r := recover(); r != nil {
			m.fail(fmt.Errorf("session: processing %s: panic: %v", f.Name, r))
			added = false
		}
	}()

	log := gridcut.Logger().With("file", f.Name)

	if !strings.HasPrefix(f.Type, "image/") {
		log.Warn("session: skipping non-image file", "type", f.Type)
		return false
	}

	name := gridcut.NormalizeName(f.Name)
	if m.State().HasImage(name) {
		m.fail(&gridcut.FileError{Name: name, Kind: gridcut.ErrDuplicateName})
		return false
	}

	if err := m.validator.Validate(f); err != nil {
		m.fail(err)
		return false
	}

	rec, err := m.normalizer.Normalize(ctx, f, gridcut.WithOptions(opts))
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		m.fail(err)
		return false
	}

	m.sizes.Set(rec.ID, size{rec.Width, rec.Height}, cache.NoExpiration)
	m.apply(func(s State) State { return appendImage(s, *rec) })
	log.Debug("session: added image", "id", rec.ID, "width", rec.Width, "height", rec.Height)
	return true
}

// UpdateTiles re-splits the current image at grid with the session options
// merged with overrides. On failure the tile set is cleared and the error
// recorded. Without a current image it does nothing.
func (m *Machine) UpdateTiles(ctx context.Context, grid gridcut.Grid, overrides ...gridcut.Option) (st State, err error) {
	if !m.op.TryLock() {
		return m.State(), ErrBusy
	}
	defer m.op.Unlock()

	if _, ok := m.State().CurrentImage(); !ok {
		return m.State(), nil
	}

	m.begin()
	defer func() { st = m.apply(stopLoading) }()

	return st, m.split(ctx, grid, m.Options().With(overrides...))
}

// split cuts the current image and installs the result. It does not touch
// the loading flag. Only context errors are returned; other failures clear
// the tile set and go to the error slot.
func (m *Machine) split(ctx context.Context, grid gridcut.Grid, opts gridcut.ProcessingOptions) error {
	img, ok := m.State().CurrentImage()
	if !ok {
		return nil
	}

	width, height, err := m.resolveSize(img)
	if err != nil {
		m.apply(clearTiles)
		m.fail(&gridcut.FileError{Name: img.Name, Kind: gridcut.ErrDecode, Err: err})
		return nil
	}
	if width != img.Width || height != img.Height {
		m.apply(func(s State) State { return backfillSize(s, img.ID, width, height) })
		img.Width, img.Height = width, height
	}

	tiles, err := m.splitter.Split(ctx, img, grid, gridcut.WithOptions(opts))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		m.apply(clearTiles)
		m.fail(err)
		return nil
	}

	m.apply(func(s State) State { return replaceTiles(s, tiles, grid) })
	return nil
}

// resolveSize returns the pixel dimensions of img, probing the encoded
// header when they are not cached.
func (m *Machine) resolveSize(img gridcut.ImageRecord) (int, int, error) {
	if v, ok := m.sizes.Get(img.ID); ok {
		sz := v.(size)
		return sz.width, sz.height, nil
	}

	var (
		w, h int
		err  error
	)
	if cd, ok := m.surf.(surface.ConfigDecoder); ok {
		w, h, err = cd.DecodeConfig(img.Data)
	} else {
		var b *surface.Bitmap
		if b, err = m.surf.Decode(img.Data); err == nil {
			w, h = b.Width, b.Height
		}
	}
	if err != nil {
		return 0, 0, err
	}

	m.sizes.Set(img.ID, size{w, h}, cache.NoExpiration)
	return w, h, nil
}

// RemoveImage removes the image at index. If images remain, the current
// index is clamped and the new current image is split at the default grid;
// otherwise the tile set is cleared and the index reset to 0.
func (m *Machine) RemoveImage(ctx context.Context, index int) (State, error) {
	if !m.op.TryLock() {
		return m.State(), ErrBusy
	}
	defer m.op.Unlock()
	return m.remove(ctx, index)
}

// RemoveCurrentImage removes the current image. See RemoveImage.
func (m *Machine) RemoveCurrentImage(ctx context.Context) (State, error) {
	if !m.op.TryLock() {
		return m.State(), ErrBusy
	}
	defer m.op.Unlock()
	return m.remove(ctx, m.State().Current)
}

func (m *Machine) remove(ctx context.Context, index int) (st State, err error) {
	cur := m.State()
	if index < 0 || index >= len(cur.Images) {
		return cur, ErrIndexOutOfRange
	}
	removed := cur.Images[index]

	st = m.apply(func(s State) State {
		next, _ := removeAt(clearError(s), index)
		return next
	})
	m.sizes.Delete(removed.ID)
	gridcut.Logger().Info("session: removed image", "name", removed.Name, "remaining", len(st.Images))

	if !st.HasImages() {
		return st, nil
	}

	m.apply(startLoading)
	defer func() { st = m.apply(stopLoading) }()

	return st, m.split(ctx, m.cfg.DefaultGrid, m.Options())
}

// RemoveAllImages clears the collection, the tile set and the error slot.
// It runs synchronously without entering Loading.
func (m *Machine) RemoveAllImages() (State, error) {
	if !m.op.TryLock() {
		return m.State(), ErrBusy
	}
	defer m.op.Unlock()

	m.sizes.Flush()
	return m.apply(removeAll), nil
}

// SelectImage makes the image at index current and splits it at the grid of
// the active tile set, or the default grid when there is none.
func (m *Machine) SelectImage(ctx context.Context, index int) (st State, err error) {
	if !m.op.TryLock() {
		return m.State(), ErrBusy
	}
	defer m.op.Unlock()

	cur := m.State()
	if _, ok := selectIndex(cur, index); !ok {
		return cur, ErrIndexOutOfRange
	}

	grid := cur.Grid
	if grid.Validate() != nil {
		grid = m.cfg.DefaultGrid
	}

	m.apply(func(s State) State {
		next, _ := selectIndex(s, index)
		return startLoading(clearError(next))
	})
	defer func() { st = m.apply(stopLoading) }()

	return st, m.split(ctx, grid, m.Options())
}

// SetOptions applies overrides to the session's processing options. The new
// options take effect for later uploads and splits.
func (m *Machine) SetOptions(overrides ...gridcut.Option) error {
	if !m.op.TryLock() {
		return ErrBusy
	}
	defer m.op.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.opts.With(overrides...)
	if err := next.Validate(); err != nil {
		return err
	}
	m.opts = next
	return nil
}

// Export archives the active tile set. Skipped tiles are logged by the
// archiver and the last one is recorded in the error slot.
func (m *Machine) Export(ctx context.Context, opts gridcut.ArchiveOptions) (*gridcut.Package, error) {
	if !m.op.TryLock() {
		return nil, ErrBusy
	}
	defer m.op.Unlock()

	tiles := m.State().Tiles

	m.begin()
	defer m.apply(stopLoading)

	pkg, err := m.archiver.Archive(ctx, tiles, opts)
	if err != nil {
		return nil, err
	}
	if n := len(pkg.Skipped); n > 0 {
		m.fail(pkg.Skipped[n-1])
	}
	return pkg, nil
}
