// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the decode/draw/encode capability the gridcut
// pipeline renders through.
//
// A Surface turns encoded bytes into a Bitmap, renders a region of a Bitmap
// onto a new Bitmap of a requested size, and encodes a Bitmap back into
// bytes. The pipeline never touches pixels directly, so the same code runs
// on any backend that satisfies the interface:
//
//   - Raster: pure Go software backend built on image/* and x/image
//   - Third-party backends via the registry
//
// # Registry
//
// Backends register themselves by name and priority:
//
//	surface.Register("vips", 50, func() (surface.Surface, error) {
//	    return newVipsSurface()
//	}, vipsAvailable)
//
//	// Later:
//	s, err := surface.NewByName("vips")
//
//	// or auto-select the best available:
//	s, err := surface.New()
//
// The software backend is registered as "raster" with priority 10.
//
// # Usage
//
//	s := surface.NewRaster()
//
//	bm, err := s.Decode(data)
//	if err != nil {
//	    return err
//	}
//
//	thumb, err := s.Draw(bm, surface.FullRegion(bm), surface.DrawOptions{
//	    Width:     bm.Width / 2,
//	    Height:    bm.Height / 2,
//	    Smoothing: true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	out, err := s.Encode(thumb, surface.FormatJPEG, 0.92)
package surface
