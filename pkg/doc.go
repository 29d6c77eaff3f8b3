// Package pkg provides the core libraries for Carousel keyline layouts.
//
// # Overview
//
// Carousel computes where the items of a horizontally scrolling carousel sit,
// how large they are and how much of them is cut off at any scroll offset.
// The geometry is described by keylines: one slot per visible position, with
// a run of focal (full size) slots, smaller slots that items shrink into at
// the edges, and zero-size anchors just outside the viewport. The pkg
// directory is organized into four main areas:
//
//  1. [keyline] and [carousel] - Domain logic (keyline lists, strategies, placement, sync)
//  2. [cache], [preset], [config] - Infrastructure (layout cache, preset storage, settings)
//  3. [pipeline] - Orchestration (options → keylines → placements, with caching)
//  4. [layout] and [server] - Serialization and the HTTP API
//
// # Architecture
//
// The typical data flow through Carousel:
//
//	Request (flags, JSON body or preset)
//	         ↓
//	    [pipeline] package (validate, apply config defaults)
//	         ↓
//	    [carousel] package (strategy → keyline list)
//	         ↓
//	    [carousel] package (placements at a scroll offset)
//	         ↓
//	    [layout] JSON, tables or the terminal preview
//
// # Quick Start
//
// Build a strategy and place items:
//
//	s, _ := carousel.Uncontained(360, 100, 8)
//	c, _ := carousel.New(s, 5)
//	for _, p := range c.Place(54) {
//	    fmt.Println(p.Index, p.Offset, p.Size, p.Visible)
//	}
//
// Or go through the pipeline, which validates the request and caches both
// stages:
//
//	r := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, _ := r.Execute(ctx, pipeline.Options{Strategy: "hero", Scroll: 120})
//
// # Main Packages
//
// [keyline] - Keyline lists built from item sizes, alignment and pivot.
// Enforces one pivot, a contiguous focal run and non-negative cutoffs.
//
// [carousel] - The explicit, uncontained, multi-browse and hero strategies,
// scroll clamping, snap offsets and per-item placement. [carousel.Sync] keeps
// an external selection and the scroll position in step.
//
// [pipeline] - Request options, config defaults and the caching [pipeline.Runner]
// shared by the CLI and the HTTP server.
//
// [cache] - Layout cache backends: file (flock guarded), redis and null.
//
// [preset] - Named layout requests stored in sqlite, mongo, JSON files or memory.
//
// [server] - chi based HTTP API over the runner and the preset store.
//
// [observability] - Hook interfaces for layout, cache, store and HTTP events.
package pkg
