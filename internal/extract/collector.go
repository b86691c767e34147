// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/docdrift/internal/logging"
	"github.com/petar-djukic/docdrift/pkg/types"
)

// Options configures a Collector.
type Options struct {
	ScanOptions
	Workers int          // Parallel readers; <= 0 means runtime.NumCPU()
	Logger  *slog.Logger // nil discards
}

// Stats counts what the last Collect call did.
type Stats struct {
	CodeFiles    int
	DocFiles     int
	FilesSkipped int
	CacheHits    int
}

type cacheEntry struct {
	hash uint64
	code *types.CodeFile
	doc  *types.DocFile
}

// Collector scans a directory and extracts every code and documentation
// file in parallel. Extraction results are cached by path and content hash,
// so repeated collections of an unchanged tree only re-read files.
type Collector struct {
	opts Options
	log  *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
	stats Stats
}

// NewCollector creates a collector with an empty cache.
func NewCollector(opts Options) *Collector {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Collector{
		opts:  opts,
		log:   logging.OrDiscard(opts.Logger),
		cache: make(map[string]cacheEntry),
	}
}

// Stats returns the counters of the most recent Collect.
func (c *Collector) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Collect extracts all files under root. Files that cannot be read or
// parsed are logged and skipped. Results are sorted by path.
func (c *Collector) Collect(ctx context.Context, root string) ([]types.CodeFile, []types.DocFile, error) {
	scan, err := Scan(root, c.opts.ScanOptions)
	if err != nil {
		return nil, nil, err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, err
	}
	c.log.Info("scanned directory", "root", absRoot, "code", len(scan.Code), "docs", len(scan.Docs))

	c.mu.Lock()
	c.stats = Stats{}
	c.mu.Unlock()

	codeSlots := make([]*types.CodeFile, len(scan.Code))
	docSlots := make([]*types.DocFile, len(scan.Docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i, rel := range scan.Code {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			codeSlots[i] = c.code(absRoot, rel)
			return nil
		})
	}
	for i, rel := range scan.Docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docSlots[i] = c.doc(absRoot, rel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	code := make([]types.CodeFile, 0, len(codeSlots))
	for _, cf := range codeSlots {
		if cf != nil {
			code = append(code, *cf)
		}
	}
	docs := make([]types.DocFile, 0, len(docSlots))
	for _, df := range docSlots {
		if df != nil {
			docs = append(docs, *df)
		}
	}

	c.mu.Lock()
	c.stats.CodeFiles, c.stats.DocFiles = len(code), len(docs)
	stats := c.stats
	c.mu.Unlock()
	c.log.Debug("extraction done",
		"code", stats.CodeFiles, "docs", stats.DocFiles,
		"skipped", stats.FilesSkipped, "cache_hits", stats.CacheHits)
	return code, docs, nil
}

// load reads a file and consults the cache. A non-nil entry means the
// cached result is current.
func (c *Collector) load(absRoot, rel string) (string, uint64, *cacheEntry, bool) {
	text, err := ReadFileSafe(filepath.Join(absRoot, filepath.FromSlash(rel)))
	if err != nil {
		c.skip(rel, err)
		return "", 0, nil, false
	}
	h := xxhash.Sum64String(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.cache[rel]; ok && e.hash == h {
		c.stats.CacheHits++
		return text, h, &e, true
	}
	return text, h, nil, true
}

func (c *Collector) code(absRoot, rel string) *types.CodeFile {
	text, h, hit, ok := c.load(absRoot, rel)
	if !ok {
		return nil
	}
	if hit != nil && hit.code != nil {
		return hit.code
	}
	cf, err := BuildCodeFile(rel, []byte(text))
	if err != nil {
		c.skip(rel, err)
		return nil
	}
	c.store(rel, cacheEntry{hash: h, code: &cf})
	return &cf
}

func (c *Collector) doc(absRoot, rel string) *types.DocFile {
	text, h, hit, ok := c.load(absRoot, rel)
	if !ok {
		return nil
	}
	if hit != nil && hit.doc != nil {
		return hit.doc
	}
	df := BuildDocFile(rel, text)
	c.store(rel, cacheEntry{hash: h, doc: &df})
	return &df
}

func (c *Collector) store(rel string, e cacheEntry) {
	c.mu.Lock()
	c.cache[rel] = e
	c.mu.Unlock()
}

func (c *Collector) skip(rel string, err error) {
	c.log.Warn("skipping file", "path", rel, "error", err)
	c.mu.Lock()
	c.stats.FilesSkipped++
	c.mu.Unlock()
}
