// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package discover finds biotype reports under a set of directories and loads
// them into a biotypes.Corpus.  Directories may live on any backend
// registered with github.com/grailbio/base/file; only local disk is
// registered by default.
package discover

import (
	"context"
	"io"
	"path"
	"sort"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/bioqc/biotypes"
)

// Opts controls which files are treated as biotype reports and how their
// sample names are derived.
type Opts struct {
	// Patterns are shell globs (path.Match syntax) matched against file
	// basenames.  A file is a report if any pattern matches.
	Patterns []string
	// CleanExts are suffixes stripped from basenames to form sample names.
	CleanExts []string
}

// DefaultOpts is the default Opts.
var DefaultOpts = Opts{
	Patterns: []string{"*biotype*"},
	CleanExts: []string{
		".gz", ".bz2", ".txt", ".tsv", ".csv",
		".biotypes", "_biotypes", ".biotype", "_biotype", ".counts",
	},
}

// Source is one discovered report.
type Source struct {
	// Name is the raw sample identifier: the file path relative to Root.
	Name string
	// Root is the directory the file was found under.
	Root string
	// Path is the full path of the file.
	Path string
}

// Match reports whether the basename of p matches any of the patterns.  A
// malformed pattern never matches.
func Match(patterns []string, p string) bool {
	base := file.Base(p)
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// Find lists the reports under roots.  Sources are returned grouped by root
// in the order given, and sorted by path within a root.
func Find(ctx context.Context, roots []string, opts Opts) ([]Source, error) {
	var sources []Source
	for _, root := range roots {
		var found []Source
		lister := file.List(ctx, root, true)
		for lister.Scan() {
			if lister.IsDir() || !Match(opts.Patterns, lister.Path()) {
				continue
			}
			found = append(found, Source{
				Name: relPath(root, lister.Path()),
				Root: root,
				Path: lister.Path(),
			})
		}
		if err := lister.Err(); err != nil {
			return nil, errors.E(err, "couldn't list", root)
		}
		sort.SliceStable(found, func(i, j int) bool { return found[i].Path < found[j].Path })
		sources = append(sources, found...)
	}
	return sources, nil
}

// Read opens and parses the report, decompressing it if its name ends in a
// known compression suffix.
func (s Source) Read(ctx context.Context) (report *biotypes.Report, err error) {
	in, err := file.Open(ctx, s.Path)
	if err != nil {
		return nil, errors.E(err, "couldn't open biotype report:", s.Path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		defer func() {
			if e := u.Close(); e != nil && err == nil {
				err = e
			}
		}()
		r = u
	}
	return biotypes.Parse(r)
}

// Load finds the reports under roots and parses them into a corpus, keyed by
// CleanName, remembering each report's path.  Files that cannot be read are
// logged and skipped.  The returned
// corpus may be empty; biotypes.Normalize reports that as biotypes.ErrNoData.
func Load(ctx context.Context, roots []string, opts Opts) (*biotypes.Corpus, error) {
	sources, err := Find(ctx, roots, opts)
	if err != nil {
		return nil, err
	}
	corpus := biotypes.NewCorpus()
	for _, s := range sources {
		report, err := s.Read(ctx)
		if err != nil {
			log.Error.Printf("%s: skipping unreadable biotype report: %v", s.Path, err)
			continue
		}
		corpus.AddFrom(CleanName(s.Name, s.Root, opts.CleanExts), s.Path, report)
	}
	log.Printf("Found %d biotype reports in %d files", corpus.Len(), len(sources))
	return corpus, nil
}
