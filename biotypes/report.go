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

// Package biotypes aggregates per-sample biotype count reports.  A report is a
// small text table with one "<biotype> <count>" record per line, for example:
//
// protein_coding	100
// rRNA;50
// misc_RNA,30
//
// Reports from many samples are collected into a Corpus, normalized into
// percentage views, and handed to a plotting layer (see package plot).
package biotypes

import (
	"github.com/grailbio/base/log"
)

// Report holds the biotype counts of one sample.  Categories are kept in the
// order they were first seen in the input.
type Report struct {
	categories []string
	counts     map[string]int64
}

// NewReport creates an empty Report.
func NewReport() *Report {
	return &Report{counts: make(map[string]int64)}
}

// Set records the count for the category.  If the category is already present
// its count is replaced, but it keeps its original position.
func (r *Report) Set(category string, count int64) {
	if _, ok := r.counts[category]; !ok {
		r.categories = append(r.categories, category)
	}
	r.counts[category] = count
}

// Count returns the count for the category, and whether it was present.
func (r *Report) Count(category string) (int64, bool) {
	n, ok := r.counts[category]
	return n, ok
}

// Categories returns the categories in first-seen order.  The caller must not
// modify the returned slice.
func (r *Report) Categories() []string { return r.categories }

// Len returns the number of distinct categories.
func (r *Report) Len() int { return len(r.categories) }

// Total returns the sum of all counts.  The sum is accumulated in float64 so
// that counts near math.MaxInt64 cannot overflow it.
func (r *Report) Total() float64 { return r.total(nil) }

func (r *Report) total(keep func(category string) bool) float64 {
	var total float64
	for _, category := range r.categories {
		if keep == nil || keep(category) {
			total += float64(r.counts[category])
		}
	}
	return total
}

// Corpus is the set of reports keyed by sample name.  Samples are kept in the
// order they were first added.
type Corpus struct {
	samples []string
	reports map[string]*Report
	sources map[string]string
}

// NewCorpus creates an empty Corpus.
func NewCorpus() *Corpus {
	return &Corpus{
		reports: make(map[string]*Report),
		sources: make(map[string]string),
	}
}

// Add stores the report under the sample name.  A report already stored under
// the same name is replaced wholesale; counts are never merged.
func (c *Corpus) Add(sample string, r *Report) {
	if _, ok := c.reports[sample]; ok {
		log.Debug.Printf("Duplicate sample name found! Overwriting: %s", sample)
	} else {
		c.samples = append(c.samples, sample)
	}
	c.reports[sample] = r
	delete(c.sources, sample)
}

// AddFrom is Add, and also records the path the report was read from.
func (c *Corpus) AddFrom(sample, path string, r *Report) {
	c.Add(sample, r)
	c.sources[sample] = path
}

// Source returns the path the sample's report was read from, or "" if it was
// added without one.
func (c *Corpus) Source(sample string) string { return c.sources[sample] }

// Get returns the report for the sample, or nil.
func (c *Corpus) Get(sample string) *Report { return c.reports[sample] }

// Samples returns the sample names in insertion order.  The caller must not
// modify the returned slice.
func (c *Corpus) Samples() []string { return c.samples }

// Len returns the number of samples.
func (c *Corpus) Len() int { return len(c.samples) }

// Headers returns every category found in the corpus, in the order of first
// appearance when walking samples in insertion order.
func (c *Corpus) Headers() []string {
	var headers []string
	seen := map[string]bool{}
	for _, sample := range c.samples {
		for _, category := range c.reports[sample].categories {
			if !seen[category] {
				seen[category] = true
				headers = append(headers, category)
			}
		}
	}
	return headers
}
