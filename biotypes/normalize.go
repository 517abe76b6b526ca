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

package biotypes

import (
	"errors"
)

// ErrNoData is returned by Normalize when the corpus holds no samples.  It is
// an expected outcome when a run contains no biotype reports, not a failure.
var ErrNoData = errors.New("biotypes: no biotype data found")

// SpikeInAliases lists the category names recognized as spike-in controls.
// Matching is case sensitive.
var SpikeInAliases = []string{"spike-in", "ERCC", "ercc", "spikein"}

// PercentView maps sample name -> category -> percentage.
type PercentView map[string]map[string]float64

// Views is the result of normalizing a Corpus.
type Views struct {
	// Headers is the category order shared by every view.  If SpikeIn is set,
	// it is the first element.
	Headers []string
	// Counts is the corpus the views were computed from.
	Counts *Corpus
	// Percent is each category's share of the sample total.
	Percent PercentView
	// NonSpike is each non-spike-in category's share of the sample's
	// non-spike-in total.  It is nil unless exactly one spike-in alias was
	// found.
	NonSpike PercentView
	// SpikeIn is the spike-in category behind NonSpike, or "".
	SpikeIn string
}

// PercentOf computes 100*count/total for every category of r for which keep
// returns true; total is the sum over the same categories.  A nil keep
// selects every category.  If the total is zero, every selected category gets
// 0.
func PercentOf(r *Report, keep func(category string) bool) map[string]float64 {
	total := r.total(keep)
	pct := make(map[string]float64, len(r.categories))
	for _, category := range r.categories {
		if keep != nil && !keep(category) {
			continue
		}
		if total == 0 {
			pct[category] = 0
			continue
		}
		pct[category] = float64(r.counts[category]) / total * 100
	}
	return pct
}

// DetectSpikeIn returns the spike-in alias present in headers.  It returns
// false if no alias, or more than one, is present.
func DetectSpikeIn(headers []string) (string, bool) {
	var found []string
	for _, alias := range SpikeInAliases {
		for _, h := range headers {
			if h == alias {
				found = append(found, alias)
				break
			}
		}
	}
	if len(found) != 1 {
		return "", false
	}
	return found[0], true
}

// Normalize computes the percentage views of the corpus.  It returns ErrNoData
// if the corpus is empty.
func Normalize(c *Corpus) (*Views, error) {
	if c == nil || c.Len() == 0 {
		return nil, ErrNoData
	}
	v := &Views{
		Headers: c.Headers(),
		Counts:  c,
		Percent: make(PercentView, c.Len()),
	}
	for _, sample := range c.samples {
		v.Percent[sample] = PercentOf(c.reports[sample], nil)
	}

	spike, ok := DetectSpikeIn(v.Headers)
	if !ok {
		return v, nil
	}
	notSpike := func(category string) bool { return category != spike }
	v.SpikeIn = spike
	v.NonSpike = make(PercentView, c.Len())
	for _, sample := range c.samples {
		v.NonSpike[sample] = PercentOf(c.reports[sample], notSpike)
	}
	headers := make([]string, 0, len(v.Headers))
	headers = append(headers, spike)
	for _, h := range v.Headers {
		if h != spike {
			headers = append(headers, h)
		}
	}
	v.Headers = headers
	return v, nil
}
