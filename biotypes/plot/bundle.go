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

// Package plot turns normalized biotype views into a bar graph description:
// a list of datasets, the category keys shared by every dataset, and a
// configuration record.  Render draws the description with go-chart; any
// other renderer can consume the JSON form written by Bundle.WriteJSON.
package plot

import (
	"encoding/json"
	"io"

	"github.com/grailbio/bioqc/biotypes"
)

// Fixed plot configuration values.
const (
	ID    = "biotype_distribution_plot"
	Title = "Biotypes"
	XLab  = "Biotype"
)

// DataLabel names one dataset and its y axis.
type DataLabel struct {
	Name string `json:"name"`
	YLab string `json:"ylab"`
}

// Labels of the datasets produced by Build, in order.
var (
	CountsLabel   = DataLabel{Name: "Counts", YLab: "Counts"}
	PercentLabel  = DataLabel{Name: "Percentages", YLab: "Percentage"}
	NonSpikeLabel = DataLabel{Name: "Percentages wo spike-in", YLab: "Percentage"}
)

// Key describes one bar segment (category).
type Key struct {
	Name string `json:"name"`
}

// Dataset maps sample -> category -> value.  In the counts dataset, counts
// above 2^53 are rounded to the nearest float64; the data file written by
// biotypes.WriteTSV keeps them exact.
type Dataset map[string]map[string]float64

// Config is the renderer configuration.
type Config struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	YLab       string      `json:"ylab"`
	XLab       string      `json:"xlab"`
	DataLabels []DataLabel `json:"data_labels"`
	// CPSwitch enables a renderer's own counts/percentages toggle.  Build
	// always disables it, since the datasets already provide both views.
	CPSwitch bool `json:"cpswitch"`
}

// Bundle is everything a renderer needs to draw the biotype bar graph.
// Datasets[i] is drawn with Keys[i] and labelled Config.DataLabels[i].
type Bundle struct {
	Datasets []Dataset `json:"datasets"`
	Keys     [][]Key   `json:"keys"`
	Config   Config    `json:"config"`
	// Samples lists the bars in corpus order.
	Samples []string `json:"samples"`
}

// Build assembles the bundle for the given views: raw counts, percentages,
// and, if v.NonSpike is set, percentages without the spike-in category.
func Build(v *biotypes.Views) *Bundle {
	keys := make([]Key, len(v.Headers))
	for i, h := range v.Headers {
		keys[i] = Key{Name: h}
	}
	samples := v.Counts.Samples()

	raw := make(Dataset, len(samples))
	for _, sample := range samples {
		r := v.Counts.Get(sample)
		row := make(map[string]float64, r.Len())
		for _, category := range r.Categories() {
			n, _ := r.Count(category)
			row[category] = float64(n)
		}
		raw[sample] = row
	}

	b := &Bundle{
		Datasets: []Dataset{raw, Dataset(v.Percent)},
		Keys:     [][]Key{keys, keys},
		Config: Config{
			ID:         ID,
			Title:      Title,
			YLab:       CountsLabel.YLab,
			XLab:       XLab,
			DataLabels: []DataLabel{CountsLabel, PercentLabel},
			CPSwitch:   false,
		},
		Samples: append([]string(nil), samples...),
	}
	if v.NonSpike != nil {
		b.Datasets = append(b.Datasets, Dataset(v.NonSpike))
		b.Keys = append(b.Keys, keys)
		b.Config.DataLabels = append(b.Config.DataLabels, NonSpikeLabel)
	}
	return b
}

// WriteJSON writes the bundle as indented JSON.
func (b *Bundle) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}
