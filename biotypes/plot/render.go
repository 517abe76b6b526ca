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

package plot

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	chart "github.com/wcharczuk/go-chart/v2"
)

// Format is an image format supported by Render.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat parses "svg" or "png", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case SVG, PNG:
		return f, nil
	}
	return "", fmt.Errorf("unknown plot format %q; want svg or png", s)
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

const (
	chartHeight   = 512
	minChartWidth = 1024
	barWidth      = 40
	barSpacing    = 20
)

var errNothingToDraw = errors.E("plot: no sample has a non-zero value")

// chartFor lays out dataset i as a stacked bar chart: one bar per sample, one
// segment per key.  Samples whose values are all zero are left out.
func (b *Bundle) chartFor(i int) (chart.StackedBarChart, error) {
	label := b.Config.DataLabels[i]
	data := b.Datasets[i]
	var bars []chart.StackedBar
	for _, sample := range b.Samples {
		row := data[sample]
		values := make([]chart.Value, len(b.Keys[i]))
		var total float64
		for j, key := range b.Keys[i] {
			values[j] = chart.Value{Label: key.Name, Value: row[key.Name]}
			total += row[key.Name]
		}
		if total <= 0 {
			log.Debug.Printf("plot %s: sample %s has no %s to draw", b.Config.ID, sample, label.Name)
			continue
		}
		bars = append(bars, chart.StackedBar{Name: sample, Width: barWidth, Values: values})
	}
	if len(bars) == 0 {
		return chart.StackedBarChart{}, errNothingToDraw
	}
	width := len(bars) * (barWidth + barSpacing)
	if width < minChartWidth {
		width = minChartWidth
	}
	return chart.StackedBarChart{
		Title:      fmt.Sprintf("%s: %s (%s)", b.Config.Title, label.Name, label.YLab),
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 16, Right: 16, Bottom: 16}},
		Width:      width,
		Height:     chartHeight,
		BarSpacing: barSpacing,
		Bars:       bars,
	}, nil
}

// Render draws dataset i of the bundle in the given format.
func (b *Bundle) Render(w io.Writer, i int, format Format) error {
	if i < 0 || i >= len(b.Datasets) {
		return fmt.Errorf("plot %s: dataset %d out of range [0,%d)", b.Config.ID, i, len(b.Datasets))
	}
	c, err := b.chartFor(i)
	if err != nil {
		return err
	}
	return c.Render(format.provider(), w)
}

// DatasetID returns a file-name friendly identifier for dataset i, e.g.
// "biotype_distribution_plot.percentages_wo_spike-in".
func (b *Bundle) DatasetID(i int) string {
	name := strings.ToLower(strings.Replace(b.Config.DataLabels[i].Name, " ", "_", -1))
	return b.Config.ID + "." + name
}

// WriteFiles renders every dataset to "<prefix>.<DatasetID>.<format>" and
// writes the JSON bundle to "<prefix>.plot.json".  Datasets in which every
// value is zero are skipped.  It returns the paths written.
func (b *Bundle) WriteFiles(ctx context.Context, prefix string, format Format) ([]string, error) {
	jsonPath := prefix + ".plot.json"
	if err := b.WriteJSONFile(ctx, jsonPath); err != nil {
		return nil, err
	}
	paths := []string{jsonPath}
	for i := range b.Datasets {
		c, err := b.chartFor(i)
		if err == errNothingToDraw {
			log.Printf("plot %s: skipping %s, nothing to draw", b.Config.ID, b.Config.DataLabels[i].Name)
			continue
		}
		path := fmt.Sprintf("%s.%s.%s", prefix, b.DatasetID(i), format)
		err = writeFile(ctx, path, func(w io.Writer) error { return c.Render(format.provider(), w) })
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteJSONFile writes the JSON form of the bundle to path.
func (b *Bundle) WriteJSONFile(ctx context.Context, path string) error {
	return writeFile(ctx, path, b.WriteJSON)
}

func writeFile(ctx context.Context, path string, fn func(io.Writer) error) (err error) {
	var dst file.File
	if dst, err = file.Create(ctx, path); err != nil {
		return errors.E(err, "couldn't create plot file:", path)
	}
	defer file.CloseAndReport(ctx, dst, &err)
	if err = fn(dst.Writer(ctx)); err != nil {
		return errors.E(err, "error writing to plot file:", path)
	}
	return nil
}
