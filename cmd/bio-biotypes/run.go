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

package main

import (
	"context"
	"io/ioutil"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/bioqc/biotypes"
	"github.com/grailbio/bioqc/biotypes/discover"
	"github.com/grailbio/bioqc/biotypes/plot"
	"gopkg.in/yaml.v3"
)

type runOpts struct {
	// Discover selects the report files.
	Discover discover.Opts
	// Out is the output path prefix.
	Out string
	// Format is the chart image format.
	Format plot.Format
	// NoPlot disables chart rendering.  The data file and plot JSON are still
	// written.
	NoPlot bool
}

var defaultRunOpts = runOpts{
	Discover: discover.DefaultOpts,
	Out:      "biotypes",
	Format:   plot.SVG,
}

// configFile is the layout of the -config YAML file.  Empty fields leave the
// corresponding option unchanged.
type configFile struct {
	Patterns  []string `yaml:"patterns"`
	CleanExts []string `yaml:"clean_exts"`
	Out       string   `yaml:"out"`
	Format    string   `yaml:"format"`
	NoPlot    bool     `yaml:"no_plot"`
}

// loadConfig applies the YAML config at path to opts.
func loadConfig(ctx context.Context, path string, opts *runOpts) (err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "couldn't open config:", path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	data, err := ioutil.ReadAll(in.Reader(ctx))
	if err != nil {
		return errors.E(err, "couldn't read config:", path)
	}
	var cfg configFile
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return errors.E(err, "malformed config:", path)
	}
	if len(cfg.Patterns) > 0 {
		opts.Discover.Patterns = cfg.Patterns
	}
	if len(cfg.CleanExts) > 0 {
		opts.Discover.CleanExts = cfg.CleanExts
	}
	if cfg.Out != "" {
		opts.Out = cfg.Out
	}
	if cfg.Format != "" {
		if opts.Format, err = plot.ParseFormat(cfg.Format); err != nil {
			return errors.E(err, path)
		}
	}
	if cfg.NoPlot {
		opts.NoPlot = true
	}
	return nil
}

// run loads every report under roots and writes the data file, the sources
// table, the plot bundle and, unless disabled, the charts.  Finding no reports is not an
// error.
func run(ctx context.Context, roots []string, opts runOpts) error {
	corpus, err := discover.Load(ctx, roots, opts.Discover)
	if err != nil {
		return err
	}
	views, err := biotypes.Normalize(corpus)
	if err == biotypes.ErrNoData {
		log.Printf("Could not find any biotype data in %v", roots)
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("Found %d reports", corpus.Len())
	if views.SpikeIn != "" {
		log.Printf("Spike-in category %q found, adding percentages without it", views.SpikeIn)
	}

	dataPath := opts.Out + ".multiqc_biotype.tsv"
	if err := biotypes.WriteTSVFile(ctx, dataPath, corpus, views.Headers); err != nil {
		return err
	}
	if err := biotypes.WriteSourcesTSVFile(ctx, opts.Out+".multiqc_sources.tsv", corpus); err != nil {
		return err
	}
	bundle := plot.Build(views)
	if opts.NoPlot {
		return bundle.WriteJSONFile(ctx, opts.Out+".plot.json")
	}
	paths, err := bundle.WriteFiles(ctx, opts.Out, opts.Format)
	if err != nil {
		return err
	}
	log.Printf("Wrote %s and %d plot files", dataPath, len(paths))
	return nil
}
