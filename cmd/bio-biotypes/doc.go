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

/*
bio-biotypes collects per-sample biotype count reports found under one or more
directories and summarizes them as a bar graph of biotype composition.

A report is a text file with one "<biotype> <count>" record per line; fields
may be separated by tabs, spaces, semicolons or commas.  Reports are found by
matching file basenames against glob patterns (default "*biotype*"), and
sample names are derived from the file names by stripping known extensions.

For every run, bio-biotypes writes:

	<out>.multiqc_biotype.tsv   raw counts, one row per sample
	<out>.multiqc_sources.tsv   the report file each sample was read from
	<out>.plot.json             the bar graph datasets, keys and configuration
	<out>.biotype_distribution_plot.<dataset>.<format>
	                            one chart per dataset: counts, percentages and,
	                            if exactly one spike-in category (ERCC, ercc,
	                            spike-in or spikein) is present, percentages
	                            without the spike-in

If no reports are found, bio-biotypes writes nothing and exits successfully.

Settings may also be read from a YAML file given by -config:

	patterns: ["*biotype*", "*.biotypes.txt"]
	clean_exts: [".txt", "_biotypes"]
	out: results/biotypes
	format: png
	no_plot: false

Flags given on the command line override the file.  -log=debug also reports
samples whose names collide, in which case the last report read wins.

Sample usage:

	bio-biotypes \
	    -out qc/biotypes \
	    -format svg \
	    /data/run1/biotypes /data/run2
*/
package main
