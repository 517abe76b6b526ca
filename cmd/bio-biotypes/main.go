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
	"fmt"
	"regexp"
	"strings"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bioqc/biotypes/plot"
	"v.io/x/lib/cmdline"
)

func splitList(s string) []string {
	var list []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			list = append(list, e)
		}
	}
	return list
}

func newCmdBiotypes() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "bio-biotypes",
		Short: "Summarize per-sample biotype counts as a bar graph",
		Long: `
bio-biotypes collects biotype count reports, writes the raw counts as a TSV
table, and plots counts, percentages and, when a single spike-in category is
present, percentages without the spike-in.`,
		ArgsName: "root...",
		ArgsLong: "root... are directories (local or on any grailbio/base/file backend) searched recursively for biotype reports.",
		LookPath: false,
	}
	configFlag := cmd.Flags.String("config", "", "YAML config file; flags override its settings")
	patternFlag := cmd.Flags.String("pattern", "", `Comma-separated basename globs of biotype reports (default "*biotype*")`)
	outFlag := cmd.Flags.String("out", "", `Output path prefix (default "biotypes")`)
	formatFlag := cmd.Flags.String("format", "", `Chart format, "svg" or "png" (default "svg")`)
	noPlotFlag := cmd.Flags.Bool("no-plot", false, "Write the data file and plot JSON, but no charts")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return env.UsageErrorf("bio-biotypes takes at least one root directory")
		}
		ctx := vcontext.Background()
		opts := defaultRunOpts
		if *configFlag != "" {
			if err := loadConfig(ctx, *configFlag, &opts); err != nil {
				return err
			}
		}
		if patterns := splitList(*patternFlag); len(patterns) > 0 {
			opts.Discover.Patterns = patterns
		}
		if *outFlag != "" {
			opts.Out = *outFlag
		}
		if *formatFlag != "" {
			format, err := plot.ParseFormat(*formatFlag)
			if err != nil {
				return fmt.Errorf("-format: %v", err)
			}
			opts.Format = format
		}
		if *noPlotFlag {
			opts.NoPlot = true
		}
		return run(ctx, argv, opts)
	})
	return cmd
}

// setupLogging registers the global -log level flag, so that e.g.
// -log=debug shows duplicate sample names.
func setupLogging() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	log.AddFlags()
	cmdline.HideGlobalFlagsExcept(regexp.MustCompile(`^log$`))
}

func main() {
	setupLogging()
	cmdline.Main(newCmdBiotypes())
}
