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
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
)

// WriteTSV writes the raw counts of the corpus as a table with one row per
// sample and one column per header.  A category missing from a sample is
// written as an empty cell.
func WriteTSV(w io.Writer, c *Corpus, headers []string) error {
	out := tsv.NewWriter(w)
	out.WriteString("Sample")
	for _, h := range headers {
		out.WriteString(h)
	}
	if err := out.EndLine(); err != nil {
		return err
	}
	for _, sample := range c.samples {
		r := c.reports[sample]
		out.WriteString(sample)
		for _, h := range headers {
			if n, ok := r.counts[h]; ok {
				out.WriteString(strconv.FormatInt(n, 10))
			} else {
				out.WriteString("")
			}
		}
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

// WriteTSVFile writes the table produced by WriteTSV to path.  If path ends in
// ".gz", the output is gzip-compressed.
func WriteTSVFile(ctx context.Context, path string, c *Corpus, headers []string) (err error) {
	var dst file.File
	if dst, err = file.Create(ctx, path); err != nil {
		return errors.E(err, "couldn't create biotype data file:", path)
	}
	defer file.CloseAndReport(ctx, dst, &err)

	var w io.Writer = dst.Writer(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(w)
		defer func() {
			if e := gz.Close(); e != nil && err == nil {
				err = errors.E(e, "error writing to biotype data file:", path)
			}
		}()
		w = gz
	}
	if err = WriteTSV(w, c, headers); err != nil {
		return errors.E(err, "error writing to biotype data file:", path)
	}
	return nil
}

// WriteSourcesTSV writes one row per sample naming the file its report was
// read from.  Samples added without a source are written with an empty
// Source cell.
func WriteSourcesTSV(w io.Writer, c *Corpus) error {
	out := tsv.NewWriter(w)
	for _, col := range []string{"Module", "Section", "Sample Name", "Source"} {
		out.WriteString(col)
	}
	if err := out.EndLine(); err != nil {
		return err
	}
	for _, sample := range c.samples {
		out.WriteString("Biotypes")
		out.WriteString("all_sections")
		out.WriteString(sample)
		out.WriteString(c.sources[sample])
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

// WriteSourcesTSVFile writes the table produced by WriteSourcesTSV to path.
func WriteSourcesTSVFile(ctx context.Context, path string, c *Corpus) (err error) {
	var dst file.File
	if dst, err = file.Create(ctx, path); err != nil {
		return errors.E(err, "couldn't create biotype sources file:", path)
	}
	defer file.CloseAndReport(ctx, dst, &err)
	if err = WriteSourcesTSV(dst.Writer(ctx), c); err != nil {
		return errors.E(err, "error writing to biotype sources file:", path)
	}
	return nil
}
