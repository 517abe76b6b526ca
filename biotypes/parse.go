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
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const maxLineLen = 1 << 20

var digitsRe = regexp.MustCompile(`^[0-9]+$`)

// isDelim reports whether r separates fields in a report line.
func isDelim(r rune) bool {
	switch r {
	case '\t', ' ', ';', ',':
		return true
	}
	return false
}

// parseLine extracts (category, count) from one report line.  Runs of
// delimiters count as a single separator.  Fields beyond the second are
// ignored.
func parseLine(line string) (string, int64, bool) {
	fields := strings.FieldsFunc(strings.TrimSpace(line), isDelim)
	if len(fields) < 2 || !digitsRe.MatchString(fields[1]) {
		return "", 0, false
	}
	n, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		// Out of int64 range.
		return "", 0, false
	}
	return fields[0], n, true
}

// Parse reads a biotype report.  Lines that do not look like
// "<category><delim><count>" are skipped.  The returned error is non-nil only
// if r fails.
func Parse(r io.Reader) (*Report, error) {
	report := NewReport()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxLineLen)
	for scanner.Scan() {
		if category, n, ok := parseLine(scanner.Text()); ok {
			report.Set(category, n)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "couldn't read biotype report")
	}
	return report, nil
}

// ParseString parses an in-memory report.  Unlike Parse it has no line length
// limit.
func ParseString(text string) *Report {
	report := NewReport()
	for _, line := range strings.Split(text, "\n") {
		if category, n, ok := parseLine(line); ok {
			report.Set(category, n)
		}
	}
	return report
}
