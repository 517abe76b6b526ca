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

package discover

import (
	"strings"

	"github.com/grailbio/base/file"
)

// relPath returns p relative to root, or p if it is not under root.
func relPath(root, p string) string {
	prefix := strings.TrimSuffix(root, "/") + "/"
	if strings.HasPrefix(p, prefix) {
		return p[len(prefix):]
	}
	return p
}

// CleanName turns a raw sample identifier into a sample name.  The root
// prefix and any directories are dropped, then suffixes in exts are stripped
// until none matches, so "x/S1_biotypes.txt.gz" becomes "S1".  CleanName
// never returns "": if stripping would consume the whole name, the basename
// is returned as is.
func CleanName(raw, root string, exts []string) string {
	base := file.Base(relPath(root, raw))
	name := base
	for {
		trimmed := false
		for _, ext := range exts {
			if ext != "" && strings.HasSuffix(name, ext) && len(name) > len(ext) {
				name = name[:len(name)-len(ext)]
				trimmed = true
				break
			}
		}
		if !trimmed {
			break
		}
	}
	if name == "" {
		return base
	}
	return name
}
