// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package referencing

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// pathSegmentSafe is the percent-encoding safe set for a path segment:
// everything except controls, space, '"', '<', '>', backtick, '#',
// '?', '{', '}', '/', '%', and -- on non-Windows, where it is not a
// path separator -- '\'.
func pathSegmentSafe(b byte, allowBackslash bool) bool {
	switch b {
	case ' ', '"', '<', '>', '`', '#', '?', '{', '}', '/', '%':
		return false
	case '\\':
		return allowBackslash
	}
	return b >= 0x20 && b != 0x7f
}

func percentEncodeSegment(segment string, allowBackslash bool) string {
	var sb strings.Builder
	sb.Grow(len(segment))
	for i := 0; i < len(segment); i++ {
		b := segment[i]
		if pathSegmentSafe(b, allowBackslash) {
			sb.WriteByte(b)
		} else {
			fmt.Fprintf(&sb, "%%%02X", b)
		}
	}
	return sb.String()
}

// PathToURI converts an absolute filesystem path into a "file://" URI,
// percent-encoding each path segment and special-casing Windows drive
// letters (spec.md §6). path must already be absolute and cleaned; the
// caller is expected to have resolved symlinks/"." and ".." beforehand
// the way filepath.Abs + filepath.EvalSymlinks would.
//
// On non-Windows, path segments are additionally encoded with '\\'
// treated as a literal, unsafe byte, since it is not a separator there.
// Unicode segments are normalized to NFC first: macOS's HFS+/APFS
// return decomposed (NFD) filenames from readdir, which would otherwise
// make two spellings of the same accented filename compare unequal as
// URIs.
func PathToURI(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("path_to_uri: %q is not absolute", path)
	}
	path = filepath.Clean(path)

	var sb strings.Builder
	sb.WriteString("file://")

	if runtime.GOOS == "windows" {
		vol := filepath.VolumeName(path)
		if len(vol) != 2 || vol[1] != ':' {
			return "", fmt.Errorf("path_to_uri: unexpected windows volume in %q", path)
		}
		sb.WriteByte('/')
		sb.WriteByte(vol[0])
		sb.WriteByte(':')
		rest := strings.TrimPrefix(path[len(vol):], `\`)
		for _, seg := range strings.Split(rest, `\`) {
			if seg == "" {
				continue
			}
			sb.WriteByte('/')
			sb.WriteString(percentEncodeSegment(norm.NFC.String(seg), true))
		}
		return sb.String(), nil
	}

	for _, seg := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if seg == "" {
			continue
		}
		sb.WriteByte('/')
		sb.WriteString(percentEncodeSegment(norm.NFC.String(seg), false))
	}
	return sb.String(), nil
}
