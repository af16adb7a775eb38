// go-pofo
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-pofo.
//
// go-pofo is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-pofo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-pofo; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package pofo

import "strings"

// Device path conventions
const (
	PathSeparator  = '\\'
	DriveSeparator = ':'
	maxBaseName    = 8
	maxExtension   = 4 // including the dot
)

// RemoteName derives the device path for sending source to dest.
//
// dest names a directory when several sources are sent at once or when it
// ends in a path separator or a drive colon. The result is then the
// directory, with slashes turned into backslashes and a trailing backslash,
// followed by the base name of source squeezed into 8.3 form: dots before the
// extension become underscores, the name keeps at most 8 characters and the
// extension at most 4 including its dot. Otherwise dest names the file
// itself and only has its slashes turned into backslashes. Either way the
// result is cut to MaxPathLength bytes.
func RemoteName(source, dest string, multi bool) string {
	dir := truncatePath(strings.ReplaceAll(dest, "/", string(PathSeparator)))
	if !multi && !isDirectoryName(dir) {
		return dir
	}

	if !strings.HasSuffix(dir, string(PathSeparator)) {
		dir = appendBounded(dir, string(PathSeparator), 1)
	}

	base := localBaseName(source)
	ext := strings.LastIndexByte(base, '.')
	if ext < 0 {
		return appendBounded(dir, base, maxBaseName)
	}

	stem := strings.ReplaceAll(base[:ext], ".", "_")
	name := appendBounded(dir, stem, maxBaseName)
	return appendBounded(name, base[ext:], maxExtension)
}

func isDirectoryName(dest string) bool {
	if dest == "" {
		return false
	}
	switch dest[len(dest)-1] {
	case PathSeparator, DriveSeparator:
		return true
	default:
		return false
	}
}

// localBaseName strips the directory part of a host path. Forward slashes
// take precedence; backslashes are only honoured when there are none.
func localBaseName(source string) string {
	if i := strings.LastIndexByte(source, '/'); i >= 0 {
		return source[i+1:]
	}
	if i := strings.LastIndexByte(source, PathSeparator); i >= 0 {
		return source[i+1:]
	}
	return source
}

// appendBounded appends at most limit bytes of s to path without letting the
// result exceed MaxPathLength
func appendBounded(path, s string, limit int) string {
	if room := MaxPathLength - len(path); limit > room {
		limit = room
	}
	if limit <= 0 {
		return path
	}
	if len(s) > limit {
		s = s[:limit]
	}
	return path + s
}
