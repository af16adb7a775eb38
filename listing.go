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

import (
	"bytes"
	"fmt"
)

// DecodeListing parses a directory listing reply: a two byte little endian
// entry count followed by that many NUL terminated names.
func DecodeListing(reply []byte) ([]string, error) {
	if len(reply) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrListingCorrupted, len(reply))
	}

	count := uint16le(reply)
	names := make([]string, 0, count)
	rest := reply[2:]
	for i := 0; i < count; i++ {
		end := bytes.IndexByte(rest, 0)
		if end < 0 {
			return names, fmt.Errorf("%w: entry %d of %d not terminated", ErrListingCorrupted, i+1, count)
		}
		names = append(names, string(rest[:end]))
		rest = rest[end+1:]
	}
	return names, nil
}

// EncodeListing builds a directory listing reply for names
func EncodeListing(names []string) []byte {
	size := 2
	for _, name := range names {
		size += len(name) + 1
	}

	b := make([]byte, 0, size)
	b = append(b, byte(len(names)), byte(len(names)>>8))
	for _, name := range names {
		b = append(b, name...)
		b = append(b, 0)
	}
	return b
}
