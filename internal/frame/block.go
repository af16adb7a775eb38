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

package frame

import (
	"errors"
	"fmt"
)

// Framing errors
var (
	ErrTooLarge  = errors.New("payload exceeds maximum block length")
	ErrTruncated = errors.New("block truncated")
	ErrChecksum  = errors.New("block checksum mismatch")
)

// Encode builds the on-wire block [lenL, lenH, payload..., trailer].
// The marker byte that precedes a block is not part of the encoding.
func Encode(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(payload))
	}

	n := len(payload)
	buf := make([]byte, 0, n+Overhead)
	buf = append(buf, byte(n), byte(n>>8))
	buf = append(buf, payload...)
	buf = append(buf, Trailer(payload))
	return buf, nil
}

// Decode parses a block produced by Encode and validates its checksum.
// The returned payload aliases data.
func Decode(data []byte) ([]byte, error) {
	if len(data) < Overhead {
		return nil, ErrTruncated
	}

	n := int(data[0]) | int(data[1])<<8
	if len(data) < n+Overhead {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n+Overhead, len(data))
	}

	payload := data[HeaderLength : HeaderLength+n]
	if !Valid(Sum(payload), data[HeaderLength+n]) {
		return nil, ErrChecksum
	}
	return payload, nil
}
