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

// Sum returns the 8-bit additive sum of the two length bytes and the payload.
// This is the value the receiving side accumulates.
func Sum(payload []byte) byte {
	n := len(payload)
	sum := byte(n) + byte(n>>8)
	for _, b := range payload {
		sum += b
	}
	return sum
}

// Trailer returns the checksum byte the sending side transmits after the
// payload: zero minus every length and payload byte.
func Trailer(payload []byte) byte {
	return -Sum(payload)
}

// Valid reports whether a trailer received on the wire matches the sum
// accumulated over length and payload bytes.
func Valid(sum, trailer byte) bool {
	return byte(256-int(trailer)) == sum
}

// Ack returns the acknowledge byte the receiver echoes for an accumulated sum.
func Ack(sum byte) byte {
	return byte(256 - int(sum))
}
