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

// Package frame provides wire constants and block framing helpers for the
// Portfolio file transfer protocol.
package frame

// Flow control bytes exchanged around every block
const (
	Ready  = 0x5A // 'Z', sent by the side that is ready to receive a block
	Marker = 0xA5 // precedes the length bytes of every block
	Sync   = Ready
)

// Block size limits
const (
	MaxPayload   = 0xFFFF // length is carried in two bytes
	HeaderLength = 2      // length low, length high
	Overhead     = HeaderLength + 1
)

// Parallel port line masks. Status bits are read from the peer, data bits
// are driven by this end.
const (
	StatusClock = 0x20
	StatusData  = 0x10
	DataBit     = 0x01
	ClockBit    = 0x02
)
