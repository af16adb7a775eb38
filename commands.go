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

// Control block opcodes understood by the device's transfer server
const (
	opCancel    = 0x00
	opOpenRead  = 0x02
	opOpenWrite = 0x03
	opOverwrite = 0x05
	opList      = 0x06
	opClose     = 0x20
)

// Reply codes found in byte 0 of a control reply
const (
	replyInvalidDest = 0x10
	replyExists      = 0x20
	replySuccess     = 0x20
)

// Control block layout
const (
	// MaxPathLength is the size of the device's path buffer. Longer paths are
	// cut, never rejected.
	MaxPathLength = 79

	writeLengthOffset = 7
	writePathOffset   = 11
	writeBlockSize    = writePathOffset + MaxPathLength

	readBufferOffset = 1
	readPathOffset   = 3
	readBlockSize    = readPathOffset + MaxPathLength

	replyBlockSizeOffset = 1
	replyLengthOffset    = 7

	// DeviceBufferSize is the transfer buffer size announced in read and
	// list requests
	DeviceBufferSize = 0x7000
)

// Buffer sizes owned by a Session
const (
	DefaultPayloadBufferSize = 60000
	controlBufferSize        = 100
	listingBufferSize        = 2000
)

// openWriteHeader precedes the file length in an open-for-write request
var openWriteHeader = [...]byte{opOpenWrite, 0x00, 0x70, 0x0C, 0x7A, 0x21, 0x32}

var (
	overwriteBlock = []byte{opOverwrite, 0x00, 0x70}
	cancelBlock    = []byte{opCancel, 0x00, 0x00}
	closeBlock     = []byte{opClose, 0x00, 0x03}
)

// buildOpenWrite returns the open-for-write request announcing a file of
// length bytes at path
func buildOpenWrite(length int64, path string) []byte {
	b := make([]byte, writeBlockSize)
	copy(b, openWriteHeader[:])
	putUint24(b[writeLengthOffset:], uint32(length))
	copy(b[writePathOffset:], truncatePath(path))
	return b
}

// buildList returns a list-matching request for pattern
func buildList(pattern string) []byte {
	return buildRead(opList, pattern)
}

// buildOpenRead returns an open-for-read request for path
func buildOpenRead(path string) []byte {
	return buildRead(opOpenRead, path)
}

func buildRead(op byte, path string) []byte {
	b := make([]byte, readBlockSize)
	b[0] = op
	b[readBufferOffset] = byte(DeviceBufferSize & 0xFF)
	b[readBufferOffset+1] = byte(DeviceBufferSize >> 8)
	copy(b[readPathOffset:], truncatePath(path))
	return b
}

func truncatePath(path string) string {
	if len(path) > MaxPathLength {
		return path[:MaxPathLength]
	}
	return path
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

func uint24(b []byte) int64 {
	return int64(b[0]) | int64(b[1])<<8 | int64(b[2])<<16
}

func uint16le(b []byte) int {
	return int(b[0]) | int(b[1])<<8
}
