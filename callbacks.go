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

// Operation names reported in Progress
const (
	OpSend    = "send"
	OpReceive = "receive"
	OpList    = "list"
)

// Progress describes the state of the current transfer job. It is reported
// when a job starts and after every payload block.
type Progress struct {
	// Op is OpSend, OpReceive or OpList
	Op string

	// Source and Dest name the job's two ends
	Source string
	Dest   string

	// File is the 1-based number of the job within the run. Files is the
	// number of jobs when known, zero otherwise.
	File  int
	Files int

	// Block is the number of payload blocks moved so far and Blocks the
	// number expected
	Block  int
	Blocks int

	// Bytes is the number of payload bytes moved so far and Total the file
	// length
	Bytes int64
	Total int64
}

// ProgressCallback receives Progress updates. It runs on the transfer
// goroutine between blocks and should return quickly.
type ProgressCallback func(Progress)
