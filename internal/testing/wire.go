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

// Package testing provides doubles for the hardware link and the remote
// device: a two-ended wire carrying the clock and data lines, a byte-level
// pipe, and a virtual device running the transfer server.
package testing

import (
	"errors"
	"runtime"
	"sync"

	"github.com/ZaparooProject/go-pofo/internal/frame"
)

// ErrWireClosed is returned by operations on a closed wire end
var ErrWireClosed = errors.New("wire closed")

// Wire connects two port ends. Each end drives its own clock and data lines
// and reads those of the other end through its status register.
type Wire struct {
	lines  [2]byte
	writes [2]int
	closed [2]bool
	mu     sync.Mutex
}

// NewWire creates a wire with both clocks idling high
func NewWire() *Wire {
	return &Wire{
		lines: [2]byte{frame.ClockBit, frame.ClockBit},
	}
}

// Host returns the host end of the wire
func (w *Wire) Host() *WireEnd {
	return &WireEnd{wire: w, side: 0, name: "wire:host"}
}

// Device returns the device end of the wire
func (w *Wire) Device() *WireEnd {
	return &WireEnd{wire: w, side: 1, name: "wire:device"}
}

// WireEnd is one end of a Wire. It has the method set of a port.
type WireEnd struct {
	wire *Wire
	name string
	side int
}

// ReadStatus returns the peer's lines as status bits
func (e *WireEnd) ReadStatus() (byte, error) {
	// Both ends busy-poll; yield so the peer gets to run on a single CPU.
	runtime.Gosched()

	e.wire.mu.Lock()
	defer e.wire.mu.Unlock()
	if e.wire.closed[e.side] {
		return 0, ErrWireClosed
	}

	peer := e.wire.lines[1-e.side]
	var status byte
	if peer&frame.ClockBit != 0 {
		status |= frame.StatusClock
	}
	if peer&frame.DataBit != 0 {
		status |= frame.StatusData
	}
	return status, nil
}

// WriteData drives this end's lines
func (e *WireEnd) WriteData(b byte) error {
	e.wire.mu.Lock()
	defer e.wire.mu.Unlock()
	if e.wire.closed[e.side] {
		return ErrWireClosed
	}
	e.wire.lines[e.side] = b & (frame.ClockBit | frame.DataBit)
	e.wire.writes[e.side]++
	return nil
}

// Close closes this end
func (e *WireEnd) Close() error {
	e.wire.mu.Lock()
	defer e.wire.mu.Unlock()
	e.wire.closed[e.side] = true
	return nil
}

// Name identifies the end
func (e *WireEnd) Name() string {
	return e.name
}

// Closed reports whether Close was called on this end
func (e *WireEnd) Closed() bool {
	e.wire.mu.Lock()
	defer e.wire.mu.Unlock()
	return e.wire.closed[e.side]
}

// Writes returns the number of WriteData calls made on this end
func (e *WireEnd) Writes() int {
	e.wire.mu.Lock()
	defer e.wire.mu.Unlock()
	return e.wire.writes[e.side]
}
