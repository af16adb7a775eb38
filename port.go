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

import "github.com/ZaparooProject/go-pofo/internal/frame"

// Port is the hardware side of the link: one read-side status register
// carrying the peer's clock and data lines, and one write-side data register
// driving ours. Backends live under port/.
type Port interface {
	// ReadStatus returns the status register. StatusClock and StatusData
	// select the peer's lines.
	ReadStatus() (byte, error)

	// WriteData drives the outgoing lines. DataBit is the data line and
	// ClockBit is the clock line; other bits are ignored.
	WriteData(b byte) error

	// Close releases the port
	Close() error

	// Name identifies the port in diagnostics
	Name() string
}

// Line masks shared by all port backends
const (
	StatusClock = frame.StatusClock
	StatusData  = frame.StatusData
	DataBit     = frame.DataBit
	ClockBit    = frame.ClockBit
)

// PortCapability describes a property of a port backend
type PortCapability string

const (
	// CapabilityRequiresRoot indicates the backend needs elevated privileges
	CapabilityRequiresRoot PortCapability = "requires_root"

	// CapabilityHardwareLines indicates the lines are real hardware signals
	// rather than a simulation
	CapabilityHardwareLines PortCapability = "hardware_lines"
)

// PortCapabilityChecker is implemented by ports that report capabilities
type PortCapabilityChecker interface {
	HasCapability(capability PortCapability) bool
}

// HasCapability reports whether port declares the capability
func HasCapability(port Port, capability PortCapability) bool {
	if checker, ok := port.(PortCapabilityChecker); ok {
		return checker.HasCapability(capability)
	}
	return false
}
