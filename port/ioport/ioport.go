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

// Package ioport drives the link by accessing the parallel port registers
// directly through /dev/port. It needs root but no parport kernel driver.
package ioport

import (
	"errors"
	"fmt"
	"sync"

	pofo "github.com/ZaparooProject/go-pofo"
)

const (
	// DefaultDevice exposes the I/O port space
	DefaultDevice = "/dev/port"

	// DefaultBase is the usual address of LPT1
	DefaultBase = 0x378

	statusOffset = 1
)

// ErrUnsupportedPlatform is returned where /dev/port does not exist
var ErrUnsupportedPlatform = errors.New("direct port access requires Linux /dev/port")

// Port accesses the data register at a base address and the status
// register right after it
type Port struct {
	path   string
	base   int64
	fd     int
	mu     sync.Mutex
	closed bool
}

// New opens the I/O port space file at path for the port at base
func New(path string, base int64) (*Port, error) {
	if path == "" {
		path = DefaultDevice
	}
	if base <= 0 {
		base = DefaultBase
	}
	fd, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &Port{path: path, base: base, fd: fd}, nil
}

// ReadStatus reads the status register at base+1
func (p *Port) ReadStatus() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, pofo.ErrPortClosed
	}
	return readAt(p.fd, p.base+statusOffset)
}

// WriteData writes the data register at base
func (p *Port) WriteData(b byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return pofo.ErrPortClosed
	}
	return writeAt(p.fd, p.base, b)
}

// Close closes the I/O port space file. Closing twice is a no-op.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return closeFD(p.fd)
}

// Name identifies the port by its base address
func (p *Port) Name() string {
	return fmt.Sprintf("%s@%#x", p.path, p.base)
}

// HasCapability implements pofo.PortCapabilityChecker
func (*Port) HasCapability(capability pofo.PortCapability) bool {
	switch capability {
	case pofo.CapabilityRequiresRoot, pofo.CapabilityHardwareLines:
		return true
	default:
		return false
	}
}

var (
	_ pofo.Port                  = (*Port)(nil)
	_ pofo.PortCapabilityChecker = (*Port)(nil)
)
