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

// Package parport drives the link through the Linux ppdev interface, the
// user space access to a parallel port at /dev/parportN.
package parport

import (
	"errors"
	"fmt"
	"sync"

	pofo "github.com/ZaparooProject/go-pofo"
)

// DefaultDevice is the first parallel port
const DefaultDevice = "/dev/parport0"

// ppdev ioctl requests, from linux/ppdev.h
const (
	ppClaim   = 0x708B     // _IO('p', 0x8b)
	ppRelease = 0x708C     // _IO('p', 0x8c)
	ppRStatus = 0x80017081 // _IOR('p', 0x81, unsigned char)
	ppWData   = 0x40017086 // _IOW('p', 0x86, unsigned char)
)

// ErrUnsupportedPlatform is returned where ppdev does not exist
var ErrUnsupportedPlatform = errors.New("parallel port access requires Linux ppdev")

// Port is a claimed parallel port
type Port struct {
	path   string
	fd     int
	mu     sync.Mutex
	closed bool
}

// New opens and claims the ppdev device at path
func New(path string) (*Port, error) {
	if path == "" {
		path = DefaultDevice
	}
	fd, err := openClaimed(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parallel port %s: %w", path, err)
	}
	return &Port{path: path, fd: fd}, nil
}

// ReadStatus reads the status register
func (p *Port) ReadStatus() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, pofo.ErrPortClosed
	}
	return readStatus(p.fd)
}

// WriteData writes the data register
func (p *Port) WriteData(b byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return pofo.ErrPortClosed
	}
	return writeData(p.fd, b)
}

// Close releases and closes the port. Closing twice is a no-op.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return release(p.fd)
}

// Name returns the device path
func (p *Port) Name() string {
	return p.path
}

// HasCapability implements pofo.PortCapabilityChecker
func (*Port) HasCapability(capability pofo.PortCapability) bool {
	return capability == pofo.CapabilityHardwareLines
}

var (
	_ pofo.Port                  = (*Port)(nil)
	_ pofo.PortCapabilityChecker = (*Port)(nil)
)
