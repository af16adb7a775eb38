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

// Package modem drives the link through the modem control lines of a serial
// adapter: RTS and DTR are the outputs, CTS and DSR the inputs. Any USB
// serial adapter exposing the four lines works, with level shifting to the
// device's 5V logic.
package modem

import (
	"fmt"
	"sync"

	pofo "github.com/ZaparooProject/go-pofo"
	"go.bug.st/serial"
)

// lines is the part of a serial port this backend uses
type lines interface {
	SetRTS(rts bool) error
	SetDTR(dtr bool) error
	GetModemStatusBits() (*serial.ModemStatusBits, error)
	Close() error
}

// Port maps the clock line to RTS/CTS and the data line to DTR/DSR
type Port struct {
	port   lines
	name   string
	mu     sync.Mutex
	closed bool
	// last written value; lines are only touched when they change
	last byte
}

// New opens the serial device at path. The baud rate is irrelevant since no
// data is transmitted.
func New(path string) (*Port, error) {
	sp, err := serial.Open(path, &serial.Mode{BaudRate: 9600})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}
	p, err := newPort(path, sp)
	if err != nil {
		_ = sp.Close()
		return nil, err
	}
	return p, nil
}

func newPort(name string, l lines) (*Port, error) {
	p := &Port{port: l, name: name}
	if err := p.port.SetDTR(false); err != nil {
		return nil, fmt.Errorf("failed to set DTR: %w", err)
	}
	if err := p.port.SetRTS(true); err != nil {
		return nil, fmt.Errorf("failed to set RTS: %w", err)
	}
	p.last = pofo.ClockBit
	return p, nil
}

// ReadStatus samples CTS and DSR
func (p *Port) ReadStatus() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, pofo.ErrPortClosed
	}

	bits, err := p.port.GetModemStatusBits()
	if err != nil {
		return 0, fmt.Errorf("failed to read modem status: %w", err)
	}
	var status byte
	if bits.CTS {
		status |= pofo.StatusClock
	}
	if bits.DSR {
		status |= pofo.StatusData
	}
	return status, nil
}

// WriteData sets DTR from the data bit and RTS from the clock bit
func (p *Port) WriteData(b byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return pofo.ErrPortClosed
	}

	b &= pofo.ClockBit | pofo.DataBit
	changed := b ^ p.last
	if changed&pofo.DataBit != 0 {
		if err := p.port.SetDTR(b&pofo.DataBit != 0); err != nil {
			return fmt.Errorf("failed to set DTR: %w", err)
		}
	}
	if changed&pofo.ClockBit != 0 {
		if err := p.port.SetRTS(b&pofo.ClockBit != 0); err != nil {
			return fmt.Errorf("failed to set RTS: %w", err)
		}
	}
	p.last = b
	return nil
}

// Close drops both outputs and closes the serial port. Closing twice is a
// no-op.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	_ = p.port.SetDTR(false)
	_ = p.port.SetRTS(false)
	if err := p.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", p.name, err)
	}
	return nil
}

// Name returns the serial device path
func (p *Port) Name() string {
	return p.name
}

// HasCapability implements pofo.PortCapabilityChecker
func (*Port) HasCapability(capability pofo.PortCapability) bool {
	return capability == pofo.CapabilityHardwareLines
}

var (
	_ pofo.Port                  = (*Port)(nil)
	_ pofo.PortCapabilityChecker = (*Port)(nil)
	_ lines                      = serial.Port(nil)
)
