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

// Package gpio drives the link by bit-banging four GPIO pins, for example on
// a Raspberry Pi wired to the device's parallel interface through a level
// shifter.
package gpio

import (
	"fmt"
	"strings"
	"sync"

	pofo "github.com/ZaparooProject/go-pofo"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Pins names the four GPIO lines
type Pins struct {
	ClockOut string
	DataOut  string
	ClockIn  string
	DataIn   string
}

// DefaultPins returns BCM GPIO4, 17, 27 and 22 (header pins 7, 11, 13, 15)
func DefaultPins() Pins {
	return Pins{
		ClockOut: "GPIO4",
		DataOut:  "GPIO17",
		ClockIn:  "GPIO27",
		DataIn:   "GPIO22",
	}
}

// String lists the pins in clock-out, data-out, clock-in, data-in order
func (p Pins) String() string {
	return strings.Join([]string{p.ClockOut, p.DataOut, p.ClockIn, p.DataIn}, ",")
}

// Port drives two output pins and samples two input pins
type Port struct {
	clockOut gpio.PinIO
	dataOut  gpio.PinIO
	clockIn  gpio.PinIO
	dataIn   gpio.PinIO
	name     string
	mu       sync.Mutex
	closed   bool
}

// New initializes the periph host drivers and opens the pins
func New(pins Pins) (*Port, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	var opened [4]gpio.PinIO
	for i, name := range []string{pins.ClockOut, pins.DataOut, pins.ClockIn, pins.DataIn} {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("failed to find GPIO pin %q", name)
		}
		opened[i] = pin
	}
	return newPort(pins.String(), opened[0], opened[1], opened[2], opened[3])
}

func newPort(name string, clockOut, dataOut, clockIn, dataIn gpio.PinIO) (*Port, error) {
	for _, in := range []gpio.PinIO{clockIn, dataIn} {
		if err := in.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("failed to configure input %s: %w", in.Name(), err)
		}
	}

	p := &Port{
		clockOut: clockOut,
		dataOut:  dataOut,
		clockIn:  clockIn,
		dataIn:   dataIn,
		name:     "gpio:" + name,
	}
	// Idle with the clock high
	if err := p.WriteData(pofo.ClockBit); err != nil {
		return nil, err
	}
	return p, nil
}

// ReadStatus samples the input pins
func (p *Port) ReadStatus() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, pofo.ErrPortClosed
	}

	var status byte
	if p.clockIn.Read() == gpio.High {
		status |= pofo.StatusClock
	}
	if p.dataIn.Read() == gpio.High {
		status |= pofo.StatusData
	}
	return status, nil
}

// WriteData drives the output pins
func (p *Port) WriteData(b byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return pofo.ErrPortClosed
	}

	if err := p.dataOut.Out(gpio.Level(b&pofo.DataBit != 0)); err != nil {
		return fmt.Errorf("failed to drive %s: %w", p.dataOut.Name(), err)
	}
	if err := p.clockOut.Out(gpio.Level(b&pofo.ClockBit != 0)); err != nil {
		return fmt.Errorf("failed to drive %s: %w", p.clockOut.Name(), err)
	}
	return nil
}

// Close returns the outputs to high impedance inputs. Closing twice is a
// no-op.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var firstErr error
	for _, out := range []gpio.PinIO{p.clockOut, p.dataOut} {
		if err := out.In(gpio.Float, gpio.NoEdge); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to release %s: %w", out.Name(), err)
		}
	}
	return firstErr
}

// Name lists the pins in use
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
)
