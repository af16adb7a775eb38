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

import (
	"context"
	"fmt"
	"time"
)

// Link moves single bytes between host and device. Channel is the hardware
// implementation; tests substitute byte-level doubles.
type Link interface {
	SendByte(ctx context.Context, b byte) error
	ReceiveByte(ctx context.Context) (byte, error)
}

// pollCheckInterval is how many status reads pass between checks of the
// context and the edge deadline
const pollCheckInterval = 64

// DefaultByteDelay is the pause before every transmitted byte. The device
// polls the clock line from a slow loop and misses the first edge of a byte
// when this is too short.
const DefaultByteDelay = 50 * time.Microsecond

// ChannelOption configures a Channel
type ChannelOption func(*Channel)

// WithByteDelay overrides the pause before every transmitted byte
func WithByteDelay(delay time.Duration) ChannelOption {
	return func(c *Channel) {
		c.byteDelay = delay
	}
}

// WithEdgeTimeout bounds every wait for a clock edge. Zero, the default,
// waits forever.
func WithEdgeTimeout(timeout time.Duration) ChannelOption {
	return func(c *Channel) {
		c.edgeTimeout = timeout
	}
}

// Channel is the clocked two-wire serial link. Every byte is moved MSB first
// as eight bits over four clock cycles, one bit on each falling and each
// rising edge. The receiving side acknowledges every edge by mirroring it on
// its own clock line.
//
// Waiting for an edge is a busy poll of the port. Without WithEdgeTimeout and
// with a context that is never cancelled, a silent peer blocks the caller
// forever.
//
// Thread Safety: Channel is NOT thread-safe. The link is half duplex and only
// one operation may be in flight.
type Channel struct {
	port        Port
	byteDelay   time.Duration
	edgeTimeout time.Duration
}

// NewChannel creates a bit channel over port
func NewChannel(port Port, opts ...ChannelOption) *Channel {
	c := &Channel{
		port:      port,
		byteDelay: DefaultByteDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Port returns the underlying port
func (c *Channel) Port() Port {
	return c.port
}

// SendByte transmits one byte, MSB first
func (c *Channel) SendByte(ctx context.Context, b byte) error {
	if c.byteDelay > 0 {
		time.Sleep(c.byteDelay)
	}

	for i := 0; i < 4; i++ {
		bit := (b >> 7) & DataBit
		if err := c.write(bit | ClockBit); err != nil {
			return err
		}
		// Clock low
		if err := c.write(bit); err != nil {
			return err
		}
		b <<= 1
		if err := c.waitClock(ctx, false); err != nil {
			return err
		}

		bit = (b >> 7) & DataBit
		if err := c.write(bit); err != nil {
			return err
		}
		// Clock high
		if err := c.write(bit | ClockBit); err != nil {
			return err
		}
		b <<= 1
		if err := c.waitClock(ctx, true); err != nil {
			return err
		}
	}
	return nil
}

// ReceiveByte receives one byte, MSB first
func (c *Channel) ReceiveByte(ctx context.Context) (byte, error) {
	var b byte
	for i := 0; i < 4; i++ {
		if err := c.waitClock(ctx, false); err != nil {
			return 0, err
		}
		bit, err := c.readBit()
		if err != nil {
			return 0, err
		}
		b = b<<1 | bit
		if err := c.write(0); err != nil {
			return 0, err
		}

		if err := c.waitClock(ctx, true); err != nil {
			return 0, err
		}
		bit, err = c.readBit()
		if err != nil {
			return 0, err
		}
		b = b<<1 | bit
		if err := c.write(ClockBit); err != nil {
			return 0, err
		}
	}
	return b, nil
}

func (c *Channel) write(b byte) error {
	if err := c.port.WriteData(b); err != nil {
		return NewTransportError("write", c.port.Name(), fmt.Errorf("%w: %w", ErrPortWrite, err), ErrorTypeResource)
	}
	return nil
}

func (c *Channel) read() (byte, error) {
	status, err := c.port.ReadStatus()
	if err != nil {
		return 0, NewTransportError("read", c.port.Name(), fmt.Errorf("%w: %w", ErrPortRead, err), ErrorTypeResource)
	}
	return status, nil
}

func (c *Channel) readBit() (byte, error) {
	status, err := c.read()
	if err != nil {
		return 0, err
	}
	if status&StatusData != 0 {
		return 1, nil
	}
	return 0, nil
}

// waitClock polls until the peer's clock line reaches the requested level
func (c *Channel) waitClock(ctx context.Context, high bool) error {
	var deadline time.Time
	if c.edgeTimeout > 0 {
		deadline = time.Now().Add(c.edgeTimeout)
	}

	for polls := 1; ; polls++ {
		status, err := c.read()
		if err != nil {
			return err
		}
		if (status&StatusClock != 0) == high {
			return nil
		}

		if polls%pollCheckInterval != 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("waiting for clock edge: %w", err)
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return NewTransportError("waitClock", c.port.Name(), ErrEdgeTimeout, ErrorTypeTimeout)
		}
	}
}

var _ Link = (*Channel)(nil)
