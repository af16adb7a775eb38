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

package testing

import (
	"context"
	"sync"
)

// ByteLink is the byte-level link the virtual device speaks over
type ByteLink interface {
	SendByte(ctx context.Context, b byte) error
	ReceiveByte(ctx context.Context) (byte, error)
}

// PipeEnd is one end of an unbuffered byte pipe. Every send blocks until the
// other end receives, like the handshaked hardware link.
type PipeEnd struct {
	in   <-chan byte
	out  chan<- byte
	sent []byte
	mu   sync.Mutex
}

// NewPipe returns the host and device ends of a byte pipe
func NewPipe() (host, device *PipeEnd) {
	toDevice := make(chan byte)
	toHost := make(chan byte)
	host = &PipeEnd{in: toHost, out: toDevice}
	device = &PipeEnd{in: toDevice, out: toHost}
	return host, device
}

// SendByte sends one byte to the other end
func (p *PipeEnd) SendByte(ctx context.Context, b byte) error {
	select {
	case p.out <- b:
		p.mu.Lock()
		p.sent = append(p.sent, b)
		p.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReceiveByte receives one byte from the other end
func (p *PipeEnd) ReceiveByte(ctx context.Context) (byte, error) {
	select {
	case b := <-p.in:
		return b, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Sent returns a copy of every byte sent from this end
func (p *PipeEnd) Sent() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.sent...)
}
