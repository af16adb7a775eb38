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

	"github.com/ZaparooProject/go-pofo/internal/frame"
)

// Timing holds the fixed pauses of the protocol. They are the only defence
// against the device missing an edge; there is no retry at any layer.
type Timing struct {
	// ByteDelay precedes every transmitted byte
	ByteDelay time.Duration
	// BlockDelay separates the device's ready byte from the block marker
	BlockDelay time.Duration
	// AckDelay precedes the acknowledge byte after a received block
	AckDelay time.Duration
}

// DefaultTiming returns the timing the device firmware was tested with
func DefaultTiming() Timing {
	return Timing{
		ByteDelay:  DefaultByteDelay,
		BlockDelay: 50 * time.Millisecond,
		AckDelay:   100 * time.Microsecond,
	}
}

// Transport exchanges length-prefixed, checksummed blocks over a Link.
//
// On the wire a block is the marker 0xA5, the length as two bytes little
// endian, the payload and a trailer byte. The sender computes the trailer by
// subtracting every length and payload byte from zero; the receiver adds the
// same bytes and checks the trailer against 256 minus its sum. The receiver
// then echoes 256 minus its sum, which the sender compares with its trailer.
type Transport struct {
	link   Link
	timing Timing
}

// NewTransport creates a block transport over link
func NewTransport(link Link, timing Timing) *Transport {
	return &Transport{
		link:   link,
		timing: timing,
	}
}

// SendBlock transmits payload as one block. An empty payload is a no-op:
// the caller decides when a zero-length exchange has meaning.
func (t *Transport) SendBlock(ctx context.Context, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	if len(payload) > frame.MaxPayload {
		return fmt.Errorf("%w: %d bytes", ErrBlockTooLarge, len(payload))
	}

	b, err := t.link.ReceiveByte(ctx)
	if err != nil {
		return err
	}
	if b != frame.Ready {
		return NewProtocolError("sendBlock", fmt.Errorf("%w: received %#02x", ErrNotReady, b))
	}
	debugln("device ready for receiving")

	sleep(t.timing.BlockDelay)
	if err := t.link.SendByte(ctx, frame.Marker); err != nil {
		return err
	}

	var checksum byte
	n := len(payload)
	for _, lb := range [2]byte{byte(n), byte(n >> 8)} {
		if err := t.link.SendByte(ctx, lb); err != nil {
			return err
		}
		checksum -= lb
	}
	for _, pb := range payload {
		if err := t.link.SendByte(ctx, pb); err != nil {
			return err
		}
		checksum -= pb
	}
	if err := t.link.SendByte(ctx, checksum); err != nil {
		return err
	}

	ack, err := t.link.ReceiveByte(ctx)
	if err != nil {
		return err
	}
	if ack != checksum {
		return NewProtocolError("sendBlock",
			fmt.Errorf("%w: device acknowledged %#02x, sent %#02x", ErrChecksumMismatch, ack, checksum))
	}

	debugEvent().Int("length", n).Msg("block sent")
	return nil
}

// ReceiveBlock reads one block into buf and returns its length. A block
// longer than buf is not read: the result is zero and a capacity error that
// callers may treat as non-fatal.
func (t *Transport) ReceiveBlock(ctx context.Context, buf []byte) (int, error) {
	if err := t.link.SendByte(ctx, frame.Ready); err != nil {
		return 0, err
	}

	b, err := t.link.ReceiveByte(ctx)
	if err != nil {
		return 0, err
	}
	if b != frame.Marker {
		return 0, NewProtocolError("receiveBlock",
			fmt.Errorf("%w: received %#02x instead of %#02x", ErrAckMismatch, b, frame.Marker))
	}

	lenL, err := t.link.ReceiveByte(ctx)
	if err != nil {
		return 0, err
	}
	lenH, err := t.link.ReceiveByte(ctx)
	if err != nil {
		return 0, err
	}
	checksum := lenL + lenH
	n := int(lenH)<<8 | int(lenL)

	if n > len(buf) {
		debugEvent().Int("length", n).Int("capacity", len(buf)).Msg("receive buffer too small")
		return 0, NewCapacityError("receiveBlock",
			fmt.Errorf("%w: %d bytes instead of %d", ErrBufferTooSmall, len(buf), n))
	}

	for i := 0; i < n; i++ {
		pb, err := t.link.ReceiveByte(ctx)
		if err != nil {
			return 0, err
		}
		buf[i] = pb
		checksum += pb
	}

	trailer, err := t.link.ReceiveByte(ctx)
	if err != nil {
		return 0, err
	}
	if !frame.Valid(checksum, trailer) {
		return 0, NewProtocolError("receiveBlock",
			fmt.Errorf("%w: trailer %#02x, sum %#02x", ErrChecksumMismatch, frame.Ack(trailer), checksum))
	}

	sleep(t.timing.AckDelay)
	if err := t.link.SendByte(ctx, frame.Ack(checksum)); err != nil {
		return 0, err
	}

	debugEvent().Int("length", n).Msg("block received")
	return n, nil
}

func sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
