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

	"github.com/ZaparooProject/go-pofo/internal/frame"
)

// Synchronize waits for the device to enter server mode. The clock is left
// high and bytes are read until the sync byte arrives; every other value
// means the two ends disagree on where a byte starts, so one clock cycle is
// spent without reading to shift the host by two bits.
//
// There is no timeout: the loop waits for someone to start the transfer
// server on the device. Cancel ctx or set WithEdgeTimeout to bound it.
func (c *Channel) Synchronize(ctx context.Context) error {
	if err := c.write(ClockBit); err != nil {
		return err
	}
	if err := c.waitClock(ctx, true); err != nil {
		return err
	}

	b, err := c.ReceiveByte(ctx)
	if err != nil {
		return err
	}

	for slips := 0; b != frame.Sync; slips++ {
		debugEvent().Int("slips", slips).Uint8("received", b).Msg("handshake out of step")

		if err := c.waitClock(ctx, false); err != nil {
			return err
		}
		if err := c.write(0); err != nil {
			return err
		}
		if err := c.waitClock(ctx, true); err != nil {
			return err
		}
		if err := c.write(ClockBit); err != nil {
			return err
		}

		if b, err = c.ReceiveByte(ctx); err != nil {
			return err
		}
	}

	debugln("device in server mode")
	return nil
}
