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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		// bytes the device sends before it stops being read
		device []byte
	}{
		{
			name:   "Device_In_Step",
			device: []byte{0x5A},
		},
		{
			// 00000000 00|010110 10|000000: one two-bit slip lands on 0x5A
			name:   "Two_Bit_Slip",
			device: []byte{0x00, 0x16, 0x80},
		},
		{
			// 0x5A four bits into the third byte needs two slips
			name:   "Four_Bit_Slip",
			device: []byte{0xFF, 0x00, 0x05, 0xA0},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			host, device := wirePair()

			devCtx, devCancel := context.WithCancel(ctx)
			done := make(chan struct{})
			go func() {
				defer close(done)
				for _, b := range tt.device {
					// The last byte is only partly read by the host
					if device.SendByte(devCtx, b) != nil {
						return
					}
				}
			}()

			err := host.Synchronize(ctx)
			devCancel()
			<-done
			require.NoError(t, err)
		})
	}
}

func TestSynchronize_ThenExchange(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	host, device := wirePair()

	errCh := make(chan error, 1)
	go func() {
		if err := device.SendByte(ctx, 0x5A); err != nil {
			errCh <- err
			return
		}
		errCh <- device.SendByte(ctx, 0x33)
	}()

	require.NoError(t, host.Synchronize(ctx))
	b, err := host.ReceiveByte(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte(0x33), b)
	require.NoError(t, <-errCh)
}
