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

package gpio

import (
	"testing"

	pofo "github.com/ZaparooProject/go-pofo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type testPins struct {
	clockOut, dataOut, clockIn, dataIn *gpiotest.Pin
}

func newTestPort(t *testing.T) (*Port, testPins) {
	t.Helper()

	pins := testPins{
		clockOut: &gpiotest.Pin{N: "GPIO4"},
		dataOut:  &gpiotest.Pin{N: "GPIO17"},
		clockIn:  &gpiotest.Pin{N: "GPIO27"},
		dataIn:   &gpiotest.Pin{N: "GPIO22"},
	}
	p, err := newPort(DefaultPins().String(), pins.clockOut, pins.dataOut, pins.clockIn, pins.dataIn)
	require.NoError(t, err)
	return p, pins
}

func TestPort_IdlesWithClockHigh(t *testing.T) {
	t.Parallel()

	p, pins := newTestPort(t)
	assert.Equal(t, gpio.High, pins.clockOut.Read())
	assert.Equal(t, gpio.Low, pins.dataOut.Read())
	assert.Equal(t, "gpio:GPIO4,GPIO17,GPIO27,GPIO22", p.Name())
}

func TestPort_WriteData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     byte
		wantClock gpio.Level
		wantData  gpio.Level
	}{
		{name: "Both_Low", value: 0x00, wantClock: gpio.Low, wantData: gpio.Low},
		{name: "Data_Only", value: pofo.DataBit, wantClock: gpio.Low, wantData: gpio.High},
		{name: "Clock_Only", value: pofo.ClockBit, wantClock: gpio.High, wantData: gpio.Low},
		{name: "Other_Bits_Ignored", value: 0xFC, wantClock: gpio.Low, wantData: gpio.Low},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, pins := newTestPort(t)
			require.NoError(t, p.WriteData(tt.value))
			assert.Equal(t, tt.wantClock, pins.clockOut.Read())
			assert.Equal(t, tt.wantData, pins.dataOut.Read())
		})
	}
}

func TestPort_ReadStatus(t *testing.T) {
	t.Parallel()

	p, pins := newTestPort(t)
	require.NoError(t, pins.clockIn.Out(gpio.High))
	require.NoError(t, pins.dataIn.Out(gpio.Low))

	status, err := p.ReadStatus()
	require.NoError(t, err)
	assert.Equal(t, byte(pofo.StatusClock), status)

	require.NoError(t, pins.dataIn.Out(gpio.High))
	status, err = p.ReadStatus()
	require.NoError(t, err)
	assert.Equal(t, byte(pofo.StatusClock|pofo.StatusData), status)
}

func TestPort_Close(t *testing.T) {
	t.Parallel()

	p, _ := newTestPort(t)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err := p.ReadStatus()
	require.ErrorIs(t, err, pofo.ErrPortClosed)
	require.ErrorIs(t, p.WriteData(0), pofo.ErrPortClosed)
}
