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
	"os"
	"path/filepath"
	"testing"
	"time"

	testutil "github.com/ZaparooProject/go-pofo/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deviceFixture runs a virtual device over a byte pipe
type deviceFixture struct {
	device  *testutil.Device
	session *Session
	errCh   chan error
	cancel  context.CancelFunc
}

func newDeviceFixture(t *testing.T, setup func(*testutil.Device), opts ...Option) *deviceFixture {
	t.Helper()

	device := testutil.NewDevice()
	if setup != nil {
		setup(device)
	}

	host, remote := testutil.NewPipe()
	opts = append([]Option{WithTiming(Timing{})}, opts...)
	session, err := NewSession(host, opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	f := &deviceFixture{
		device:  device,
		session: session,
		errCh:   make(chan error, 1),
		cancel:  cancel,
	}
	go func() {
		f.errCh <- device.Serve(ctx, remote)
	}()
	return f
}

// stop ends the device and waits for it, so its state can be inspected
func (f *deviceFixture) stop(t *testing.T) {
	t.Helper()
	f.cancel()
	err := <-f.errCh
	require.ErrorIs(t, err, context.Canceled, "device ended with an unexpected error")
}

// requestOps returns the opcodes the device received, in order
func (f *deviceFixture) requestOps() []byte {
	var ops []byte
	for _, req := range f.device.Requests() {
		ops = append(ops, req.Op)
	}
	return ops
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestNewSession_Options(t *testing.T) {
	t.Parallel()

	host, _ := testutil.NewPipe()

	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{name: "Defaults"},
		{name: "Force", opts: []Option{WithForce(true)}},
		{name: "Negative_Delay", opts: []Option{WithTiming(Timing{BlockDelay: -1})}, wantErr: true},
		{name: "Nil_File_System", opts: []Option{WithFileSystem(nil)}, wantErr: true},
		{name: "Zero_Max_File_Size", opts: []Option{WithMaxFileSize(0)}, wantErr: true},
		{name: "Max_File_Size_Over_Length_Field", opts: []Option{WithMaxFileSize(MaxFileLength + 1)}, wantErr: true},
		{name: "Zero_Payload_Buffer", opts: []Option{WithPayloadBufferSize(0)}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			session, err := NewSession(host, tt.opts...)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Len(t, session.payload, DefaultPayloadBufferSize)
			assert.Len(t, session.control, 100)
			assert.Len(t, session.listing, 2000)
			require.NoError(t, session.Close())
		})
	}

	_, err := NewSession(nil)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, int64(0xFFFFFF), cfg.MaxFileSize)
	assert.Equal(t, 60000, cfg.PayloadBufferSize)
	assert.Equal(t, 50*time.Microsecond, cfg.Timing.ByteDelay)
	assert.Equal(t, 50*time.Millisecond, cfg.Timing.BlockDelay)
	assert.Equal(t, 100*time.Microsecond, cfg.Timing.AckDelay)
	assert.False(t, cfg.Force)
}

func TestConnect_OverWire(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	wire := testutil.NewWire()
	hostEnd := wire.Host()
	device := testutil.NewDevice()
	device.BlockSize = 8
	device.AddFile(`C:\NOTES.TXT`, []byte("remote"))

	devCtx, devCancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		ch := NewChannel(wire.Device())
		if err := device.SendSync(devCtx, ch); err != nil {
			done <- err
			return
		}
		done <- device.Serve(devCtx, ch)
	}()

	dir := t.TempDir()
	source := writeFile(t, dir, "hello.txt", []byte("hello, portfolio"))

	session, err := Connect(ctx, hostEnd, WithTiming(Timing{ByteDelay: DefaultByteDelay}))
	require.NoError(t, err)

	report, err := session.Send(ctx, []string{source}, `C:\`)
	require.NoError(t, err)
	require.Len(t, report.Jobs, 1)
	assert.Equal(t, OutcomeTransferred, report.Jobs[0].Outcome)
	assert.Equal(t, 2, report.Jobs[0].Blocks)

	names, err := session.List(ctx, `C:\*.*`)
	require.NoError(t, err)
	assert.Equal(t, []string{"HELLO.TXT", "NOTES.TXT"}, names)

	require.NoError(t, session.Close())
	assert.True(t, hostEnd.Closed())
	require.NoError(t, session.Close(), "second close is a no-op")

	devCancel()
	require.ErrorIs(t, <-done, context.Canceled)

	data, ok := device.File(`C:\HELLO.TXT`)
	require.True(t, ok)
	assert.Equal(t, []byte("hello, portfolio"), data)
}

func TestConnect_NilPort(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestConnect_HandshakeTimeout(t *testing.T) {
	t.Parallel()

	wire := testutil.NewWire()
	hostEnd := wire.Host()
	_, err := Connect(context.Background(), hostEnd,
		WithChannelOptions(WithEdgeTimeout(20*time.Millisecond)))
	require.ErrorIs(t, err, ErrEdgeTimeout)
	require.ErrorIs(t, err, ErrSynchronization)
	assert.False(t, hostEnd.Closed(), "caller keeps the port when Connect fails")
}

func TestBlockCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		total     int64
		blockSize int64
		want      int
	}{
		{name: "Empty", total: 0, blockSize: 16, want: 0},
		{name: "Exact", total: 32, blockSize: 16, want: 2},
		{name: "Partial_Last", total: 33, blockSize: 16, want: 3},
		{name: "Smaller_Than_Block", total: 5, blockSize: 0x7000, want: 1},
		{name: "Zero_Block_Size", total: 5, blockSize: 0, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, blockCount(tt.total, tt.blockSize))
		})
	}
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "transferred", OutcomeTransferred.String())
	assert.Equal(t, "skipped: destination exists", OutcomeSkippedExists.String())
	assert.Equal(t, "Outcome(42)", Outcome(42).String())

	report := &Report{Jobs: []JobResult{
		{Outcome: OutcomeTransferred},
		{Outcome: OutcomeSkippedDirectory},
		{Outcome: OutcomeTransferred},
	}}
	assert.Equal(t, 2, report.Count(OutcomeTransferred))
	assert.Equal(t, 0, report.Count(OutcomeFailed))
}
