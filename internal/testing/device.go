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
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/ZaparooProject/go-pofo/internal/frame"
)

// Device request opcodes and reply codes
const (
	OpCancel    = 0x00
	OpOpenRead  = 0x02
	OpOpenWrite = 0x03
	OpOverwrite = 0x05
	OpList      = 0x06
	OpClose     = 0x20

	ReplyReady       = 0x00
	ReplyInvalidDest = 0x10
	ReplyExists      = 0x20
	ReplySuccess     = 0x20
)

// DefaultDir is the directory of device paths without a drive or directory
const DefaultDir = `C:\`

// ErrUnexpectedByte is returned by the virtual device when the host breaks
// the block protocol
var ErrUnexpectedByte = errors.New("unexpected byte from host")

// Request is one control block received by the virtual device
type Request struct {
	Path   string
	Length int64
	Op     byte
}

// Device is a virtual remote device running the file transfer server. It
// keeps files in memory, keyed by upper case device path.
type Device struct {
	files map[string][]byte
	// RejectPath makes open-for-write reply "invalid destination"
	RejectPath func(path string) bool
	requests   []Request
	// BlockSize is announced to the host for incoming files
	BlockSize int
	// ReadBlockSize is the chunk size used when sending files to the host
	ReadBlockSize int
	blocks        int
	mu            sync.Mutex
	// FinalStatus ends every incoming file; anything but ReplySuccess
	// reports a failed write
	FinalStatus byte
}

// NewDevice creates a virtual device with the firmware's default sizes
func NewDevice() *Device {
	return &Device{
		files:         make(map[string][]byte),
		BlockSize:     0x7000,
		ReadBlockSize: 0x7000,
		FinalStatus:   ReplySuccess,
	}
}

// AddFile stores a file on the device
func (d *Device) AddFile(name string, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[normalize(name)] = append([]byte(nil), data...)
}

// File returns the content of a device file
func (d *Device) File(name string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.files[normalize(name)]
	return data, ok
}

// Requests returns the control blocks received so far
func (d *Device) Requests() []Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Request(nil), d.requests...)
}

// PayloadBlocks returns the number of payload blocks received from the host
func (d *Device) PayloadBlocks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.blocks
}

// SendSync announces server mode the way the device does after it is
// started: a single ready byte.
func (*Device) SendSync(ctx context.Context, link ByteLink) error {
	return link.SendByte(ctx, frame.Sync)
}

// Serve answers control blocks until ctx is done or the host breaks the
// protocol
func (d *Device) Serve(ctx context.Context, link ByteLink) error {
	for {
		req, err := ReceiveBlock(ctx, link)
		if err != nil {
			return err
		}
		if len(req) == 0 {
			return fmt.Errorf("%w: empty control block", ErrUnexpectedByte)
		}

		switch req[0] {
		case OpOpenWrite:
			err = d.handleWrite(ctx, link, req)
		case OpList:
			err = d.handleList(ctx, link, req)
		case OpOpenRead:
			err = d.handleRead(ctx, link, req)
		default:
			err = fmt.Errorf("%w: opcode %#02x", ErrUnexpectedByte, req[0])
		}
		if err != nil {
			return err
		}
	}
}

func (d *Device) record(req Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
}

func (d *Device) handleWrite(ctx context.Context, link ByteLink, req []byte) error {
	if len(req) < 11 {
		return fmt.Errorf("%w: short open-for-write", ErrUnexpectedByte)
	}
	length := int64(req[7]) | int64(req[8])<<8 | int64(req[9])<<16
	name := cString(req[11:])
	d.record(Request{Op: OpOpenWrite, Path: name, Length: length})

	if d.RejectPath != nil && d.RejectPath(name) {
		return SendBlock(ctx, link, []byte{ReplyInvalidDest})
	}

	reply := []byte{ReplyReady, byte(d.BlockSize), byte(d.BlockSize >> 8)}
	if _, exists := d.File(name); exists {
		reply[0] = ReplyExists
		if err := SendBlock(ctx, link, reply); err != nil {
			return err
		}
		answer, err := ReceiveBlock(ctx, link)
		if err != nil {
			return err
		}
		if len(answer) == 0 {
			return fmt.Errorf("%w: empty overwrite answer", ErrUnexpectedByte)
		}
		d.record(Request{Op: answer[0], Path: name})
		switch answer[0] {
		case OpCancel:
			return nil
		case OpOverwrite:
		default:
			return fmt.Errorf("%w: overwrite answer %#02x", ErrUnexpectedByte, answer[0])
		}
	} else if err := SendBlock(ctx, link, reply); err != nil {
		return err
	}

	data := make([]byte, 0, length)
	for int64(len(data)) < length {
		block, err := ReceiveBlock(ctx, link)
		if err != nil {
			return err
		}
		d.mu.Lock()
		d.blocks++
		d.mu.Unlock()
		data = append(data, block...)
	}

	if d.FinalStatus == ReplySuccess {
		d.AddFile(name, data)
	}
	return SendBlock(ctx, link, []byte{d.FinalStatus})
}

func (d *Device) handleList(ctx context.Context, link ByteLink, req []byte) error {
	pattern := cString(req[3:])
	d.record(Request{Op: OpList, Path: pattern})

	names := d.match(pattern)
	reply := []byte{byte(len(names)), byte(len(names) >> 8)}
	for _, name := range names {
		reply = append(reply, name...)
		reply = append(reply, 0)
	}
	return SendBlock(ctx, link, reply)
}

func (d *Device) handleRead(ctx context.Context, link ByteLink, req []byte) error {
	name := cString(req[3:])
	d.record(Request{Op: OpOpenRead, Path: name})

	data, ok := d.File(name)
	if !ok {
		return SendBlock(ctx, link, []byte{ReplyReady})
	}

	reply := make([]byte, 10)
	reply[0] = ReplySuccess
	reply[7] = byte(len(data))
	reply[8] = byte(len(data) >> 8)
	reply[9] = byte(len(data) >> 16)
	if err := SendBlock(ctx, link, reply); err != nil {
		return err
	}

	for rest := data; len(rest) > 0; {
		n := min(len(rest), d.ReadBlockSize)
		if err := SendBlock(ctx, link, rest[:n]); err != nil {
			return err
		}
		rest = rest[n:]
	}

	closing, err := ReceiveBlock(ctx, link)
	if err != nil {
		return err
	}
	if len(closing) == 0 || closing[0] != OpClose {
		return fmt.Errorf("%w: expected close block", ErrUnexpectedByte)
	}
	d.record(Request{Op: OpClose, Path: name})
	return nil
}

// match returns the base names of files matching a DOS wildcard pattern
func (d *Device) match(pattern string) []string {
	dir, glob := splitDevicePath(normalize(pattern))
	if glob == "*.*" {
		glob = "*"
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	var names []string
	for name := range d.files {
		fileDir, base := splitDevicePath(name)
		if fileDir != dir {
			continue
		}
		if ok, _ := path.Match(glob, base); ok {
			names = append(names, base)
		}
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	name = strings.ToUpper(name)
	if !strings.ContainsAny(name, `:\`) {
		name = DefaultDir + name
	}
	return name
}

func splitDevicePath(name string) (dir, base string) {
	i := strings.LastIndexAny(name, `:\`)
	return name[:i+1], name[i+1:]
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// ReceiveBlock runs the device side of a host-to-device block
func ReceiveBlock(ctx context.Context, link ByteLink) ([]byte, error) {
	if err := link.SendByte(ctx, frame.Ready); err != nil {
		return nil, err
	}
	marker, err := link.ReceiveByte(ctx)
	if err != nil {
		return nil, err
	}
	if marker != frame.Marker {
		return nil, fmt.Errorf("%w: marker %#02x", ErrUnexpectedByte, marker)
	}

	head := make([]byte, frame.HeaderLength)
	for i := range head {
		if head[i], err = link.ReceiveByte(ctx); err != nil {
			return nil, err
		}
	}
	payload := make([]byte, int(head[0])|int(head[1])<<8)
	for i := range payload {
		if payload[i], err = link.ReceiveByte(ctx); err != nil {
			return nil, err
		}
	}
	trailer, err := link.ReceiveByte(ctx)
	if err != nil {
		return nil, err
	}

	sum := frame.Sum(payload)
	if !frame.Valid(sum, trailer) {
		return nil, fmt.Errorf("%w: checksum %#02x", ErrUnexpectedByte, trailer)
	}
	if err := link.SendByte(ctx, frame.Ack(sum)); err != nil {
		return nil, err
	}
	return payload, nil
}

// SendBlock runs the device side of a device-to-host block
func SendBlock(ctx context.Context, link ByteLink, payload []byte) error {
	ready, err := link.ReceiveByte(ctx)
	if err != nil {
		return err
	}
	if ready != frame.Ready {
		return fmt.Errorf("%w: ready %#02x", ErrUnexpectedByte, ready)
	}

	wire, err := frame.Encode(payload)
	if err != nil {
		return err
	}
	if err := link.SendByte(ctx, frame.Marker); err != nil {
		return err
	}
	for _, b := range wire {
		if err := link.SendByte(ctx, b); err != nil {
			return err
		}
	}

	ack, err := link.ReceiveByte(ctx)
	if err != nil {
		return err
	}
	if ack != frame.Trailer(payload) {
		return fmt.Errorf("%w: acknowledge %#02x", ErrUnexpectedByte, ack)
	}
	return nil
}
