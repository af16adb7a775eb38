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
	"errors"
	"fmt"
)

// Protocol errors. Any of these leaves host and device out of step, so the
// current run cannot continue.
var (
	ErrNotReady          = errors.New("device not ready")
	ErrAckMismatch       = errors.New("acknowledge mismatch")
	ErrChecksumMismatch  = errors.New("checksum mismatch")
	ErrInvalidDest       = errors.New("invalid destination file")
	ErrTransferFailed    = errors.New("transmission failed")
	ErrUnexpectedReply   = errors.New("unexpected reply")
	ErrRemoteNotFound    = errors.New("file not found on device")
	ErrListingCorrupted  = errors.New("directory listing corrupted")
	ErrSynchronization   = errors.New("synchronization failed")
	ErrEdgeTimeout       = errors.New("timed out waiting for clock edge")
	ErrPortClosed        = errors.New("port closed")
	ErrPortRead          = errors.New("port read failed")
	ErrPortWrite         = errors.New("port write failed")
	ErrBlockTooLarge     = errors.New("block too large")
	ErrBufferTooSmall    = errors.New("buffer too small")
	ErrLocalNotFound     = errors.New("file not found")
	ErrDestinationExists = errors.New("destination file exists")
	ErrCreateFailed      = errors.New("cannot create file")
	ErrInvalidParameter  = errors.New("invalid parameter")
)

// ErrorType classifies errors following the transfer error taxonomy
type ErrorType int

const (
	// ErrorTypeProtocol covers desynchronization, bad checksums and unknown
	// status codes. Fatal.
	ErrorTypeProtocol ErrorType = iota
	// ErrorTypeCapacity covers buffers that are too small for what the
	// device announced. The caller decides whether to continue.
	ErrorTypeCapacity
	// ErrorTypeResource covers local files and the port itself. Fatal.
	ErrorTypeResource
	// ErrorTypeTimeout is only produced by the opt-in bounded waits. Fatal.
	ErrorTypeTimeout
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeProtocol:
		return "protocol"
	case ErrorTypeCapacity:
		return "capacity"
	case ErrorTypeResource:
		return "resource"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// DestinationExistsError stops a receive run at a local file that already
// exists. Remaining counts the matched files after it that were not fetched.
type DestinationExistsError struct {
	Path      string
	Remaining int
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDestinationExists, e.Path)
}

func (e *DestinationExistsError) Unwrap() error {
	return ErrDestinationExists
}

// TransportError carries the operation and port an error happened on
type TransportError struct {
	Err  error
	Op   string
	Port string
	Type ErrorType
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s error on %s during %s: %v", e.Type, e.Port, e.Op, e.Err)
	}
	return fmt.Sprintf("%s error during %s: %v", e.Type, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new transport error
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:   op,
		Port: port,
		Err:  err,
		Type: errType,
	}
}

// NewProtocolError creates a fatal protocol error
func NewProtocolError(op string, err error) *TransportError {
	return NewTransportError(op, "", err, ErrorTypeProtocol)
}

// NewCapacityError creates a non-fatal capacity error
func NewCapacityError(op string, err error) *TransportError {
	return NewTransportError(op, "", err, ErrorTypeCapacity)
}

// NewResourceError creates a fatal resource error
func NewResourceError(op string, err error) *TransportError {
	return NewTransportError(op, "", err, ErrorTypeResource)
}

// GetErrorType returns the classification of err. Unknown errors are
// treated as protocol errors.
func GetErrorType(err error) ErrorType {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrBufferTooSmall):
		return ErrorTypeCapacity
	case errors.Is(err, ErrEdgeTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrLocalNotFound), errors.Is(err, ErrCreateFailed),
		errors.Is(err, ErrDestinationExists), errors.Is(err, ErrPortClosed),
		errors.Is(err, ErrPortRead), errors.Is(err, ErrPortWrite):
		return ErrorTypeResource
	default:
		return ErrorTypeProtocol
	}
}

// IsFatal reports whether err must end the current run. Only capacity
// errors leave the decision to the caller.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return GetErrorType(err) != ErrorTypeCapacity
}
