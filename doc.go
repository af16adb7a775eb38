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

/*
Package pofo transfers files between a host and an Atari Portfolio running
its built-in file transfer server over the parallel port.

The protocol is layered. A Channel moves bytes one bit per clock edge over
two output and two input lines of a Port. A Transport frames payloads into
checksummed, acknowledged blocks. A Session drives the server's control
blocks to send files, receive files and list remote directories.

Port backends live in subpackages:
  - port/parport: Linux ppdev device files (/dev/parport0)
  - port/ioport: direct register access through /dev/port
  - port/gpio: GPIO bit-banging, for example on a Raspberry Pi
  - port/modem: the RTS/DTR/CTS/DSR lines of a serial adapter

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-pofo"
	    "github.com/ZaparooProject/go-pofo/port/parport"
	)

	port, err := parport.New("/dev/parport0")
	if err != nil {
	    log.Fatal(err)
	}

	// Connect waits for the Portfolio and owns the port afterwards
	session, err := pofo.Connect(ctx, port, pofo.WithForce(true))
	if err != nil {
	    log.Fatal(err)
	}
	defer session.Close()

	report, err := session.Send(ctx, []string{"notes.txt"}, `C:\`)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(report.Count(pofo.OutcomeTransferred), "files sent")

	names, err := session.List(ctx, `C:\*.*`)

Remote paths use the Portfolio's DOS conventions: drive letters, backslash
separators and 8.3 names. RemoteName maps local file names accordingly.

Timing:

The Portfolio is slow to react between blocks. DefaultTiming holds delays
that the built-in server tolerates. Waits for the remote clock block until the
context is cancelled unless WithEdgeTimeout bounds them.

Error Handling:

Errors are sentinel values wrapped in a TransportError carrying a category:

	if errors.Is(err, pofo.ErrDestinationExists) {
	    // rerun with WithForce(true)
	}
	if !pofo.IsFatal(err) {
	    // a buffer was too small; whether to go on is the caller's call
	}

A capacity error does not resynchronize the link. After a block that did
not fit, the device may still be sending it, so further requests on the
same session can fail.

Thread Safety:

A Session drives a single half-duplex link and is not safe for concurrent
use.
*/
package pofo
