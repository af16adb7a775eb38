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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	pofo "github.com/ZaparooProject/go-pofo"
	"golang.org/x/term"
)

// output prints messages and transfer progress. Byte counters are redrawn
// in place only on a terminal; otherwise only job headers are printed.
type output struct {
	stdout io.Writer
	stderr io.Writer
	tty    bool
	// open is set while a counter line is waiting for its newline
	open bool
}

func newOutput(stdout, stderr io.Writer) *output {
	tty := false
	if f, ok := stdout.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &output{stdout: stdout, stderr: stderr, tty: tty}
}

func (o *output) printf(format string, args ...any) {
	o.endLine()
	_, _ = fmt.Fprintf(o.stdout, format, args...)
}

func (o *output) errorf(format string, args ...any) {
	o.endLine()
	_, _ = fmt.Fprintf(o.stderr, format, args...)
}

func (o *output) endLine() {
	if o.open {
		_, _ = fmt.Fprintln(o.stdout)
		o.open = false
	}
}

// progress is the session's progress callback
func (o *output) progress(p pofo.Progress) {
	if p.Block == 0 {
		o.jobHeader(p)
		return
	}

	if p.Block == 1 {
		o.printf("Transmission consists of %d blocks of payload.\n", p.Blocks)
	}
	if !o.tty {
		return
	}
	verb := "Sent"
	if p.Op == pofo.OpReceive {
		verb = "Received"
	}
	_, _ = fmt.Fprintf(o.stdout, "\r%s %d of %d bytes (block %d of %d)", verb, p.Bytes, p.Total, p.Block, p.Blocks)
	o.open = true
	if p.Block == p.Blocks {
		o.endLine()
	}
}

func (o *output) jobHeader(p pofo.Progress) {
	switch p.Op {
	case pofo.OpSend:
		o.printf("Transmitting file %d of %d: %s -> %s\n", p.File, p.Files, p.Source, p.Dest)
	case pofo.OpReceive:
		if p.Files > 0 {
			o.printf("Transferring file %d of %d: %s\n", p.File, p.Files, p.Source)
		} else {
			o.printf("Transferring file %d: %s\n", p.File, p.Source)
		}
	case pofo.OpList:
		o.printf("Fetching directory listing for %s\n", p.Source)
	}
}

// existsNotice explains a receive run stopped by an existing local file
func (o *output) existsNotice(err error) {
	var exists *pofo.DestinationExistsError
	if !errors.As(err, &exists) {
		return
	}
	o.printf("File exists! Use -f to force overwriting.\n")
	if exists.Remaining > 0 {
		o.printf("Remaining files are not copied!\n")
	}
}

// report prints the jobs that did not transfer
func (o *output) report(report *pofo.Report) {
	if report == nil {
		return
	}
	for _, job := range report.Jobs {
		switch job.Outcome {
		case pofo.OutcomeSkippedExists:
			o.printf("File exists on Portfolio: %s! Use -f to force overwriting.\n", job.Dest)
		case pofo.OutcomeSkippedDirectory, pofo.OutcomeSkippedTooLarge:
			o.errorf("Skipping %s (%s).\n", job.Source, job.Outcome)
		}
	}
}
