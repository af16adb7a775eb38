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

// Command pofo transfers files to and from an Atari Portfolio running its
// built-in file transfer server, over a parallel port or a compatible
// adapter.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	pofo "github.com/ZaparooProject/go-pofo"
	"github.com/ZaparooProject/go-pofo/port/parport"
	"github.com/rs/zerolog"
)

var errUsage = errors.New("invalid invocation")

// invocation is the parsed command line
type invocation struct {
	set         map[string]bool
	configPath  string
	backend     string
	device      string
	address     string
	args        []string
	edgeTimeout time.Duration
	mode        byte
	force       bool
	debug       bool
	scan        bool
}

func usage(w io.Writer) {
	_, _ = fmt.Fprint(w, `
Syntax: pofo [OPTIONS] [-f] {-t|-r} SOURCE... DEST
  or    pofo [OPTIONS] -l PATTERN...
  or    pofo -scan

-t  Transmit file(s) to the Portfolio.
    Wildcards that the shell left unexpanded are matched locally.
-r  Receive file(s) from the Portfolio.
    Wildcards in SOURCE are evaluated by the Portfolio.
    In a Unix like shell, quoting is required.
-l  List directory files on the Portfolio matching PATTERN.
-f  Force overwriting an existing file.

Options:
-backend B     parport (default), ioport, gpio, modem or auto
-d DEVICE      Port device (default: /dev/parport0, /dev/port for ioport)
-p ADR         Port address for the ioport backend (default: 0x378)
-config FILE   Read settings from a TOML file; flags take precedence
-timeout D     Give up when the Portfolio stops responding for D
-debug         Print protocol debug output
-scan          List detected ports and exit

Notes:
- SOURCE may be a single file or a list of files.
  In the latter case, DEST specifies a directory.
- The Portfolio must be in server mode when running this program!
`)
}

// expandShortFlags splits combined switches such as -tf into -t -f
func expandShortFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if len(arg) == 3 && arg[0] == '-' && strings.ContainsRune("trlf", rune(arg[1])) &&
			strings.ContainsRune("trlf", rune(arg[2])) {
			out = append(out, "-"+arg[1:2], "-"+arg[2:3])
			continue
		}
		out = append(out, arg)
	}
	return out
}

func parseArgs(args []string) (*invocation, error) {
	inv := &invocation{set: map[string]bool{}}

	fs := flag.NewFlagSet("pofo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	transmit := fs.Bool("t", false, "transmit")
	receive := fs.Bool("r", false, "receive")
	list := fs.Bool("l", false, "list")
	fs.BoolVar(&inv.force, "f", false, "force overwriting")
	fs.StringVar(&inv.device, "d", "", "port device")
	fs.StringVar(&inv.address, "p", "", "port address")
	fs.StringVar(&inv.backend, "backend", "", "port backend")
	fs.StringVar(&inv.configPath, "config", "", "config file")
	fs.DurationVar(&inv.edgeTimeout, "timeout", 0, "edge timeout")
	fs.BoolVar(&inv.debug, "debug", false, "debug output")
	fs.BoolVar(&inv.scan, "scan", false, "list ports")

	// Switches may appear anywhere, as in "pofo file.txt C:\ -t"
	rest := expandShortFlags(args)
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, fmt.Errorf("%w: %w", errUsage, err)
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		inv.args = append(inv.args, rest[0])
		rest = rest[1:]
	}
	fs.Visit(func(f *flag.Flag) { inv.set[f.Name] = true })

	modes := 0
	for _, m := range []struct {
		on   bool
		mode byte
	}{{*transmit, 't'}, {*receive, 'r'}, {*list, 'l'}} {
		if m.on {
			modes++
			inv.mode = m.mode
		}
	}

	switch {
	case inv.scan:
		return inv, nil
	case modes != 1:
		return nil, fmt.Errorf("%w: choose one of -t, -r and -l", errUsage)
	case inv.mode == 'l' && len(inv.args) < 1:
		return nil, fmt.Errorf("%w: missing PATTERN", errUsage)
	case inv.mode != 'l' && len(inv.args) < 2:
		return nil, fmt.Errorf("%w: missing SOURCE or DEST", errUsage)
	}
	return inv, nil
}

// settings resolves the config file and the flags that override it
func (inv *invocation) settings() (settings, error) {
	s := defaultSettings()
	if inv.configPath != "" {
		loaded, err := loadConfig(inv.configPath)
		if err != nil {
			return settings{}, err
		}
		s = loaded
	}

	if inv.set["backend"] {
		s.Backend = strings.ToLower(inv.backend)
	}
	if inv.set["d"] {
		s.Device = inv.device
	}
	if inv.set["p"] {
		addr, err := parseAddress(inv.address)
		if err != nil {
			return settings{}, err
		}
		s.Address = addr
		if !inv.set["backend"] && inv.configPath == "" {
			// A port address only makes sense for direct register access
			s.Backend = backendIOPort
		}
	}
	if inv.set["timeout"] {
		s.EdgeTimeout = inv.edgeTimeout
	}
	if inv.force {
		s.Force = true
	}
	if inv.debug {
		s.Debug = true
	}
	return s, s.validate()
}

// expandSources matches wildcards the shell did not expand. A source that
// exists as named is never treated as a pattern.
func expandSources(sources []string) []string {
	out := make([]string, 0, len(sources))
	for _, source := range sources {
		if _, err := os.Stat(source); err == nil || !strings.ContainsAny(source, "*?[") {
			out = append(out, source)
			continue
		}
		matches, err := filepath.Glob(source)
		if err != nil || len(matches) == 0 {
			out = append(out, source)
			continue
		}
		out = append(out, matches...)
	}
	return out
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	out := newOutput(stdout, stderr)

	inv, err := parseArgs(args)
	if err != nil {
		out.errorf("%v\n", err)
		usage(stdout)
		return 1
	}
	s, err := inv.settings()
	if err != nil {
		out.errorf("%v\n", err)
		return 1
	}
	if s.Debug {
		pofo.SetLogger(zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger())
		pofo.SetDebugEnabled(true)
	}

	if inv.scan {
		if err := scan(ctx, out); err != nil {
			out.errorf("Scan failed: %v\n", err)
			return 1
		}
		return 0
	}

	port, err := openPort(ctx, s)
	if err != nil {
		out.errorf("Cannot open parallel port: %v\n", err)
		if s.Backend == backendParport {
			out.errorf("Try 'modprobe ppdev' and 'chmod 666 %s' as root!\n", deviceOr(s.Device, parport.DefaultDevice))
		}
		return 1
	}

	out.errorf("Waiting for Portfolio on %s...\n", port.Name())
	opts := []pofo.Option{
		pofo.WithForce(s.Force),
		pofo.WithTiming(s.Timing),
		pofo.WithProgressCallback(out.progress),
	}
	if s.EdgeTimeout > 0 {
		opts = append(opts, pofo.WithChannelOptions(pofo.WithEdgeTimeout(s.EdgeTimeout)))
	}
	session, err := pofo.Connect(ctx, port, opts...)
	if err != nil {
		_ = port.Close()
		out.errorf("%v\n", err)
		return 1
	}
	defer func() { _ = session.Close() }()

	if err := dispatch(ctx, session, inv, out); err != nil {
		out.errorf("%v\n", err)
		return 1
	}
	return 0
}

func dispatch(ctx context.Context, session *pofo.Session, inv *invocation, out *output) error {
	switch inv.mode {
	case 't':
		sources := expandSources(inv.args[:len(inv.args)-1])
		report, err := session.Send(ctx, sources, inv.args[len(inv.args)-1])
		out.report(report)
		return err
	case 'r':
		report, err := session.Receive(ctx, inv.args[:len(inv.args)-1], inv.args[len(inv.args)-1])
		out.report(report)
		out.existsNotice(err)
		return err
	default:
		for _, pattern := range inv.args {
			names, err := session.List(ctx, pattern)
			if err != nil {
				if pofo.IsFatal(err) {
					return err
				}
				out.errorf("%v\n", err)
				continue
			}
			if len(names) == 0 {
				out.printf("No files.\n")
			}
			for _, name := range names {
				out.printf("%s\n", name)
			}
		}
		return nil
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
