/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package wrapper implements the lpr, lpq, lprm and lp commands, which
// hand their arguments to the CUPS or LPRng version of the command that
// serves the selected queue.
package wrapper

import (
	"fmt"
	"io"
	"strings"

	"github.com/mit-athena/printing-config/dispatch"
	"github.com/mit-athena/printing-config/lib"
	"github.com/mit-athena/printing-config/log"
	"github.com/mit-athena/printing-config/queue"
)

// Resolver decides where commands for a queue are sent.
type Resolver interface {
	Resolve(queue string) queue.Resolution
}

// Environment is everything a wrapper command reads from or does to the
// world. One is built per process.
type Environment struct {
	Config    *lib.Config
	Resolver  Resolver
	Directory queue.Directory
	Spooler   queue.Spooler

	LookupEnv func(key string) (string, bool)
	Environ   func() []string
	Hostname  func() (string, error)

	Stdout io.Writer
	Stderr io.Writer

	// Exec runs the backend command. It only returns on failure.
	Exec func(*dispatch.Invocation) error

	// QueueState asks a print server for a short RFC 1179 queue listing.
	QueueState func(host, queue string) (string, error)
	// CUPSClientIsOld is true when the installed CUPS client commands
	// predate 1.4.
	CUPSClientIsOld func() bool
}

func (e *Environment) getenv(key string) string {
	v, _ := e.LookupEnv(key)
	return v
}

// DefaultPrinter returns the queue to use when none is given: $PRINTER,
// then the local CUPS default, then the lpr entry of this host's Hesiod
// cluster information. It returns empty if there is none.
func (e *Environment) DefaultPrinter() string {
	if p, exists := e.LookupEnv(lib.PrinterEnv); exists {
		return p
	}

	if d := e.Spooler.DefaultDestination(); d != "" {
		return d
	}

	hostname, err := e.Hostname()
	if err != nil {
		log.Debugf("Failed to get hostname: %s", err)
		return ""
	}
	for _, record := range e.Directory.Lookup(hostname, lib.HesiodCluster) {
		for _, line := range strings.Split(record, "\n") {
			fields := strings.Fields(line)
			if len(fields) == 2 && strings.EqualFold(fields[0], "lpr") {
				return fields[1]
			}
		}
	}
	return ""
}

func (e *Environment) noDefaultPrinter(queueFlag string) int {
	fmt.Fprintf(e.Stderr, "\n"+
		"No default printer configured. Specify a %s option, or configure a\n"+
		"default printer via e.g. System | Administration | Printing.\n"+
		"\n", queueFlag)
	return lib.ExitUsage
}

func (e *Environment) warnLPRngArguments() {
	fmt.Fprintf(e.Stderr, "WARNING: You appear to be using LPRng-style arguments (e.g. -Zduplex).\n"+
		"These are deprecated and will not be supported in the future.\n"+
		"For more information, please see %s\n", e.Config.ArgumentsHelpURL)
}

// warnIfMissing warns when queue is neither in Hesiod nor in the local CUPS
// daemon. The command still runs, since the user may be naming a server
// directly.
func (e *Environment) warnIfMissing(r queue.Resolution) {
	if r.Server != "" || e.Spooler.DeviceURI(r.Queue) != "" {
		return
	}
	fmt.Fprintf(e.Stderr, "\nWARNING: The print queue '%s' does not appear to exist.\n"+
		"If you're trying to print to a cluster or dorm printer,\n"+
		"you should now be using the '%s' queue instead.\n"+
		"See %s for more information.\n\n", r.Queue, e.Config.SharedQueueName, e.Config.SharedQueueHelpURL)
}

// dispatch runs command under system. It returns an exit status only if
// the backend command could not be started, or if Exec returned without
// replacing the process.
func (e *Environment) dispatch(system lib.PrintingSystem, command string, args []string, server string) int {
	prefixes := dispatch.Prefixes{
		CUPS:  e.Config.CUPSCommandPrefix,
		LPRng: e.Config.LPRngCommandPrefix,
	}
	inv, err := dispatch.NewInvocation(prefixes, system, command, args, server, e.Environ())
	if err != nil {
		fmt.Fprint(e.Stderr, "\nError: Unknown printing infrastructure\n\n")
		return lib.ExitInternal
	}

	if e.getenv(lib.DebugEnv) != "" {
		fmt.Fprintf(e.Stderr, "I: Running %s\n", inv)
	}

	if err = e.Exec(inv); err != nil {
		log.Errorf("Failed to run %s: %s", inv.Binary, err)
		return lib.ExitInternal
	}
	return 0
}
