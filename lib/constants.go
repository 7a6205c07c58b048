/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package lib

const (
	ShortName = "Debathena printing wrappers"
	FullName  = "Debathena printing wrappers for CUPS and LPRng"
)

// Environment variables read by the wrappers.
const (
	// PrinterEnv overrides the default printer.
	PrinterEnv = "PRINTER"
	// AthenaUserEnv names the Athena user on whose behalf jobs are sent.
	AthenaUserEnv = "ATHENA_USER"
	// DebugEnv, when non-empty, echoes the backend invocation to stderr.
	DebugEnv = "DEBATHENA_DEBUG"
	// LPROPTEnv held default LPRng options. It is ignored under CUPS.
	LPROPTEnv = "LPROPT"
	// ConfigFilenameEnv overrides the config file location.
	ConfigFilenameEnv = "DEBATHENA_PRINTING_CONFIG"
)

// CUPSServerEnv is set for the backend command when the queue lives on a
// specific print server.
const CUPSServerEnv = "CUPS_SERVER"

// Exit statuses of the wrapper commands. Success is never observed because
// the wrapper process is replaced by the backend command.
const (
	ExitInternal = 1
	ExitUsage    = 2
)

// Hesiod record types.
const (
	HesiodPrintcap        = "pcap"
	HesiodServiceLocation = "sloc"
	HesiodCluster         = "cluster"
)
