/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package queue figures out which printing system and which server should
// be used for a print queue.
//
// A queue is assumed to be an Athena queue if the local CUPS daemon does
// not know it, or if the local CUPS daemon just bounces jobs to an Athena
// print server. Hesiod names the print server of an Athena queue. If that
// server accepts IPP connections, the queue is served over CUPS; otherwise
// it is assumed to be an LPRng server. Queues that are not Athena queues
// always go to the local CUPS daemon.
package queue

import (
	"net/url"
	"strings"

	"github.com/mit-athena/printing-config/lib"
	"github.com/mit-athena/printing-config/log"
)

// Directory answers Hesiod lookups. Failures are empty results.
type Directory interface {
	Lookup(name, hesiodType string) []string
}

// Spooler answers questions about the local CUPS daemon. Unknown
// answers are empty.
type Spooler interface {
	DeviceURI(printer string) string
	DefaultDestination() string
	Destinations() []string
}

// Prober tells whether a print server speaks IPP.
type Prober interface {
	IsCUPSServer(host string) bool
}

// Resolution says where to send commands for a queue.
type Resolution struct {
	System lib.PrintingSystem
	// Server is the print server, or empty to use the local CUPS default.
	Server string
	// Queue is the queue name as the print server knows it.
	Queue string
}

type Resolver struct {
	directory Directory
	spooler   Spooler
	prober    Prober

	// frontends are the Athena CUPS servers that local queues bounce to.
	frontends []string
	// backendLocations are the Hesiod sloc names of more Athena CUPS servers.
	backendLocations []string

	backends       []string
	backendsLoaded bool
}

func NewResolver(directory Directory, spooler Spooler, prober Prober, frontends, backendLocations []string) *Resolver {
	lowered := make([]string, len(frontends))
	for i, f := range frontends {
		lowered[i] = strings.ToLower(f)
	}
	return &Resolver{
		directory:        directory,
		spooler:          spooler,
		prober:           prober,
		frontends:        lowered,
		backendLocations: backendLocations,
	}
}

// loadBackends fills the backend server list from Hesiod, once.
func (r *Resolver) loadBackends() []string {
	if !r.backendsLoaded {
		for _, location := range r.backendLocations {
			for _, server := range r.directory.Lookup(location, lib.HesiodServiceLocation) {
				r.backends = append(r.backends, strings.ToLower(server))
			}
		}
		r.backendsLoaded = true
	}
	return r.backends
}

func (r *Resolver) isAthenaServer(host string) bool {
	host = strings.ToLower(host)
	for _, f := range r.frontends {
		if host == f {
			return true
		}
	}
	for _, b := range r.loadBackends() {
		if host == b {
			return true
		}
	}
	return false
}

// Canonicalize translates a local queue name to an Athena queue name.
//
// A queue that the local CUPS daemon doesn't know is assumed to be an
// already-canonical Athena queue. A local queue that bounces to an
// Athena print server is renamed to the Athena queue it bounces to, so
// that a local "w20" pointing at Athena's "ajax" becomes "ajax". Any other
// local queue is not an Athena queue, and the second return value is false.
func (r *Resolver) Canonicalize(queue string) (string, bool) {
	uri := r.spooler.DeviceURI(queue)
	if uri == "" {
		return queue, true
	}

	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "ipp" || u.Hostname() == "" || u.Path == "" {
		log.DebugQueuef(queue, "Local queue with device URI %s", uri)
		return "", false
	}
	if !r.isAthenaServer(u.Hostname()) {
		log.DebugQueuef(queue, "Local queue bouncing to non-Athena server %s", u.Hostname())
		return "", false
	}

	switch {
	case strings.HasPrefix(u.Path, "/printers/"):
		return strings.TrimPrefix(u.Path, "/printers/"), true
	case strings.HasPrefix(u.Path, "/classes/"):
		return strings.TrimPrefix(u.Path, "/classes/"), true
	default:
		// We can't parse the URI; leave the queue to local CUPS.
		log.DebugQueuef(queue, "Unrecognized path in device URI %s", uri)
		return "", false
	}
}

// PrintServer returns the print server of an Athena queue according to
// its Hesiod printcap entry, or empty if the queue has no entry.
func (r *Resolver) PrintServer(queue string) string {
	pcap := r.directory.Lookup(queue, lib.HesiodPrintcap)
	if len(pcap) == 0 {
		return ""
	}
	for _, field := range strings.Split(pcap[0], ":") {
		if strings.HasPrefix(field, "rm=") {
			return field[3:]
		}
	}
	return ""
}

// Resolve decides which printing system and server handle queue, and
// what the queue is called there. It never fails; anything that can't be
// figured out is left to the local CUPS daemon.
func (r *Resolver) Resolve(queue string) Resolution {
	athenaQueue, ok := r.Canonicalize(queue)
	if !ok {
		return Resolution{lib.SystemCUPS, "", queue}
	}

	// Instances select default options; the server only knows the queue.
	athenaQueue = strings.SplitN(athenaQueue, "/", 2)[0]

	rm := r.PrintServer(athenaQueue)
	if rm == "" {
		// Not an Athena queue after all; the local CUPS daemon is good enough.
		log.DebugQueue(athenaQueue, "No Hesiod printcap entry")
		return Resolution{lib.SystemCUPS, "", athenaQueue}
	}

	if r.prober.IsCUPSServer(rm) {
		log.DebugQueuef(athenaQueue, "Served by CUPS on %s", rm)
		return Resolution{lib.SystemCUPS, rm, athenaQueue}
	}
	log.DebugQueuef(athenaQueue, "Served by LPRng on %s", rm)
	return Resolution{lib.SystemLPRng, rm, athenaQueue}
}
