/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package probe checks whether a print server runs CUPS.
package probe

import (
	"net"
	"strconv"
	"time"

	"github.com/mit-athena/printing-config/log"
)

const (
	DefaultPort    = 631
	DefaultTimeout = 300 * time.Millisecond
)

// Prober opens a TCP connection to the IPP port of a print server.
// The timeout bounds how long a dead or firewalled server can delay a
// printing command.
type Prober struct {
	Port    uint16
	Timeout time.Duration
}

func NewProber(port uint16, timeout time.Duration) *Prober {
	if port == 0 {
		port = DefaultPort
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{port, timeout}
}

// IsCUPSServer returns true if host accepts connections on the IPP port.
// Refused connections, timeouts, and name resolution failures all mean
// false.
func (p *Prober) IsCUPSServer(host string) bool {
	address := net.JoinHostPort(host, strconv.Itoa(int(p.Port)))
	conn, err := net.DialTimeout("tcp", address, p.Timeout)
	if err != nil {
		log.Debugf("%s is not accepting IPP connections: %s", address, err)
		return false
	}
	conn.Close()
	return true
}
