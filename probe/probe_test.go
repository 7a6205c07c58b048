/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package probe

import (
	"net"
	"testing"
	"time"
)

func listenerPort(t *testing.T, l net.Listener) uint16 {
	return uint16(l.Addr().(*net.TCPAddr).Port)
}

func TestIsCUPSServerListening(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	p := NewProber(listenerPort(t, l), time.Second)
	if !p.IsCUPSServer("127.0.0.1") {
		t.Fatal("listening server not detected")
	}
}

func TestIsCUPSServerRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := listenerPort(t, l)
	l.Close()

	p := NewProber(port, time.Second)
	if p.IsCUPSServer("127.0.0.1") {
		t.Fatal("closed port detected as a CUPS server")
	}
}

func TestNewProberDefaults(t *testing.T) {
	p := NewProber(0, 0)
	if p.Port != DefaultPort || p.Timeout != DefaultTimeout {
		t.Fatalf("defaults not applied: %+v", p)
	}
}
