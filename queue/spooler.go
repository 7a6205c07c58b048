/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package queue

import "github.com/mit-athena/printing-config/log"

// LazySpooler connects to the local CUPS daemon on first use. If that
// fails, it stays disconnected and every query is unknown.
type LazySpooler struct {
	open    func() (Spooler, error)
	spooler Spooler
	opened  bool
}

func NewLazySpooler(open func() (Spooler, error)) *LazySpooler {
	return &LazySpooler{open: open}
}

func (l *LazySpooler) get() Spooler {
	if !l.opened {
		l.opened = true
		s, err := l.open()
		if err != nil {
			log.Debugf("No local CUPS daemon: %s", err)
		} else {
			l.spooler = s
		}
	}
	return l.spooler
}

func (l *LazySpooler) DeviceURI(printer string) string {
	if s := l.get(); s != nil {
		return s.DeviceURI(printer)
	}
	return ""
}

func (l *LazySpooler) DefaultDestination() string {
	if s := l.get(); s != nil {
		return s.DefaultDestination()
	}
	return ""
}

func (l *LazySpooler) Destinations() []string {
	if s := l.get(); s != nil {
		return s.Destinations()
	}
	return nil
}

// Close closes the connection to the CUPS daemon, if one was opened.
func (l *LazySpooler) Close() {
	if q, ok := l.spooler.(interface{ Quit() }); ok {
		q.Quit()
	}
	l.spooler = nil
}

// IsLocal returns true if queue is a destination of the local CUPS daemon.
func IsLocal(s Spooler, queue string) bool {
	for _, d := range s.Destinations() {
		if d == queue {
			return true
		}
	}
	return false
}
