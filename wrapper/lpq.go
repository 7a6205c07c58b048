/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package wrapper

import (
	"fmt"

	"github.com/mit-athena/printing-config/lib"
	"github.com/mit-athena/printing-config/log"
)

// Values of lib.Config.LPQRFC1179Fallback.
const (
	FallbackAuto   = "auto"
	FallbackAlways = "always"
	FallbackNever  = "never"
)

// Lpq runs lpq. A plain lpq of a CUPS queue may be answered over RFC 1179
// instead, since CUPS clients before 1.4 and CUPS servers from 1.4 on
// disagree about queue listings.
func (e *Environment) Lpq(argv []string) int {
	p, status := e.parse(LpqCommand, argv[1:])
	if status != 0 {
		return status
	}
	if p.queue == "" {
		return e.noDefaultPrinter(LpqCommand.QueueFlag)
	}

	r := e.Resolver.Resolve(p.queue)
	e.warnIfMissing(r)

	args := lib.JoinOptions(p.options, p.arguments)

	if r.System == lib.SystemCUPS && len(args) == 0 && r.Server != "" && e.useRFC1179() {
		state, err := e.QueueState(r.Server, r.Queue)
		if err == nil {
			fmt.Fprintln(e.Stdout, state)
			return 0
		}
		log.InfoQueuef(r.Queue, "RFC 1179 queue listing from %s failed: %s", r.Server, err)
	}

	args = append([]string{LpqCommand.QueueFlag + r.Queue}, args...)
	return e.dispatch(r.System, LpqCommand.Name, args, r.Server)
}

func (e *Environment) useRFC1179() bool {
	switch e.Config.LPQRFC1179Fallback {
	case FallbackAlways:
		return true
	case FallbackAuto:
		return e.CUPSClientIsOld()
	default:
		return false
	}
}
