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
	"github.com/mit-athena/printing-config/queue"
	"github.com/mit-athena/printing-config/translate"
)

// Lpr runs lpr. Beyond finding the queue, it asks for a zephyr when the
// job prints, sends jobs as $ATHENA_USER, and translates LPRng options
// for CUPS servers.
func (e *Environment) Lpr(argv []string) int {
	p, status := e.parse(LprCommand, argv[1:])
	if status != 0 {
		return status
	}

	user := e.getenv(lib.AthenaUserEnv)

	// Resolve only once there is a queue; an lpr that would fail for lack
	// of a queue shouldn't wait on Hesiod first.
	var r queue.Resolution
	resolved := false
	resolve := func() queue.Resolution {
		if !resolved {
			r = e.Resolver.Resolve(p.queue)
			resolved = true
		}
		return r
	}

	// -N is a local invention meaning "no zephyr".
	noZephyr, options := lib.ExtractOption(p.options, "-N")
	if len(noZephyr) == 0 && user != "" && p.queue != "" {
		if p.style == lib.SystemLPRng || resolve().System == lib.SystemLPRng {
			options = append(options, lib.Option{Flag: "-m", Value: "zephyr%" + user})
		} else {
			options = append(options, lib.Option{Flag: "-m"})
		}
	}

	if p.queue == "" {
		return e.noDefaultPrinter(LprCommand.QueueFlag)
	}

	r = resolve()
	e.warnIfMissing(r)

	leading := []lib.Option{{Flag: LprCommand.QueueFlag, Value: r.Queue}}
	if user != "" {
		leading = append([]lib.Option{{Flag: "-U", Value: user}}, leading...)
	}
	options = append(leading, options...)

	if r.System == lib.SystemCUPS && p.style == lib.SystemLPRng {
		var warnings []string
		options, warnings = translate.LPRngToCUPS(options)
		for _, w := range warnings {
			fmt.Fprint(e.Stderr, w)
		}
	}

	if _, exists := e.LookupEnv(lib.LPROPTEnv); exists && r.System == lib.SystemCUPS {
		fmt.Fprintf(e.Stderr, "Use of the $LPROPT environment variable is deprecated and\n"+
			"its contents will be ignored.\n"+
			"See %s\n", e.Config.LPROPTHelpURL)
	}

	return e.dispatch(r.System, LprCommand.Name, lib.JoinOptions(options, p.arguments), r.Server)
}
