/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package wrapper

import (
	"fmt"

	"github.com/mit-athena/printing-config/getopt"
	"github.com/mit-athena/printing-config/lib"
)

// Command describes the two flavors of one printing command.
type Command struct {
	Name string
	// QueueFlag selects the queue, eg -P.
	QueueFlag string
	// Grammars are tried in order, so the CUPS grammar comes first.
	Grammars []getopt.Grammar
}

var (
	LprCommand = Command{
		Name:      "lpr",
		QueueFlag: "-P",
		Grammars: []getopt.Grammar{
			{System: lib.SystemCUPS, Spec: "EH:U:P:#:hlmo:pqrC:J:T:"},
			{System: lib.SystemLPRng, Spec: "ABblC:D:F:Ghi:kJ:K:#:m:NP:rR:sT:U:Vw:X:YZ:z1:2:3:4:"},
		},
	}

	LpqCommand = Command{
		Name:      "lpq",
		QueueFlag: "-P",
		Grammars: []getopt.Grammar{
			{System: lib.SystemCUPS, Spec: "EU:h:P:al"},
			{System: lib.SystemLPRng, Spec: "aAlLVcvP:st:D:"},
		},
	}

	LprmCommand = Command{
		Name:      "lprm",
		QueueFlag: "-P",
		Grammars: []getopt.Grammar{
			{System: lib.SystemCUPS, Spec: "EU:h:P:"},
		},
	}

	LpCommand = Command{
		Name:      "lp",
		QueueFlag: "-d",
		Grammars: []getopt.Grammar{
			{System: lib.SystemCUPS, Spec: "EU:cd:h:mn:o:q:st:H:P:i:"},
			{System: lib.SystemLPRng, Spec: "ckmprswBGYd:D:f:n:q:t:"},
		},
	}
)

// parsed is a command line taken apart.
type parsed struct {
	// style is the flavor of the grammar that parsed the arguments.
	style     lib.PrintingSystem
	options   []lib.Option
	arguments []string
	// queue is the last queue named by the queue flag, or the default.
	queue string
}

// parse takes args apart and finds the queue. On failure, the returned
// exit status is non-zero and the user has been told why.
func (e *Environment) parse(c Command, args []string) (*parsed, int) {
	style, options, arguments, err := getopt.Parse(args, c.Grammars)
	if err != nil {
		fmt.Fprint(e.Stderr, err)
		return nil, lib.ExitUsage
	}
	if style == lib.SystemLPRng {
		e.warnLPRngArguments()
	}

	queueOptions, options := lib.ExtractOption(options, c.QueueFlag)
	queue, named := lib.LastValue(queueOptions)
	if !named {
		queue = e.DefaultPrinter()
	}

	return &parsed{style, options, arguments, queue}, 0
}

// Simple runs a command that needs nothing beyond finding its queue. argv
// includes the command name.
func (e *Environment) Simple(c Command, argv []string) int {
	args := argv[1:]

	// CUPS lprm takes a final "-" to mean all jobs. It is not an option,
	// and LPRng lprm doesn't understand it.
	allJobs := false
	if c.Name == LprmCommand.Name && len(args) > 0 && args[len(args)-1] == "-" {
		allJobs = true
		args = args[:len(args)-1]
	}

	p, status := e.parse(c, args)
	if status != 0 {
		return status
	}
	if p.queue == "" {
		return e.noDefaultPrinter(c.QueueFlag)
	}

	r := e.Resolver.Resolve(p.queue)

	args = append([]string{c.QueueFlag + r.Queue}, lib.JoinOptions(p.options, p.arguments)...)
	if allJobs && r.System == lib.SystemCUPS {
		args = append(args, "-")
	}

	return e.dispatch(r.System, c.Name, args, r.Server)
}

func (e *Environment) Lprm(argv []string) int {
	return e.Simple(LprmCommand, argv)
}

func (e *Environment) Lp(argv []string) int {
	return e.Simple(LpCommand, argv)
}
