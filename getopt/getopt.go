/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package getopt parses argument lists that may follow either the CUPS or
// the LPRng flavor of a printing command.
//
// The two flavors share flag letters with different meanings, eg -l takes
// no argument for CUPS lpq but -h does, so the grammars are never merged.
// Each grammar is tried in turn and the first clean parse wins.
package getopt

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/mit-athena/printing-config/lib"

	"github.com/spf13/pflag"
)

// Grammar is one way to parse a command line. Spec is a getopt(3) style
// option string: each character is a flag, and a flag followed by a colon
// takes an argument.
type Grammar struct {
	System lib.PrintingSystem
	Spec   string
}

// SyntaxError is returned when no grammar parses the arguments.
type SyntaxError struct {
	// Usage lists the options accepted by the primary grammar.
	Usage string
	// Err is the failure of the primary grammar.
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error: Incorrect option passed.  See the man page for more information.\n"+
		"A common cause is mixing CUPS and LPRng syntax.\n"+
		"Valid options: %s\n", e.Usage)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

type flagSpec struct {
	letter   byte
	takesArg bool
}

func parseSpec(spec string) []flagSpec {
	var flags []flagSpec
	for i := 0; i < len(spec); i++ {
		if spec[i] == ':' {
			continue
		}
		f := flagSpec{letter: spec[i]}
		if i+1 < len(spec) && spec[i+1] == ':' {
			f.takesArg = true
		}
		flags = append(flags, f)
	}
	return flags
}

// Usage renders the options of spec for an error message, eg
// "-E -U [arg] -h [arg]".
func Usage(spec string) string {
	flags := parseSpec(spec)
	words := make([]string, 0, len(flags))
	for _, f := range flags {
		if f.takesArg {
			words = append(words, fmt.Sprintf("-%c [arg]", f.letter))
		} else {
			words = append(words, fmt.Sprintf("-%c", f.letter))
		}
	}
	return strings.Join(words, " ")
}

// optionValue records every occurrence of one flag, in command line order,
// into the shared options slice.
type optionValue struct {
	flag     string
	takesArg bool
	options  *[]lib.Option
}

func (v *optionValue) String() string { return "" }

func (v *optionValue) Set(s string) error {
	if !v.takesArg {
		s = ""
	}
	*v.options = append(*v.options, lib.Option{Flag: v.flag, Value: s})
	return nil
}

func (v *optionValue) Type() string {
	if v.takesArg {
		return "string"
	}
	return "bool"
}

// parseGrammar parses args with GNU getopt semantics: options and
// positional arguments may be mixed, and "--" ends option parsing.
func parseGrammar(args []string, spec string) ([]lib.Option, []string, error) {
	fs := pflag.NewFlagSet("getopt", pflag.ContinueOnError)
	fs.SetOutput(ioutil.Discard)
	fs.Usage = func() {}
	fs.SetInterspersed(true)

	options := []lib.Option{}
	for _, f := range parseSpec(spec) {
		letter := string(f.letter)
		v := &optionValue{flag: "-" + letter, takesArg: f.takesArg, options: &options}
		flag := fs.VarPF(v, "getopt-"+letter, letter, "")
		if !f.takesArg {
			flag.NoOptDefVal = "true"
		}
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	arguments := fs.Args()
	if arguments == nil {
		arguments = []string{}
	}
	return options, arguments, nil
}

// Parse tries each grammar in order and returns the result of the first
// one that parses args, along with the printing system of that grammar.
// The order of grammars is a priority: when args parse under more than
// one grammar, the earlier grammar's reading wins.
func Parse(args []string, grammars []Grammar) (lib.PrintingSystem, []lib.Option, []string, error) {
	if len(grammars) == 0 {
		return 0, nil, nil, &SyntaxError{Err: fmt.Errorf("no grammars")}
	}

	var firstErr error
	for _, g := range grammars {
		options, arguments, err := parseGrammar(args, g.Spec)
		if err == nil {
			return g.System, options, arguments, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return 0, nil, nil, &SyntaxError{Usage: Usage(grammars[0].Spec), Err: firstErr}
}
