/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package translate converts LPRng lpr options to their CUPS equivalents.
package translate

import (
	"fmt"

	"github.com/mit-athena/printing-config/lib"
)

// sides maps LPRng -Z duplex values to the CUPS sides option.
var sides = map[string]string{
	"simplex":     "sides=one-sided",
	"duplex":      "sides=two-sided-long-edge",
	"duplexshort": "sides=two-sided-short-edge",
}

// LPRngToCUPS translates options parsed with the LPRng lpr grammar into
// CUPS lpr options, in the same order. Options without a CUPS equivalent
// are dropped, and a warning naming each is returned.
func LPRngToCUPS(options []lib.Option) ([]lib.Option, []string) {
	cups := make([]lib.Option, 0, len(options))
	var warnings []string

	for _, o := range options {
		switch o.Flag {
		case "-b", "-l":
			cups = append(cups, lib.Option{Flag: "-l", Value: o.Value})
		case "-h", "-J", "-P", "-T", "-U":
			cups = append(cups, o)
		case "-K", "-#":
			cups = append(cups, lib.Option{Flag: "-#", Value: o.Value})
		case "-Z":
			if side, exists := sides[o.Value]; exists {
				cups = append(cups, lib.Option{Flag: "-o", Value: side})
			} else {
				warnings = append(warnings, notConverted(o))
			}
		case "-m":
			// Notifications always go to the user running the command, so
			// the LPRng recipient is dropped.
			cups = append(cups, lib.Option{Flag: "-m", Value: ""})
		default:
			warnings = append(warnings, notConverted(o))
		}
	}

	return cups, warnings
}

func notConverted(o lib.Option) string {
	return fmt.Sprintf("Warning: option %s not converted to CUPS\n", o)
}
