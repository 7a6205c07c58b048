/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package lib

import "fmt"

// PrintingSystem identifies the printing stack that handles a queue.
type PrintingSystem uint8

const (
	SystemCUPS PrintingSystem = iota
	SystemLPRng
)

// Systems is the canonical order of preference for printing systems.
// Argument parsing tries grammars in this order.
var Systems = []PrintingSystem{SystemCUPS, SystemLPRng}

func (s PrintingSystem) String() string {
	switch s {
	case SystemCUPS:
		return "CUPS"
	case SystemLPRng:
		return "LPRng"
	default:
		return fmt.Sprintf("unknown (%d)", uint8(s))
	}
}
