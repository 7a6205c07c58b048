/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package main

import (
	"os"

	"github.com/mit-athena/printing-config/bootstrap"
	"github.com/mit-athena/printing-config/lib"
)

func main() {
	env := bootstrap.NewEnvironment(lib.ConfigFilenameFromEnv())
	os.Exit(env.Lpr(os.Args))
}
