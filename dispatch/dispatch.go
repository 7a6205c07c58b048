/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package dispatch hands a printing command to the CUPS or LPRng version
// of that command, replacing the running process.
package dispatch

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mit-athena/printing-config/lib"

	"golang.org/x/sys/unix"
)

var ErrUnknownSystem = errors.New("Unknown printing infrastructure")

// Tests replace these to capture the exec instead of replacing the
// test binary.
var (
	execFunc = unix.Exec
	lookPath = exec.LookPath
)

// Prefixes name the backend commands, eg cups-lpr and mit-lpr.
type Prefixes struct {
	CUPS  string
	LPRng string
}

func (p Prefixes) prefix(system lib.PrintingSystem) (string, error) {
	switch system {
	case lib.SystemCUPS:
		return p.CUPS, nil
	case lib.SystemLPRng:
		return p.LPRng, nil
	default:
		return "", ErrUnknownSystem
	}
}

// Invocation is a fully prepared backend command. Running it is the last
// thing a wrapper does.
type Invocation struct {
	// Binary is the backend command, looked up in $PATH.
	Binary string
	// Argv includes argv[0], which is the wrapped command name.
	Argv []string
	Env  []string
	// Server is the value given to $CUPS_SERVER, if any.
	Server string
}

// NewInvocation prepares command for system. When server is not empty,
// $CUPS_SERVER is set to it so that the backend talks to that server
// instead of its configured default.
func NewInvocation(prefixes Prefixes, system lib.PrintingSystem, command string, args []string, server string, environ []string) (*Invocation, error) {
	prefix, err := prefixes.prefix(system)
	if err != nil {
		return nil, err
	}

	argv := make([]string, 0, len(args)+1)
	argv = append(argv, command)
	argv = append(argv, args...)

	env := environ
	if server != "" {
		env = setenv(environ, lib.CUPSServerEnv, server)
	}

	return &Invocation{
		Binary: prefix + command,
		Argv:   argv,
		Env:    env,
		Server: server,
	}, nil
}

// setenv returns a copy of environ with key set to value.
func setenv(environ []string, key, value string) []string {
	env := make([]string, 0, len(environ)+1)
	for _, kv := range environ {
		if !strings.HasPrefix(kv, key+"=") {
			env = append(env, kv)
		}
	}
	return append(env, key+"="+value)
}

// String describes the invocation like a shell command line, including
// whichever $CUPS_SERVER the backend will see.
func (i *Invocation) String() string {
	server := ""
	for _, kv := range i.Env {
		if strings.HasPrefix(kv, lib.CUPSServerEnv+"=") {
			server = kv[len(lib.CUPSServerEnv)+1:]
		}
	}
	return fmt.Sprintf("%s=%s %s %s", lib.CUPSServerEnv, server, i.Binary, strings.Join(i.Argv[1:], " "))
}

// Exec replaces the current process with the invocation. It only returns
// on failure.
func Exec(i *Invocation) error {
	path, err := lookPath(i.Binary)
	if err != nil {
		return err
	}
	return execFunc(path, i.Argv, i.Env)
}
