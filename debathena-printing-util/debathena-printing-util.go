/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package main

import (
	"fmt"
	"os"

	"github.com/mit-athena/printing-config/bootstrap"
	"github.com/mit-athena/printing-config/lib"
	"github.com/mit-athena/printing-config/probe"
	"github.com/urfave/cli"
)

var commands = []cli.Command{
	cli.Command{
		Name:      "resolve",
		ShortName: "r",
		Usage:     "Shows which printing system and server handle a queue",
		ArgsUsage: "QUEUE",
		Action:    resolveQueue,
	},
	cli.Command{
		Name:      "lookup",
		Usage:     "Looks up a Hesiod record, eg lookup ajax pcap",
		ArgsUsage: "NAME TYPE",
		Action:    hesiodLookup,
	},
	cli.Command{
		Name:      "probe",
		Usage:     "Checks whether a print server accepts IPP connections",
		ArgsUsage: "HOST",
		Action:    probeServer,
	},
	cli.Command{
		Name:   "default-printer",
		Usage:  "Shows the queue used when none is given",
		Action: showDefaultPrinter,
	},
	cli.Command{
		Name:   "destinations",
		Usage:  "Lists the queues of the local CUPS daemon and where they send jobs",
		Action: listDestinations,
	},
	cli.Command{
		Name:      "init-config",
		ShortName: "i",
		Usage:     "Creates a config file",
		Action:    initConfigFile,
		Flags:     initFlags,
	},
	cli.Command{
		Name:   "update-config-file",
		Usage:  "Add new options to config file after update",
		Action: updateConfigFile,
	},
}

func main() {
	app := cli.NewApp()
	app.Name = "debathena-printing-util"
	app.Usage = lib.FullName + " utility tools"
	app.Flags = []cli.Flag{
		lib.ConfigFilenameFlag,
	}
	app.Commands = commands

	app.Run(os.Args)
}

func configFilename(context *cli.Context) string {
	return context.GlobalString(lib.ConfigFilenameFlag.Name)
}

func usageError(context *cli.Context, n int) error {
	if len(context.Args()) == n {
		return nil
	}
	return cli.NewExitError(fmt.Sprintf("usage: %s %s", context.Command.Name, context.Command.ArgsUsage), lib.ExitUsage)
}

func resolveQueue(context *cli.Context) error {
	if err := usageError(context, 1); err != nil {
		return err
	}
	env := bootstrap.NewEnvironment(configFilename(context))

	r := env.Resolver.Resolve(context.Args().First())
	server := r.Server
	if server == "" {
		server = "(local CUPS default)"
	}
	fmt.Printf("Queue:  %s\nSystem: %s\nServer: %s\n", r.Queue, r.System, server)
	return nil
}

func hesiodLookup(context *cli.Context) error {
	if err := usageError(context, 2); err != nil {
		return err
	}
	config := bootstrap.GetConfig(configFilename(context))
	h := bootstrap.NewDirectory(config)

	name, hesiodType := context.Args().Get(0), context.Args().Get(1)
	records, err := h.Resolve(name, hesiodType)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("%s: %s", h.QueryName(name, hesiodType), err), lib.ExitInternal)
	}
	for _, r := range records {
		fmt.Println(r)
	}
	return nil
}

func probeServer(context *cli.Context) error {
	if err := usageError(context, 1); err != nil {
		return err
	}
	config := bootstrap.GetConfig(configFilename(context))
	timeout, _ := lib.ParseDuration(config.CUPSProbeTimeout, lib.DefaultConfig.CUPSProbeTimeout)
	p := probe.NewProber(config.CUPSProbePort, timeout)

	host := context.Args().First()
	if p.IsCUPSServer(host) {
		fmt.Printf("%s accepts IPP connections on port %d within %s, so it is a CUPS server\n", host, p.Port, p.Timeout)
	} else {
		fmt.Printf("%s does not accept IPP connections on port %d within %s, so it is an LPRng server\n", host, p.Port, p.Timeout)
	}
	return nil
}

func showDefaultPrinter(context *cli.Context) error {
	env := bootstrap.NewEnvironment(configFilename(context))
	p := env.DefaultPrinter()
	if p == "" {
		return cli.NewExitError("No default printer configured", lib.ExitUsage)
	}
	fmt.Println(p)
	return nil
}

func listDestinations(context *cli.Context) error {
	env := bootstrap.NewEnvironment(configFilename(context))
	destinations := env.Spooler.Destinations()
	if len(destinations) == 0 {
		fmt.Println("The local CUPS daemon has no destinations, or is not running")
		return nil
	}
	for _, d := range destinations {
		fmt.Printf("%s\t%s\n", d, env.Spooler.DeviceURI(d))
	}
	return nil
}
