/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package main

import (
	"fmt"

	"github.com/mit-athena/printing-config/lib"
	"github.com/mit-athena/printing-config/log"
	"github.com/urfave/cli"
)

var initFlags = []cli.Flag{
	cli.StringSliceFlag{
		Name:  "cups-frontends",
		Usage: "Athena CUPS servers that local queues bounce to (default: the Athena servers)",
	},
	cli.StringFlag{
		Name:  "cups-probe-timeout",
		Usage: "How long to wait for a print server to accept IPP connections",
		Value: lib.DefaultConfig.CUPSProbeTimeout,
	},
	cli.StringFlag{
		Name:  "shared-queue-name",
		Usage: "Queue suggested to users who print to a queue that does not exist",
		Value: lib.DefaultConfig.SharedQueueName,
	},
	cli.StringFlag{
		Name:  "lpq-rfc1179-fallback",
		Usage: "When lpq asks print servers directly for queue state: auto, always or never",
		Value: lib.DefaultConfig.LPQRFC1179Fallback,
	},
	cli.StringFlag{
		Name:  "log-level",
		Usage: "Minimum event severity to log: FATAL, ERROR, WARNING, INFO, DEBUG",
		Value: lib.DefaultConfig.LogLevel,
	},
	cli.BoolFlag{
		Name:  "log-to-journal",
		Usage: "Log to the systemd journal (if available) as well as to stderr",
	},
}

func initConfigFile(context *cli.Context) error {
	config := lib.DefaultConfig

	if frontends := context.StringSlice("cups-frontends"); len(frontends) > 0 {
		config.CUPSFrontends = frontends
	}
	config.CUPSProbeTimeout = context.String("cups-probe-timeout")
	config.SharedQueueName = context.String("shared-queue-name")
	config.LPQRFC1179Fallback = context.String("lpq-rfc1179-fallback")
	config.LogLevel = context.String("log-level")
	config.LogToJournal = lib.PointerToBool(context.Bool("log-to-journal"))

	if _, ok := lib.ParseDuration(config.CUPSProbeTimeout, lib.DefaultConfig.CUPSProbeTimeout); !ok {
		return cli.NewExitError(fmt.Sprintf("Failed to parse cups-probe-timeout %q", config.CUPSProbeTimeout), lib.ExitUsage)
	}
	if _, ok := log.LevelFromString(config.LogLevel); !ok {
		return cli.NewExitError(fmt.Sprintf("Log level %s is not recognized", config.LogLevel), lib.ExitUsage)
	}

	configFilename, err := config.ToFile(configFilename(context))
	if err != nil {
		return cli.NewExitError(err.Error(), lib.ExitInternal)
	}
	fmt.Printf("The config file %s is ready to rock.\n", configFilename)
	return nil
}

// updateConfigFile opens the config file, adds any missing fields,
// writes the config file back.
func updateConfigFile(context *cli.Context) error {
	config, cf, err := lib.GetConfig(configFilename(context))
	if err != nil {
		return cli.NewExitError(err.Error(), lib.ExitInternal)
	}
	if cf == "" {
		fmt.Println("Could not find a config file to update")
		return nil
	}

	missing, err := lib.MissingKeys(cf)
	if err != nil {
		return cli.NewExitError(err.Error(), lib.ExitInternal)
	}
	if len(missing) == 0 {
		fmt.Println("Didn't find anything to update")
		return nil
	}
	for _, key := range missing {
		fmt.Printf("Added %s\n", key)
	}

	// GetConfig already filled the missing keys with defaults.
	if _, err = config.ToFile(cf); err != nil {
		return cli.NewExitError(err.Error(), lib.ExitInternal)
	}
	fmt.Printf("Wrote %s\n", cf)
	return nil
}
