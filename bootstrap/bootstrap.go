/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package bootstrap connects the wrapper commands to the running system.
package bootstrap

import (
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/mit-athena/printing-config/cups"
	"github.com/mit-athena/printing-config/dispatch"
	"github.com/mit-athena/printing-config/hesiod"
	"github.com/mit-athena/printing-config/lib"
	"github.com/mit-athena/printing-config/log"
	"github.com/mit-athena/printing-config/lpd"
	"github.com/mit-athena/printing-config/probe"
	"github.com/mit-athena/printing-config/queue"
	"github.com/mit-athena/printing-config/wrapper"
)

// GetConfig reads the config file, falling back to the defaults when it
// can't be read, and sets up logging as it says.
func GetConfig(configFilename string) *lib.Config {
	config, cf, err := lib.GetConfig(configFilename)
	if err != nil {
		log.Warningf("Failed to read config file %s, so using defaults: %s", configFilename, err)
		c := lib.DefaultConfig
		config = &c
	}

	logLevel, ok := log.LevelFromString(config.LogLevel)
	if !ok {
		log.Warningf("Log level %s is not recognized", config.LogLevel)
		logLevel = log.WARNING
	}
	if os.Getenv(lib.DebugEnv) != "" {
		logLevel = log.DEBUG
	}
	log.SetLevel(logLevel)

	if config.LogToJournal != nil && *config.LogToJournal && log.JournalAvailable() {
		log.SetJournalEnabled(true)
	}

	if cf == "" {
		log.Debug("No config file was found, so using defaults")
	} else {
		log.Debugf("Using config file %s", cf)
	}

	return config
}

func duration(name, value, fallback string) time.Duration {
	d, ok := lib.ParseDuration(value, fallback)
	if !ok {
		log.Warningf("Failed to parse %s %q, so using %s", name, value, fallback)
	}
	return d
}

// NewDirectory returns a Hesiod client configured by hesiod.conf and
// resolv.conf. It never fails; without nameservers, every lookup is empty.
func NewDirectory(config *lib.Config) *hesiod.Hesiod {
	timeout := duration("hesiod_timeout", config.HesiodTimeout, lib.DefaultConfig.HesiodTimeout)

	conf, err := hesiod.ReadConf(config.HesiodConfigFilename)
	if err != nil {
		log.Warningf("Failed to read %s, so using Hesiod defaults: %s", config.HesiodConfigFilename, err)
		c := hesiod.DefaultConf
		conf = &c
	}

	h, err := hesiod.New(conf, config.ResolvConfFilename, timeout)
	if err != nil {
		log.Debug(err)
		return hesiod.NewWithServers(conf, nil, timeout)
	}
	return h
}

// NewSpooler returns a spooler that connects to the local CUPS daemon when
// first asked something.
func NewSpooler(config *lib.Config) *queue.LazySpooler {
	timeout := duration("cups_connect_timeout", config.CUPSConnectTimeout, lib.DefaultConfig.CUPSConnectTimeout)
	return queue.NewLazySpooler(func() (queue.Spooler, error) {
		c, err := cups.NewCUPS(timeout)
		if err != nil {
			// A nil *CUPS in a non-nil interface would look connected.
			return nil, err
		}
		return c, nil
	})
}

// NewEnvironment builds everything a wrapper command needs.
func NewEnvironment(configFilename string) *wrapper.Environment {
	config := GetConfig(configFilename)

	directory := NewDirectory(config)
	spooler := NewSpooler(config)
	prober := probe.NewProber(config.CUPSProbePort,
		duration("cups_probe_timeout", config.CUPSProbeTimeout, lib.DefaultConfig.CUPSProbeTimeout))
	lpdClient := lpd.NewClient(duration("lpd_timeout", config.LPDTimeout, lib.DefaultConfig.LPDTimeout))

	return &wrapper.Environment{
		Config:    config,
		Resolver:  queue.NewResolver(directory, spooler, prober, config.CUPSFrontends, config.CUPSBackendLocations),
		Directory: directory,
		Spooler:   spooler,

		LookupEnv: os.LookupEnv,
		Environ:   os.Environ,
		Hostname:  os.Hostname,

		Stdout: os.Stdout,
		Stderr: os.Stderr,

		Exec: func(i *dispatch.Invocation) error {
			spooler.Close()
			return dispatch.Exec(i)
		},
		QueueState:      lpdClient.ShortQueueState,
		CUPSClientIsOld: cupsClientIsOld,
	}
}

// cupsClientIsOld asks dpkg whether cups-bsd predates 1.4. On systems
// without dpkg, the CUPS client is assumed to be new enough.
func cupsClientIsOld() bool {
	version, err := exec.Command("dpkg-query", "-W", "-f", "${Version}", "cups-bsd").Output()
	if err != nil {
		log.Debugf("Failed to get the cups-bsd version: %s", err)
		return false
	}

	v := strings.TrimSpace(string(version))
	if v == "" {
		return false
	}
	// dpkg exits 0 when the comparison holds.
	return exec.Command("dpkg", "--compare-versions", v, "lt-nl", "1.4").Run() == nil
}
