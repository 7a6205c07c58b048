/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package lib

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/tidwall/jsonc"
	"github.com/urfave/cli"
)

const defaultConfigFilename = "/etc/debathena-printing.config.json"

var ConfigFilenameFlag = cli.StringFlag{
	Name:   "config-filename",
	Usage:  "Printing config filename",
	Value:  defaultConfigFilename,
	EnvVar: ConfigFilenameEnv,
}

type Config struct {
	// Hostnames of the Athena CUPS print servers that local queues bounce to.
	CUPSFrontends []string `json:"cups_frontends,omitempty"`

	// Hesiod sloc names listing additional Athena CUPS servers.
	CUPSBackendLocations []string `json:"cups_backend_locations,omitempty"`

	// Timeout for opening a connection to the local CUPS daemon.
	CUPSConnectTimeout string `json:"cups_connect_timeout,omitempty"`

	// Port probed to decide whether a print server runs CUPS.
	CUPSProbePort uint16 `json:"cups_probe_port,omitempty"`

	// Timeout (eg 300ms) for the CUPS probe.
	CUPSProbeTimeout string `json:"cups_probe_timeout,omitempty"`

	// Prefix of the CUPS backend commands, eg cups-lpr.
	CUPSCommandPrefix string `json:"cups_command_prefix,omitempty"`

	// Prefix of the LPRng backend commands, eg mit-lpr.
	LPRngCommandPrefix string `json:"lprng_command_prefix,omitempty"`

	// Hesiod client configuration.
	HesiodConfigFilename string `json:"hesiod_config_filename,omitempty"`

	// Resolver configuration listing the nameservers for Hesiod queries.
	ResolvConfFilename string `json:"resolv_conf_filename,omitempty"`

	// Timeout for a single Hesiod query.
	HesiodTimeout string `json:"hesiod_timeout,omitempty"`

	// Queue suggested to users who print to a queue that does not exist.
	SharedQueueName string `json:"shared_queue_name,omitempty"`

	SharedQueueHelpURL string `json:"shared_queue_help_url,omitempty"`

	// Documentation of the LPRng argument deprecation.
	ArgumentsHelpURL string `json:"arguments_help_url,omitempty"`

	// Documentation of the $LPROPT deprecation.
	LPROPTHelpURL string `json:"lpropt_help_url,omitempty"`

	// When lpq talks RFC 1179 directly to the print server: auto, always or never.
	LPQRFC1179Fallback string `json:"lpq_rfc1179_fallback,omitempty"`

	// Timeout for the RFC 1179 lpq fallback.
	LPDTimeout string `json:"lpd_timeout,omitempty"`

	// Least severity to log.
	LogLevel string `json:"log_level"`

	// Log to the systemd journal in addition to stderr?
	LogToJournal *bool `json:"log_to_journal,omitempty"`
}

// DefaultConfig represents reasonable default values for Config fields.
var DefaultConfig = Config{
	CUPSFrontends: []string{
		"printers.mit.edu",
		"cluster-printers.mit.edu",
		"cups.mit.edu",
	},
	CUPSBackendLocations: []string{"cups-print", "cups-cluster"},
	CUPSConnectTimeout:   "5s",
	CUPSProbePort:        631,
	CUPSProbeTimeout:     "300ms",
	CUPSCommandPrefix:    "cups-",
	LPRngCommandPrefix:   "mit-",

	HesiodConfigFilename: "/etc/hesiod.conf",
	ResolvConfFilename:   "/etc/resolv.conf",
	HesiodTimeout:        "2s",

	SharedQueueName:    "mitprint",
	SharedQueueHelpURL: "http://mit.edu/printing/pharos",
	ArgumentsHelpURL:   "http://kb.mit.edu/confluence/x/HgAABw",
	LPROPTHelpURL:      "http://kb.mit.edu/confluence/x/awCxAQ",

	LPQRFC1179Fallback: "auto",
	LPDTimeout:         "10s",

	LogLevel:     "WARNING",
	LogToJournal: PointerToBool(false),
}

func PointerToBool(b bool) *bool {
	return &b
}

// ConfigFilenameFromEnv returns the config filename named by
// $DEBATHENA_PRINTING_CONFIG, or the default.
func ConfigFilenameFromEnv() string {
	if cf := os.Getenv(ConfigFilenameEnv); cf != "" {
		return cf
	}
	return defaultConfigFilename
}

// getConfigFilename gets the absolute filename of the config file, and
// whether it exists.
//
// If the (relative or absolute) filename exists, then it is returned.
// If the filename exists in a valid XDG path, then it is returned.
// If neither of those exist, the (relative or absolute) filename is returned.
func getConfigFilename(cf string) (string, bool) {
	if filepath.IsAbs(cf) {
		_, err := os.Stat(cf)
		return cf, err == nil
	}

	absCF, err := filepath.Abs(cf)
	if err != nil {
		// syscall failure; treat as if file doesn't exist.
		return cf, false
	}
	if _, err := os.Stat(absCF); err == nil {
		return absCF, true
	}

	if xdgCF, err := xdg.SearchConfigFile(cf); err == nil {
		return xdgCF, true
	}

	return absCF, false
}

// GetConfig reads the config file named cf, and returns the config along
// with the filename that was read. When no config file exists, the
// returned filename is empty and the config is DefaultConfig.
//
// The config file is JSON; comments and trailing commas are allowed.
func GetConfig(cf string) (*Config, string, error) {
	configFilename, exists := getConfigFilename(cf)
	if !exists {
		c := DefaultConfig
		return &c, "", nil
	}

	b, err := ioutil.ReadFile(configFilename)
	if err != nil {
		return nil, "", err
	}
	config, err := parseConfig(b)
	if err != nil {
		return nil, "", err
	}
	return config, configFilename, nil
}

func parseConfig(b []byte) (*Config, error) {
	b = jsonc.ToJSON(b)

	var config Config
	if err := json.Unmarshal(b, &config); err != nil {
		return nil, err
	}

	// Same config in map format so that we can detect missing keys.
	var configMap map[string]interface{}
	if err := json.Unmarshal(b, &configMap); err != nil {
		return nil, err
	}

	return config.Backfill(configMap), nil
}

// Backfill returns a copy of this config with all missing keys set to default values.
func (c *Config) Backfill(configMap map[string]interface{}) *Config {
	b := *c

	if _, exists := configMap["cups_frontends"]; !exists {
		b.CUPSFrontends = DefaultConfig.CUPSFrontends
	}
	if _, exists := configMap["cups_backend_locations"]; !exists {
		b.CUPSBackendLocations = DefaultConfig.CUPSBackendLocations
	}
	if _, exists := configMap["cups_connect_timeout"]; !exists {
		b.CUPSConnectTimeout = DefaultConfig.CUPSConnectTimeout
	}
	if _, exists := configMap["cups_probe_port"]; !exists {
		b.CUPSProbePort = DefaultConfig.CUPSProbePort
	}
	if _, exists := configMap["cups_probe_timeout"]; !exists {
		b.CUPSProbeTimeout = DefaultConfig.CUPSProbeTimeout
	}
	if _, exists := configMap["cups_command_prefix"]; !exists {
		b.CUPSCommandPrefix = DefaultConfig.CUPSCommandPrefix
	}
	if _, exists := configMap["lprng_command_prefix"]; !exists {
		b.LPRngCommandPrefix = DefaultConfig.LPRngCommandPrefix
	}
	if _, exists := configMap["hesiod_config_filename"]; !exists {
		b.HesiodConfigFilename = DefaultConfig.HesiodConfigFilename
	}
	if _, exists := configMap["resolv_conf_filename"]; !exists {
		b.ResolvConfFilename = DefaultConfig.ResolvConfFilename
	}
	if _, exists := configMap["hesiod_timeout"]; !exists {
		b.HesiodTimeout = DefaultConfig.HesiodTimeout
	}
	if _, exists := configMap["shared_queue_name"]; !exists {
		b.SharedQueueName = DefaultConfig.SharedQueueName
	}
	if _, exists := configMap["shared_queue_help_url"]; !exists {
		b.SharedQueueHelpURL = DefaultConfig.SharedQueueHelpURL
	}
	if _, exists := configMap["arguments_help_url"]; !exists {
		b.ArgumentsHelpURL = DefaultConfig.ArgumentsHelpURL
	}
	if _, exists := configMap["lpropt_help_url"]; !exists {
		b.LPROPTHelpURL = DefaultConfig.LPROPTHelpURL
	}
	if _, exists := configMap["lpq_rfc1179_fallback"]; !exists {
		b.LPQRFC1179Fallback = DefaultConfig.LPQRFC1179Fallback
	}
	if _, exists := configMap["lpd_timeout"]; !exists {
		b.LPDTimeout = DefaultConfig.LPDTimeout
	}
	if _, exists := configMap["log_level"]; !exists {
		b.LogLevel = DefaultConfig.LogLevel
	}
	if _, exists := configMap["log_to_journal"]; !exists {
		b.LogToJournal = DefaultConfig.LogToJournal
	}

	return &b
}

// MissingKeys returns the keys of Config that the config file cf doesn't
// set, in Config field order.
func MissingKeys(cf string) ([]string, error) {
	b, err := ioutil.ReadFile(cf)
	if err != nil {
		return nil, err
	}

	var configMap map[string]interface{}
	if err = json.Unmarshal(jsonc.ToJSON(b), &configMap); err != nil {
		return nil, err
	}

	var missing []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		key := strings.Split(t.Field(i).Tag.Get("json"), ",")[0]
		if _, exists := configMap[key]; !exists {
			missing = append(missing, key)
		}
	}
	return missing, nil
}

// ToFile writes this config to the named file.
func (c *Config) ToFile(cf string) (string, error) {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}

	if err = ioutil.WriteFile(cf, b, 0644); err != nil {
		return "", err
	}
	return cf, nil
}

// ParseDuration parses s, falling back to the parsed fallback when s is
// empty or malformed. The second return value is false on fallback
// because of a malformed s.
func ParseDuration(s, fallback string) (time.Duration, bool) {
	if s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d, true
		}
	}
	d, _ := time.ParseDuration(fallback)
	return d, s == ""
}
