/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package hesiod

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/miekg/dns"
)

// Conf is the contents of hesiod.conf(5).
type Conf struct {
	LHS     string
	RHS     string
	Classes []uint16
}

// DefaultConf matches the libhesiod defaults used on Athena.
var DefaultConf = Conf{
	LHS:     ".ns",
	RHS:     ".athena.mit.edu",
	Classes: []uint16{dns.ClassINET, dns.ClassHESIOD},
}

// ReadConf reads a hesiod.conf file. A missing file yields DefaultConf.
func ReadConf(filename string) (*Conf, error) {
	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		c := DefaultConf
		return &c, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseConf(f)
}

func parseConf(r io.Reader) (*Conf, error) {
	c := DefaultConf
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key, value := strings.ToLower(strings.TrimSpace(kv[0])), strings.TrimSpace(kv[1])

		switch key {
		case "lhs":
			c.LHS = dotted(value)
		case "rhs":
			c.RHS = dotted(value)
		case "classes":
			classes, err := parseClasses(value)
			if err != nil {
				return nil, err
			}
			c.Classes = classes
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

func parseClasses(value string) ([]uint16, error) {
	var classes []uint16
	for _, name := range strings.Split(value, ",") {
		switch strings.ToUpper(strings.TrimSpace(name)) {
		case "IN":
			classes = append(classes, dns.ClassINET)
		case "HS":
			classes = append(classes, dns.ClassHESIOD)
		case "":
		default:
			return nil, fmt.Errorf("Unknown Hesiod class %q", name)
		}
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("No Hesiod classes in %q", value)
	}
	return classes, nil
}

// dotted gives a non-empty domain fragment its leading dot.
func dotted(s string) string {
	if s != "" && !strings.HasPrefix(s, ".") {
		return "." + s
	}
	return s
}
