/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package hesiod looks up Hesiod records, which are DNS TXT records named
// <name>.<type><lhs><rhs>, usually in the HS class.
package hesiod

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/mit-athena/printing-config/log"

	"github.com/miekg/dns"
)

// ErrNotFound is returned when no nameserver has a record.
var ErrNotFound = errors.New("Hesiod record not found")

// Hesiod queries a fixed set of nameservers.
type Hesiod struct {
	conf      Conf
	servers   []string
	udpClient *dns.Client
	tcpClient *dns.Client
}

// New reads nameservers from resolvConf (resolv.conf(5) format).
func New(conf *Conf, resolvConf string, timeout time.Duration) (*Hesiod, error) {
	cc, err := dns.ClientConfigFromFile(resolvConf)
	if err != nil {
		return nil, fmt.Errorf("Failed to read nameservers from %s: %s", resolvConf, err)
	}

	servers := make([]string, 0, len(cc.Servers))
	for _, s := range cc.Servers {
		servers = append(servers, net.JoinHostPort(s, cc.Port))
	}
	return NewWithServers(conf, servers, timeout), nil
}

// NewWithServers queries servers, each a host:port.
func NewWithServers(conf *Conf, servers []string, timeout time.Duration) *Hesiod {
	return &Hesiod{
		conf:      *conf,
		servers:   servers,
		udpClient: &dns.Client{Net: "udp", Timeout: timeout},
		tcpClient: &dns.Client{Net: "tcp", Timeout: timeout},
	}
}

// QueryName returns the DNS name that holds the hesiodType record for name.
// A name of the form user@realm is looked up under realm instead of the
// configured right hand side.
func (h *Hesiod) QueryName(name, hesiodType string) string {
	rhs := h.conf.RHS
	if i := strings.LastIndex(name, "@"); i >= 0 {
		rhs = dotted(name[i+1:])
		name = name[:i]
	}
	return dns.Fqdn(name + "." + hesiodType + h.conf.LHS + rhs)
}

// Resolve returns the hesiodType records for name.
//
// Classes are tried in configured order; within a class, nameservers are
// tried in order until one answers.
func (h *Hesiod) Resolve(name, hesiodType string) ([]string, error) {
	if len(h.servers) == 0 {
		return nil, errors.New("No nameservers configured")
	}

	qname := h.QueryName(name, hesiodType)
	var lastErr error = ErrNotFound

	for _, class := range h.conf.Classes {
		m := new(dns.Msg)
		m.SetQuestion(qname, dns.TypeTXT)
		m.Question[0].Qclass = class

		for _, server := range h.servers {
			r, err := h.exchange(m, server)
			if err != nil {
				lastErr = err
				continue
			}
			if r.Rcode == dns.RcodeNameError {
				break
			}
			if r.Rcode != dns.RcodeSuccess {
				lastErr = fmt.Errorf("%s answered %s for %s", server, dns.RcodeToString[r.Rcode], qname)
				continue
			}

			if results := txtStrings(r.Answer); len(results) > 0 {
				return results, nil
			}
			break
		}
	}

	return nil, lastErr
}

func (h *Hesiod) exchange(m *dns.Msg, server string) (*dns.Msg, error) {
	r, _, err := h.udpClient.Exchange(m, server)
	if err != nil {
		return nil, err
	}
	if r.Truncated {
		r, _, err = h.tcpClient.Exchange(m, server)
	}
	return r, err
}

func txtStrings(answer []dns.RR) []string {
	var results []string
	for _, rr := range answer {
		if txt, ok := rr.(*dns.TXT); ok {
			results = append(results, strings.Join(txt.Txt, ""))
		}
	}
	return results
}

// Lookup is Resolve without errors: any failure is an empty result.
func (h *Hesiod) Lookup(name, hesiodType string) []string {
	results, err := h.Resolve(name, hesiodType)
	if err != nil {
		log.Debugf("Hesiod lookup of %s failed: %s", h.QueryName(name, hesiodType), err)
		return []string{}
	}
	return results
}
