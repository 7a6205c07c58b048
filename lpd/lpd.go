/*
Copyright 2016 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package lpd speaks just enough RFC 1179 to ask a print server for the
// state of a queue.
package lpd

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

const (
	DefaultPort    = 515
	DefaultTimeout = 10 * time.Second

	// sendQueueStateShort is the RFC 1179 command code for a short listing.
	sendQueueStateShort = 0x03
)

type Client struct {
	Port    uint16
	Timeout time.Duration
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{DefaultPort, timeout}
}

// ShortQueueState returns the short queue listing of queue on host. The
// whole exchange must finish within the client's timeout.
func (c *Client) ShortQueueState(host, queue string) (string, error) {
	address := net.JoinHostPort(host, strconv.Itoa(int(c.Port)))
	conn, err := net.DialTimeout("tcp", address, c.Timeout)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if err = conn.SetDeadline(time.Now().Add(c.Timeout)); err != nil {
		return "", err
	}

	if _, err = fmt.Fprintf(conn, "%c%s\n", sendQueueStateShort, queue); err != nil {
		return "", fmt.Errorf("Failed to send queue state request to %s: %s", address, err)
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("Failed to read queue state from %s: %s", address, err)
	}
	return string(reply), nil
}
