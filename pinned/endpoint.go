// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pinned

import (
	"net"
	"strconv"
	"strings"

	"github.com/pintle-project/pintled/fault"
)

// transport selection for an endpoint
type transport int

const (
	transportTLS transport = iota
	transportQUIC
)

// endpoint schemes
const (
	schemeQUIC = "quic://"
	schemeTLS  = "tls://"
)

// Endpoint - a validated peer address and its transport
type Endpoint struct {
	transport transport
	host      string
	port      string
}

// ParseEndpoint - validate an endpoint string
//
// accepted forms are "host:port" and "tls://host:port" for a TLS byte
// stream and "quic://host:port" for multiplexed streams; IPv6 hosts
// use the usual bracket form
func ParseEndpoint(s string) (Endpoint, error) {

	e := Endpoint{
		transport: transportTLS,
	}

	switch {
	case strings.HasPrefix(s, schemeQUIC):
		e.transport = transportQUIC
		s = s[len(schemeQUIC):]
	case strings.HasPrefix(s, schemeTLS):
		s = s[len(schemeTLS):]
	case strings.Contains(s, "//"):
		return Endpoint{}, fault.InvalidEndpoint
	}

	host, port, err := net.SplitHostPort(s)
	if nil != err {
		return Endpoint{}, fault.InvalidEndpoint
	}
	if "" == host {
		return Endpoint{}, fault.InvalidEndpoint
	}

	number, err := strconv.Atoi(port)
	if nil != err || number < 1 || number > 65535 {
		return Endpoint{}, fault.InvalidEndpoint
	}

	e.host = host
	e.port = port
	return e, nil
}

// Address - the host:port form used for dialling
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.host, e.port)
}

// Host - the host part without brackets
func (e Endpoint) Host() string {
	return e.host
}

// Port - the numeric port
func (e Endpoint) Port() int {
	n, _ := strconv.Atoi(e.port)
	return n
}

// IsStream - true when the transport multiplexes streams
func (e Endpoint) IsStream() bool {
	return transportQUIC == e.transport
}

// String - the canonical endpoint form including any scheme
func (e Endpoint) String() string {
	if transportQUIC == e.transport {
		return schemeQUIC + e.Address()
	}
	return e.Address()
}
