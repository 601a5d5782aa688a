// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"io"
	"strings"

	"github.com/bitmark-inc/listener"
	"github.com/bitmark-inc/logger"

	"github.com/pintle-project/pintled/fault"
)

// the TLS echo listeners
type serverChannel struct {
	// initial values
	limit     int
	addresses []string

	// filled in later
	tlsConfiguration *tls.Config
	limiter          *listener.Limiter
	listener         *listener.MultiListener
	argument         interface{}
}

// argument handed to every connection callback
type echoArgument struct {
	log *logger.L
}

func newEchoServer(service *ServiceType, tlsConfiguration *tls.Config) (*serverChannel, error) {
	server := &serverChannel{
		limit:            service.MaximumConnections,
		addresses:        canonicalAddresses(service.Listen),
		tlsConfiguration: tlsConfiguration,
	}

	// valid when serving QUIC only
	if 0 == len(server.addresses) {
		return server, nil
	}

	if server.limit < 1 {
		return nil, fault.MissingParameters
	}

	server.limiter = listener.NewLimiter(server.limit)
	server.argument = &echoArgument{
		log: logger.New("echo"),
	}

	ml, err := listener.NewMultiListener("echo", server.addresses, server.tlsConfiguration, server.limiter, echoCallback)
	if nil != err {
		return nil, err
	}
	server.listener = ml

	return server, nil
}

// change "*:PORT" to "[::]:PORT"
// on the assumption that this will listen on tcp4 and tcp6
func canonicalAddresses(addresses []string) []string {
	result := make([]string, len(addresses))
	for i, address := range addresses {
		if 0 != len(address) && '*' == address[0] {
			address = "[::]" + ":" + strings.Split(address, ":")[1]
		}
		result[i] = address
	}
	return result
}

// echo every byte back until the client closes
func echoCallback(conn *listener.ClientConnection, argument interface{}) {
	serverArgument := argument.(*echoArgument)
	log := serverArgument.log

	servedTLS.Increment()
	log.Debugf("echo session start, active: %d", activeTLS.Increment())

	_, err := io.Copy(conn, conn)
	if nil != err {
		log.Debugf("echo session error: %s", err)
	}
	conn.Close()

	log.Debugf("echo session finished, active: %d", activeTLS.Decrement())
}
