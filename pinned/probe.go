// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pinned

import (
	"context"
	"crypto/tls"
	"net"

	quic "github.com/quic-go/quic-go"

	"github.com/pintle-project/pintled/fingerprint"
)

// Probe - fetch the certificate digest an endpoint currently transmits
//
// nothing about the peer is verified: no pin is checked and certificate
// authority verification stays disabled.  the digest identifies the
// certificate actually served and is only useful for provisioning a pin
// or for comparing against a value delivered out-of-band; the
// connection itself is discarded
func Probe(ctx context.Context, endpoint string, options Options) (fingerprint.Fingerprint, error) {

	e, err := ParseEndpoint(endpoint)
	if nil != err {
		return fingerprint.Fingerprint{}, err
	}

	if options.HandshakeTimeout <= 0 {
		options.HandshakeTimeout = DefaultHandshakeTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, options.HandshakeTimeout)
	defer cancel()

	if transportQUIC == e.transport {
		return probeQUIC(ctx, e, options)
	}
	return probeTLS(ctx, e, options)
}

func probeTLS(ctx context.Context, e Endpoint, options Options) (fingerprint.Fingerprint, error) {

	dialer := &tls.Dialer{
		NetDialer: new(net.Dialer),
		Config:    dialTLSConfig(e, options),
	}

	c, err := dialer.DialContext(ctx, "tcp", e.Address())
	if nil != err {
		return fingerprint.Fingerprint{}, classifyDialError(err)
	}
	conn := c.(*tls.Conn)
	defer conn.Close()

	return peerFingerprint(conn.ConnectionState().PeerCertificates)
}

func probeQUIC(ctx context.Context, e Endpoint, options Options) (fingerprint.Fingerprint, error) {

	conf := &quic.Config{
		HandshakeIdleTimeout: options.HandshakeTimeout,
	}

	conn, err := quic.DialAddr(ctx, e.Address(), dialTLSConfig(e, options), conf)
	if nil != err {
		return fingerprint.Fingerprint{}, classifyDialError(err)
	}
	defer conn.CloseWithError(closeCodeNormal, "probe")

	return peerFingerprint(conn.ConnectionState().TLS.PeerCertificates)
}
