// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pinned - client sessions trusted by certificate fingerprint
//
// a session dials a single endpoint, lets the TLS handshake complete
// without any certificate authority checks, and then judges the peer
// by exactly one criterion: the digest of the certificate it actually
// transmitted must match one of the configured pins.  only after that
// match does the session release the connection for application use.
//
// the session moves through fixed states:
//
//	Connecting  dialling and handshaking
//	Verifying   handshake done, fingerprint being checked
//	Established peer accepted, transfer allowed
//	Rejected    peer presented the wrong certificate (terminal)
//	Failed      transport or timeout trouble (terminal)
//	Closed      shut down locally or by the transport (terminal)
//
// a rejected or failed session keeps its state and error so the
// outcome can be inspected after the fact; any transfer attempt on it
// reports SessionNotEstablished.  retrying is the caller's decision
// and needs a new session.
//
// two transports are supported: plain TLS over TCP for a single byte
// stream, and QUIC for multiplexed streams.  endpoints are written as
// "host:port" or "quic://host:port".
package pinned
