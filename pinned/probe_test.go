// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pinned_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/pinned"
)

func TestProbeTLS(t *testing.T) {
	address := startTLSEcho(t)

	f, err := pinned.Probe(context.Background(), address, pinned.Options{})
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, fixtureFingerprint(t), f, "wrong digest")
}

func TestProbeQUIC(t *testing.T) {
	address := startQUICEcho(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f, err := pinned.Probe(ctx, "quic://"+address, pinned.Options{})
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, fixtureFingerprint(t), f, "wrong digest")
}

func TestProbeBadEndpoint(t *testing.T) {
	_, err := pinned.Probe(context.Background(), "no-port", pinned.Options{})
	assert.Equal(t, fault.InvalidEndpoint, err, "wrong error")
}

func TestProbeRefused(t *testing.T) {
	// grab an address that is certainly not listening
	probe, err := net.Listen("tcp", "127.0.0.1:0")
	if nil != err {
		t.Fatalf("listen failed: %s", err)
	}
	address := probe.Addr().String()
	probe.Close()

	_, err = pinned.Probe(context.Background(), address, pinned.Options{})
	assert.Equal(t, fault.TransportFailure, err, "wrong error")
}
