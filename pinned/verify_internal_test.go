// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pinned

import (
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/fingerprint"
	"github.com/pintle-project/pintled/fixtures"
)

// a handshake that yields no certificate at all must be rejected
// before any digest comparison is attempted
func TestPeerFingerprintWithoutCertificate(t *testing.T) {
	_, err := peerFingerprint(nil)
	assert.Equal(t, fault.NoPeerCertificate, err, "wrong error")

	_, err = peerFingerprint([]*x509.Certificate{})
	assert.Equal(t, fault.NoPeerCertificate, err, "wrong error")
}

func TestPeerFingerprintDigestsTransmittedBytes(t *testing.T) {
	parsed, err := x509.ParseCertificate(fixtures.CertificateDER())
	assert.Nil(t, err, "wrong error")

	f, err := peerFingerprint([]*x509.Certificate{parsed})
	assert.Nil(t, err, "wrong error")

	expected, err := fingerprint.New(fixtures.CertificateDER(), fingerprint.SHA256)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, expected, f, "wrong digest")
}
