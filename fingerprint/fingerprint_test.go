// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/fingerprint"
	"github.com/pintle-project/pintled/fixtures"
)

// digests of the fixture certificate, cross checked with:
//
//	openssl x509 -noout -fingerprint -sha256
//	openssl dgst -sha256 -binary cert.der | openssl base64 -A
const (
	fixtureHex    = "f4da4ef2f22ac1796a86576d62b9b7ed453be00978dec515fd04ffa2e57393fe"
	fixtureColons = "F4:DA:4E:F2:F2:2A:C1:79:6A:86:57:6D:62:B9:B7:ED:45:3B:E0:09:78:DE:C5:15:FD:04:FF:A2:E5:73:93:FE"
	fixtureBase64 = "9NpO8vIqwXlqhldtYrm37UU74Al43sUV/QT/ouVzk/4="
)

func TestKnownCertificate(t *testing.T) {
	der := fixtures.CertificateDER()

	f, err := fingerprint.New(der, fingerprint.SHA256)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, fixtureHex, f.String(), "wrong hex digest")
	assert.Equal(t, fixtureColons, f.ColonString(), "wrong colon digest")
	assert.Equal(t, fixtureBase64, f.Base64(), "wrong base64 digest")
	assert.False(t, f.IsZero(), "zero digest")

	// identical input must give an identical digest
	g, err := fingerprint.New(der, fingerprint.SHA256)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, f, g, "digest not deterministic")
}

func TestDifferingCertificates(t *testing.T) {
	der := fixtures.CertificateDER()

	altered := make([]byte, len(der))
	copy(altered, der)
	altered[len(altered)-1] ^= 0x01

	f, err := fingerprint.New(der, fingerprint.SHA256)
	assert.Nil(t, err, "wrong error")
	g, err := fingerprint.New(altered, fingerprint.SHA256)
	assert.Nil(t, err, "wrong error")
	assert.NotEqual(t, f, g, "differing input gave equal digests")
}

func TestInvalidCertificateData(t *testing.T) {
	der := fixtures.CertificateDER()

	// truncated DER, trailing bytes and a non-SEQUENCE element are all
	// structurally damaged
	damaged := [][]byte{
		nil,
		{},
		[]byte("this is not a certificate"),
		der[:10],
		append(der, 0x00),
		{0x02, 0x01, 0x01},
	}

	for i, item := range damaged {
		_, err := fingerprint.New(item, fingerprint.SHA256)
		assert.Equal(t, fault.InvalidCertificateData, err, "wrong error: %d", i)
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	der := fixtures.CertificateDER()

	unsupported := []fingerprint.Algorithm{
		"sha-512",
		"sha-1",
		"md5",
		"SHA-256", // names match exactly
		"",
	}

	for i, algorithm := range unsupported {
		_, err := fingerprint.New(der, algorithm)
		assert.Equal(t, fault.UnsupportedAlgorithm, err, "wrong error: %d", i)
	}

	assert.Nil(t, fingerprint.CheckAlgorithm(fingerprint.SHA256), "wrong error")
}

func TestFromHex(t *testing.T) {
	f, err := fingerprint.FromHex(fixtureHex)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, fixtureHex, f.String(), "wrong digest")

	// the openssl colon form parses to the same value
	g, err := fingerprint.FromHex(fixtureColons)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, f, g, "colon form gave different digest")

	_, err = fingerprint.FromHex(fixtureHex[:62])
	assert.Equal(t, fault.InvalidFingerprintLength, err, "wrong error")

	_, err = fingerprint.FromHex("zz" + fixtureHex[2:])
	assert.Equal(t, fault.InvalidFingerprintEncoding, err, "wrong error")
}

func TestFromBase64(t *testing.T) {
	f, err := fingerprint.FromBase64(fixtureBase64)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, fixtureHex, f.String(), "wrong digest")

	_, err = fingerprint.FromBase64("AAAA")
	assert.Equal(t, fault.InvalidFingerprintLength, err, "wrong error")

	_, err = fingerprint.FromBase64("not base64 at all!")
	assert.Equal(t, fault.InvalidFingerprintEncoding, err, "wrong error")
}

func TestMarshalText(t *testing.T) {
	f, err := fingerprint.FromHex(fixtureHex)
	assert.Nil(t, err, "wrong error")

	marshalled, err := f.MarshalText()
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, fixtureHex, string(marshalled), "wrong content")

	var g fingerprint.Fingerprint
	err = g.UnmarshalText(marshalled)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, f, g, "wrong unmarshalled value")
}
