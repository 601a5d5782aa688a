// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fingerprint - certificate fingerprint computation
//
// A fingerprint is the digest of a certificate exactly as transmitted
// on the wire, i.e. over the raw DER bytes, never over a re-encoded or
// otherwise normalised form.  Two certificates match if and only if
// their digest bytes are identical.
//
// the digest is SHA-256 because of:
//
//	openssl x509 -noout -in pintled.crt -fingerprint -sha256
//
// so any stored value can be double checked on the command line.
package fingerprint

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/pintle-project/pintled/fault"
)

// Size - number of bytes in a fingerprint
const Size = sha256.Size

// Algorithm - name of a digest algorithm in its IANA textual form
type Algorithm string

// supported digest algorithms
const (
	SHA256 Algorithm = "sha-256"
)

// Fingerprint - digest over the raw DER bytes of a certificate
type Fingerprint [Size]byte

// CheckAlgorithm - ensure a digest algorithm is supported
//
// algorithm names are matched exactly; callers accepting operator
// input are expected to lower case it first
func CheckAlgorithm(algorithm Algorithm) error {
	switch algorithm {
	case SHA256:
		return nil
	default:
		return fault.UnsupportedAlgorithm
	}
}

// New - compute the fingerprint of a certificate supplied in raw DER form
//
// the bytes are digested exactly as supplied so the result matches what
// the peer actually sent; the only validation is a cheap envelope check
// that the input is a single DER SEQUENCE spanning the whole buffer
func New(certificate []byte, algorithm Algorithm) (Fingerprint, error) {
	err := CheckAlgorithm(algorithm)
	if nil != err {
		return Fingerprint{}, err
	}

	err = checkEnvelope(certificate)
	if nil != err {
		return Fingerprint{}, err
	}

	return sha256.Sum256(certificate), nil
}

// checkEnvelope - detect empty or structurally damaged input
//
// full X.509 parsing is deliberately not done here: the digest must
// cover the transmitted bytes even when inner fields are exotic
func checkEnvelope(certificate []byte) error {
	if 0 == len(certificate) {
		return fault.InvalidCertificateData
	}

	input := cryptobyte.String(certificate)
	var inner cryptobyte.String
	if !input.ReadASN1(&inner, cryptobyte_asn1.SEQUENCE) || !input.Empty() {
		return fault.InvalidCertificateData
	}

	return nil
}

// String - lower case hex, the logging and configuration file form
func (fingerprint Fingerprint) String() string {
	return hex.EncodeToString(fingerprint[:])
}

// ColonString - upper case hex pairs separated by colons
//
// this is the openssl display form
func (fingerprint Fingerprint) ColonString() string {
	hexed := strings.ToUpper(hex.EncodeToString(fingerprint[:]))
	buffer := make([]byte, 0, 3*Size)
	for i := 0; i < len(hexed); i += 2 {
		if 0 != i {
			buffer = append(buffer, ':')
		}
		buffer = append(buffer, hexed[i], hexed[i+1])
	}
	return string(buffer)
}

// Base64 - standard base64 with padding, the embedded pin form
func (fingerprint Fingerprint) Base64() string {
	return base64.StdEncoding.EncodeToString(fingerprint[:])
}

// IsZero - true if every byte of the fingerprint is zero
func (fingerprint Fingerprint) IsZero() bool {
	return Fingerprint{} == fingerprint
}

// MarshalText - convert fingerprint to hex text
func (fingerprint Fingerprint) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(fingerprint))
	buffer := make([]byte, size)
	hex.Encode(buffer, fingerprint[:])
	return buffer, nil
}

// UnmarshalText - decode hex text, accepting the colon display form
func (fingerprint *Fingerprint) UnmarshalText(s []byte) error {
	f, err := FromHex(string(s))
	if nil != err {
		return err
	}
	*fingerprint = f
	return nil
}

// FromHex - parse a hex fingerprint
//
// colons are ignored and both cases are accepted, so openssl output can
// be pasted directly
func FromHex(s string) (Fingerprint, error) {
	s = strings.ReplaceAll(s, ":", "")

	b, err := hex.DecodeString(s)
	if nil != err {
		return Fingerprint{}, fault.InvalidFingerprintEncoding
	}
	return fromBytes(b)
}

// FromBase64 - parse a standard base64 fingerprint
func FromBase64(s string) (Fingerprint, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if nil != err {
		return Fingerprint{}, fault.InvalidFingerprintEncoding
	}
	return fromBytes(b)
}

func fromBytes(b []byte) (Fingerprint, error) {
	if Size != len(b) {
		return Fingerprint{}, fault.InvalidFingerprintLength
	}
	var fingerprint Fingerprint
	copy(fingerprint[:], b)
	return fingerprint, nil
}
