// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pin - expected certificate fingerprints
//
// A pin names a digest algorithm together with the fingerprint a peer
// is expected to present.  The embedded text form is:
//
//	sha-256:9NpO8vIqwXlqhldtYrm37UU74Al43sUV/QT/ouVzk/4=
//
// i.e. the algorithm name, a colon, and the standard base64 digest.
// A configuration holds one or more pins; a peer matches when any one
// of them matches, so a replacement certificate can be rolled out by
// carrying the old and new pins together.
package pin

import (
	"strings"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/fingerprint"
)

// Pin - a single expected fingerprint
type Pin struct {
	Algorithm fingerprint.Algorithm
	Expect    fingerprint.Fingerprint
}

// Configuration - the set of acceptable pins for one peer
type Configuration []Pin

// Single - a configuration expecting exactly one SHA-256 fingerprint
func Single(expect fingerprint.Fingerprint) Configuration {
	return Configuration{{
		Algorithm: fingerprint.SHA256,
		Expect:    expect,
	}}
}

// String - the embedded text form "algorithm:base64"
func (p Pin) String() string {
	return string(p.Algorithm) + ":" + p.Expect.Base64()
}

// Check - validate a single pin without touching the network
func (p Pin) Check() error {
	err := fingerprint.CheckAlgorithm(p.Algorithm)
	if nil != err {
		return err
	}
	if p.Expect.IsZero() {
		return fault.MissingPinConfiguration
	}
	return nil
}

// Parse - decode the embedded text form
//
// the algorithm name is matched exactly and the digest must be standard
// base64 with padding
func Parse(s string) (Pin, error) {
	algorithm, digest, ok := strings.Cut(s, ":")
	if !ok || "" == algorithm || "" == digest {
		return Pin{}, fault.InvalidPinFormat
	}

	err := fingerprint.CheckAlgorithm(fingerprint.Algorithm(algorithm))
	if nil != err {
		return Pin{}, err
	}

	expect, err := fingerprint.FromBase64(digest)
	if nil != err {
		return Pin{}, err
	}

	return Pin{
		Algorithm: fingerprint.Algorithm(algorithm),
		Expect:    expect,
	}, nil
}

// Verify - validate a whole configuration without touching the network
//
// this is run before any connection is attempted so that an unusable
// configuration surfaces as its own error rather than as a failed
// handshake
func (c Configuration) Verify() error {
	if 0 == len(c) {
		return fault.MissingPinConfiguration
	}
	for _, p := range c {
		err := p.Check()
		if nil != err {
			return err
		}
	}
	return nil
}

// Match - compare a peer certificate in raw DER form with the pins
//
// the certificate is digested exactly as transmitted and compared byte
// for byte; any matching pin accepts the peer
func (c Configuration) Match(certificate []byte) error {
	if 0 == len(c) {
		return fault.MissingPinConfiguration
	}
	for _, p := range c {
		actual, err := fingerprint.New(certificate, p.Algorithm)
		if nil != err {
			return err
		}
		if actual == p.Expect {
			return nil
		}
	}
	return fault.FingerprintMismatch
}

// Strings - the embedded text form of every pin
func (c Configuration) Strings() []string {
	all := make([]string, len(c))
	for i, p := range c {
		all[i] = p.String()
	}
	return all
}

// ParseAll - decode a list of embedded text pins
func ParseAll(items []string) (Configuration, error) {
	c := make(Configuration, 0, len(items))
	for _, item := range items {
		p, err := Parse(item)
		if nil != err {
			return nil, err
		}
		c = append(c, p)
	}
	return c, nil
}
