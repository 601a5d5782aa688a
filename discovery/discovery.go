// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package discovery - obtain pins from DNS
//
// expected fingerprints can be published as DANE TLSA records, e.g.:
//
//	_2150._tcp.node.example.com. IN TLSA 3 0 1 <hex certificate digest>
//
// only certificate usage 3 (end entity), selector 0 (full
// certificate) and matching type 1 (SHA2-256) are usable here: the
// pinned transport digests the whole transmitted certificate, so SPKI
// selectors and other digest types are logged and skipped.
package discovery

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"

	"github.com/bitmark-inc/logger"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/fingerprint"
	"github.com/pintle-project/pintled/pin"
)

// usable TLSA parameter values
const (
	usageEndEntity       = 3 // DANE-EE
	selectorCertificate  = 0 // full certificate
	matchingTypeSHA2_256 = 1
)

// Lookuper - interface to look up published pins
type Lookuper interface {
	Lookup(name string, port int, protocol string) (pin.Configuration, error)
}

type lookuper struct {
	log *logger.L
	f   func(fqdn string) ([]dns.TLSA, error)
}

// NewLookuper - make a Lookuper from a raw TLSA query function
//
// the query function is injectable so record handling can be tested
// without a name server
func NewLookuper(log *logger.L, f func(fqdn string) ([]dns.TLSA, error)) Lookuper {
	return &lookuper{
		log: log,
		f:   f,
	}
}

// Lookup - fetch the pins published for one service
//
// records that cannot serve as pins are logged and skipped; an answer
// without any usable record is an error so a caller never proceeds
// with an empty pin set
func (l *lookuper) Lookup(name string, port int, protocol string) (pin.Configuration, error) {
	log := l.log

	fqdn, err := TLSAName(name, port, protocol)
	if nil != err {
		log.Errorf("invalid lookup: %q port: %d protocol: %q", name, port, protocol)
		return nil, err
	}

	records, err := l.f(fqdn)
	if nil != err {
		log.Errorf("lookup TLSA record error: %s", err)
		return nil, err
	}

	result := make(pin.Configuration, 0, len(records))
	for i, record := range records {
		if usageEndEntity != record.Usage || selectorCertificate != record.Selector {
			log.Debugf("ignore TLSA[%d]: usage: %d selector: %d", i, record.Usage, record.Selector)
			continue
		}
		if matchingTypeSHA2_256 != record.MatchingType {
			log.Debugf("ignore TLSA[%d]: matching type: %d", i, record.MatchingType)
			continue
		}

		expect, err := fingerprint.FromHex(record.Certificate)
		if nil != err {
			log.Debugf("ignore TLSA[%d]: %q  error: %s", i, record.Certificate, err)
			continue
		}

		log.Infof("process TLSA[%d]: %s", i, expect)
		result = append(result, pin.Pin{
			Algorithm: fingerprint.SHA256,
			Expect:    expect,
		})
	}

	if 0 == len(result) {
		log.Errorf("no usable TLSA records for: %q", fqdn)
		return nil, fault.NoSuitableRecords
	}

	return result, nil
}

// TLSAName - the DANE query name for a service
//
// e.g. ("node.example.com", 2150, "tcp") gives
// "_2150._tcp.node.example.com."
func TLSAName(name string, port int, protocol string) (string, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")
	if "" == name {
		return "", fault.InvalidDnsDomainName
	}
	if port < 1 || port > 65535 {
		return "", fault.InvalidEndpoint
	}
	switch protocol {
	case "tcp", "udp":
	default:
		return "", fault.InvalidEndpoint
	}
	return dns.Fqdn(fmt.Sprintf("_%d._%s.%s", port, protocol, name)), nil
}
