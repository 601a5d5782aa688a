// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package discovery

import (
	"net"

	"github.com/miekg/dns"

	"github.com/pintle-project/pintled/fault"
)

const configFile = "/etc/resolv.conf"

// Resolver - a TLSA query function using the system name servers
//
// servers are tried in resolv.conf order; the first server that
// answers at all decides the result.  note that answers are not
// DNSSEC validated here, so published pins carry the same trust as
// the name service itself.
func Resolver() func(fqdn string) ([]dns.TLSA, error) {
	return func(fqdn string) ([]dns.TLSA, error) {

		conf, err := dns.ClientConfigFromFile(configFile)
		if nil != err {
			return nil, err
		}

		servers := conf.Servers
		if 0 == len(servers) {
			return nil, fault.NoSuitableRecords
		}
		// limit the nameservers to lookup
		// https://www.freebsd.org/cgi/man.cgi?resolv.conf
		if len(servers) > 3 {
			servers = servers[:3]
		}

		var lastError error

	loop:
		for _, server := range servers {

			s := net.JoinHostPort(server, conf.Port)
			c := dns.Client{}
			msg := dns.Msg{}
			msg.SetQuestion(fqdn, dns.TypeTLSA)

			r, _, err := c.Exchange(&msg, s)
			if nil != err {
				lastError = err
				continue loop
			}

			if dns.RcodeSuccess != r.Rcode {
				return nil, nil // resolved, nothing published
			}

			records := make([]dns.TLSA, 0, len(r.Answer))
			for _, rr := range r.Answer {
				if tlsa, ok := rr.(*dns.TLSA); ok {
					records = append(records, *tlsa)
				}
			}
			return records, nil
		}

		return nil, lastError
	}
}
