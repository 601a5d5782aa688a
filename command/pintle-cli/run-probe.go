// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/fingerprint"
	"github.com/pintle-project/pintled/pin"
	"github.com/pintle-project/pintled/pinned"
	"github.com/pintle-project/pintled/pinstore"
)

func runProbe(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	endpoint, err := checkConnect(c.String("connect"))
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "probing: %s\n", endpoint)
	}

	f, err := pinned.Probe(context.Background(), endpoint.String(), pinned.Options{})
	if nil != err {
		return err
	}

	remembered := false
	firstSeen := ""
	if c.Bool("remember") {
		teardown, err := openStore(m)
		if nil != err {
			return err
		}
		defer teardown()

		entry, _, err := pinstore.Remember(endpoint.String(), f)
		if fault.FingerprintChanged == err {
			stored := pin.Pin{Algorithm: entry.Algorithm, Expect: entry.Digest}
			fmt.Fprintf(m.e, "stored pin: %s first seen: %s\n",
				stored, entry.FirstSeen.Format(time.RFC3339))
			return err
		}
		if nil != err {
			return err
		}
		remembered = true
		firstSeen = entry.FirstSeen.Format(time.RFC3339)
	}

	out := struct {
		Endpoint    string `json:"endpoint"`
		Fingerprint string `json:"fingerprint"`
		Colons      string `json:"colons"`
		Base64      string `json:"base64"`
		Pin         string `json:"pin"`
		Remembered  bool   `json:"remembered"`
		FirstSeen   string `json:"first_seen,omitempty"`
	}{
		Endpoint:    endpoint.String(),
		Fingerprint: f.String(),
		Colons:      f.ColonString(),
		Base64:      f.Base64(),
		Pin:         pin.Pin{Algorithm: fingerprint.SHA256, Expect: f}.String(),
		Remembered:  remembered,
		FirstSeen:   firstSeen,
	}
	return printJson(m.w, out)
}
