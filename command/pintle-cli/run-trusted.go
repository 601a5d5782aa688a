// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/urfave/cli"

	"github.com/pintle-project/pintled/pin"
	"github.com/pintle-project/pintled/pinstore"
)

func runTrusted(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	teardown, err := openStore(m)
	if nil != err {
		return err
	}
	defer teardown()

	entries, err := pinstore.List()
	if nil != err {
		return err
	}

	type trustedEntry struct {
		Endpoint    string `json:"endpoint"`
		Fingerprint string `json:"fingerprint"`
		Pin         string `json:"pin"`
		FirstSeen   string `json:"first_seen"`
		LastSeen    string `json:"last_seen"`
	}

	out := make([]trustedEntry, len(entries))
	for i, entry := range entries {
		out[i] = trustedEntry{
			Endpoint:    entry.Endpoint,
			Fingerprint: entry.Digest.String(),
			Pin:         pin.Pin{Algorithm: entry.Algorithm, Expect: entry.Digest}.String(),
			FirstSeen:   entry.FirstSeen.Format(time.RFC3339),
			LastSeen:    entry.LastSeen.Format(time.RFC3339),
		}
	}
	return printJson(m.w, out)
}
