// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli"

	"github.com/pintle-project/pintled/fingerprint"
	"github.com/pintle-project/pintled/pin"
	"github.com/pintle-project/pintled/pinned"
)

func runDial(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	endpoint, err := checkConnect(c.String("connect"))
	if nil != err {
		return err
	}

	pins, err := checkPins(m, endpoint, c.String("pin"), c.Bool("trusted"))
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "dialling: %s\n", endpoint)
		for i, p := range pins.Strings() {
			fmt.Fprintf(m.e, "pin[%d]: %s\n", i, p)
		}
	}

	s, err := pinned.Connect(context.Background(), endpoint.String(), pins, pinned.Options{})
	if nil != err {
		if nil != s {
			if peer, seen := s.PeerFingerprint(); seen {
				sent := pin.Pin{Algorithm: fingerprint.SHA256, Expect: peer}
				fmt.Fprintf(m.e, "peer sent: %s\n", sent)
			}
			fmt.Fprintf(m.e, "session: %s\n", s)
		}
		return err
	}
	defer s.Close()

	peer, _ := s.PeerFingerprint()
	out := struct {
		Endpoint    string `json:"endpoint"`
		State       string `json:"state"`
		Fingerprint string `json:"fingerprint"`
		Pin         string `json:"pin"`
	}{
		Endpoint:    endpoint.String(),
		State:       s.State().String(),
		Fingerprint: peer.String(),
		Pin:         pin.Pin{Algorithm: fingerprint.SHA256, Expect: peer}.String(),
	}
	return printJson(m.w, out)
}
