// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/snippet"
)

func runSnippet(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	endpoint, err := checkConnect(c.String("connect"))
	if nil != err {
		return err
	}

	pins, err := checkPins(m, endpoint, c.String("pin"), c.Bool("trusted"))
	if nil != err {
		return err
	}

	protocol := "tcp"
	if endpoint.IsStream() {
		protocol = "udp"
	}

	kind := c.String("kind")
	text, err := snippet.Render(snippet.Kind(kind), snippet.Parameters{
		Host:        endpoint.Host(),
		Port:        endpoint.Port(),
		Protocol:    protocol,
		Fingerprint: pins[0].Expect,
	})
	if fault.UnknownSnippetKind == err {
		return fmt.Errorf("kind: %q can only be %s", kind, strings.Join(snippet.Kinds(), "/"))
	}
	if nil != err {
		return err
	}

	fmt.Fprintf(m.w, "%s", text)
	return nil
}
