// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/pintle-project/pintled/pinstore"
)

func runForget(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	endpoint, err := checkConnect(c.String("connect"))
	if nil != err {
		return err
	}

	teardown, err := openStore(m)
	if nil != err {
		return err
	}
	defer teardown()

	err = pinstore.Delete(endpoint.String())
	if nil != err {
		return err
	}

	out := struct {
		Endpoint  string `json:"endpoint"`
		Forgotten bool   `json:"forgotten"`
	}{
		Endpoint:  endpoint.String(),
		Forgotten: true,
	}
	return printJson(m.w, out)
}
