// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/pintle-project/pintled/discovery"
)

func runDiscover(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name, err := checkName(c.String("name"))
	if nil != err {
		return err
	}

	port, err := checkPort(c.Int("port"))
	if nil != err {
		return err
	}

	protocol := "tcp"
	if c.Bool("udp") {
		protocol = "udp"
	}

	fqdn, err := discovery.TLSAName(name, port, protocol)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "query: %s TLSA\n", fqdn)
	}

	teardown, err := setupLogger(m.verbose)
	if nil != err {
		return err
	}
	defer teardown()

	lookuper := discovery.NewLookuper(logger.New("discovery"), discovery.Resolver())
	pins, err := lookuper.Lookup(name, port, protocol)
	if nil != err {
		return err
	}

	out := struct {
		Name string   `json:"name"`
		Pins []string `json:"pins"`
	}{
		Name: fqdn,
		Pins: pins.Strings(),
	}
	return printJson(m.w, out)
}

// the lookup code logs the records it skips; a command line run has no
// log directory, so log to scratch space and only mirror to the
// console when verbose
func setupLogger(verbose bool) (func(), error) {

	directory, err := os.MkdirTemp("", "pintle-cli")
	if nil != err {
		return nil, err
	}

	level := "critical"
	if verbose {
		level = "info"
	}

	err = logger.Initialise(logger.Configuration{
		Directory: directory,
		File:      "discovery.log",
		Size:      1048576,
		Count:     10,
		Console:   verbose,
		Levels: map[string]string{
			logger.DefaultTag: level,
		},
	})
	if nil != err {
		os.RemoveAll(directory)
		return nil, err
	}

	return func() {
		logger.Finalise()
		os.RemoveAll(directory)
	}, nil
}
