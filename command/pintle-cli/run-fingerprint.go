// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/pintle-project/pintled/certificate"
	"github.com/pintle-project/pintled/fingerprint"
	"github.com/pintle-project/pintled/pin"
)

func runFingerprint(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	fileName, err := checkFileName(c.String("file"))
	if nil != err {
		return err
	}

	// reject an unusable algorithm before touching the file
	algorithm := fingerprint.Algorithm(c.String("algorithm"))
	err = fingerprint.CheckAlgorithm(algorithm)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "fingerprinting certificate: %s\n", fileName)
	}

	der, err := certificate.ReadDER(fileName)
	if nil != err {
		return err
	}

	f, err := fingerprint.New(der, algorithm)
	if nil != err {
		return err
	}

	out := struct {
		FileName    string `json:"file_name"`
		Fingerprint string `json:"fingerprint"`
		Colons      string `json:"colons"`
		Base64      string `json:"base64"`
		Pin         string `json:"pin"`
	}{
		FileName:    fileName,
		Fingerprint: f.String(),
		Colons:      f.ColonString(),
		Base64:      f.Base64(),
		Pin:         pin.Pin{Algorithm: algorithm, Expect: f}.String(),
	}
	return printJson(m.w, out)
}
