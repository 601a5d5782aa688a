// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"strings"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/pin"
	"github.com/pintle-project/pintled/pinned"
	"github.com/pintle-project/pintled/pinstore"
)

var (
	ErrConflictingPins   = fault.InvalidError("pin and trusted cannot be combined")
	ErrRequiredConnect   = fault.InvalidError("connect is required")
	ErrRequiredFileName  = fault.InvalidError("file name is required")
	ErrRequiredName      = fault.InvalidError("name is required")
	ErrRequiredPinSource = fault.InvalidError("one of pin or trusted is required")
	ErrRequiredPort      = fault.InvalidError("port is required")
	ErrUnsetDataHome     = fault.InvalidError("XDG_DATA_HOME environment is not set")
)

// connect is required and must parse as an endpoint
func checkConnect(connect string) (pinned.Endpoint, error) {
	if "" == connect {
		return pinned.Endpoint{}, ErrRequiredConnect
	}

	return pinned.ParseEndpoint(connect)
}

// check for non-blank file name
func checkFileName(fileName string) (string, error) {
	if "" == fileName {
		return "", ErrRequiredFileName
	}

	return fileName, nil
}

// service name is required
func checkName(name string) (string, error) {
	if "" == name {
		return "", ErrRequiredName
	}

	return name, nil
}

// service port is required
func checkPort(port int) (int, error) {
	if 0 == port {
		return 0, ErrRequiredPort
	}

	return port, nil
}

// the acceptable pins, from the command line or from the store
//
// exactly one source must be selected so a typo never silently widens
// the accepted set
func checkPins(m *metadata, e pinned.Endpoint, pinList string, trusted bool) (pin.Configuration, error) {
	switch {
	case "" != pinList && trusted:
		return nil, ErrConflictingPins

	case "" != pinList:
		return pin.ParseAll(strings.Split(pinList, ","))

	case trusted:
		teardown, err := openStore(m)
		if nil != err {
			return nil, err
		}
		defer teardown()

		entry, err := pinstore.Get(e.String())
		if nil != err {
			return nil, err
		}
		return pin.Single(entry.Digest), nil

	default:
		return nil, ErrRequiredPinSource
	}
}
