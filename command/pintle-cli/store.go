// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path"

	"github.com/pintle-project/pintled/pinstore"
)

// the pin store lives under XDG_DATA_HOME unless overridden
func storeDirectory(m *metadata) (string, error) {

	directory := m.store
	if "" == directory {
		p := os.Getenv("XDG_DATA_HOME")
		if "" == p {
			return "", ErrUnsetDataHome
		}
		directory = path.Join(p, "pintle-cli")
	}

	return directory, os.MkdirAll(directory, 0700)
}

// openStore - open the pin store; the teardown must be called when done
func openStore(m *metadata) (func(), error) {

	directory, err := storeDirectory(m)
	if nil != err {
		return nil, err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "pin store: %q\n", directory)
	}

	err = pinstore.Initialise(path.Join(directory, "trusted"))
	if nil != err {
		return nil, err
	}

	return pinstore.Finalise, nil
}
