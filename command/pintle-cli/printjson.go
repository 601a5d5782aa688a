// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"io"
)

// emit a result structure as indented JSON
//
// every command result goes through here so output stays machine
// readable; progress chatter is written to the error stream instead
func printJson(handle io.Writer, message interface{}) error {
	encoder := json.NewEncoder(handle)
	encoder.SetIndent("", "  ")
	return encoder.Encode(message)
}
