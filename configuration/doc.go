// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// the configuration is a Lua chunk that must finish with "return table"
// so values can be computed rather than just written down: most of base
// Lua is available, e.g. io.open to read key material and os.getenv to
// pull in environment supplied items.  arg[0] holds the configuration
// file name so relative paths can be resolved against its directory.
package configuration
