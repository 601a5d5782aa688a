// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pinned

// State - type to hold the session state
type State int

// all possible states
//
// a session only ever moves forward through this list; Rejected,
// Failed and Closed are terminal
const (
	Connecting State = iota
	Verifying
	Established
	Rejected
	Failed
	Closed
)

// Terminal - true once no further transition can happen
func (state State) Terminal() bool {
	switch state {
	case Rejected, Failed, Closed:
		return true
	default:
		return false
	}
}

// String - session state represented as a string
func (state State) String() string {
	switch state {
	case Connecting:
		return "Connecting"
	case Verifying:
		return "Verifying"
	case Established:
		return "Established"
	case Rejected:
		return "Rejected"
	case Failed:
		return "Failed"
	case Closed:
		return "Closed"
	default:
		return "*Unknown*"
	}
}
