// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/pintle-project/pintled/fault"
)

var (
	errExistsOne   = fault.ExistsError("exists one")
	errExistsTwo   = fault.ExistsError("exists two")
	errInvalidOne  = fault.InvalidError("invalid one")
	errInvalidTwo  = fault.InvalidError("invalid two")
	errNotFoundOne = fault.NotFoundError("not found one")
	errNotFoundTwo = fault.NotFoundError("not found two")
	errProcessOne  = fault.ProcessError("process one")
	errProcessTwo  = fault.ProcessError("process two")
	errRejectedOne = fault.RejectedError("rejected one")
	errRejectedTwo = fault.RejectedError("rejected two")
	errTimeoutOne  = fault.TimeoutError("timeout one")
	errTimeoutTwo  = fault.TimeoutError("timeout two")
)

// test that the error classes can be subclassed
func TestSubclassing(t *testing.T) {
	errorList := []struct {
		err      error
		exists   bool
		invalid  bool
		notFound bool
		process  bool
		rejected bool
		timeout  bool
	}{
		{errExistsOne, true, false, false, false, false, false},
		{errExistsTwo, true, false, false, false, false, false},
		{errInvalidOne, false, true, false, false, false, false},
		{errInvalidTwo, false, true, false, false, false, false},
		{errNotFoundOne, false, false, true, false, false, false},
		{errNotFoundTwo, false, false, true, false, false, false},
		{errProcessOne, false, false, false, true, false, false},
		{errProcessTwo, false, false, false, true, false, false},
		{errRejectedOne, false, false, false, false, true, false},
		{errRejectedTwo, false, false, false, false, true, false},
		{errTimeoutOne, false, false, false, false, false, true},
		{errTimeoutTwo, false, false, false, false, false, true},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
		if fault.IsErrRejected(err) != e.rejected {
			t.Errorf("%d: expected 'rejected' == %v for err = %v", i, e.rejected, err)
		}
		if fault.IsErrTimeout(err) != e.timeout {
			t.Errorf("%d: expected 'timeout' == %v for err = %v", i, e.timeout, err)
		}
	}
}

// test that the verification failures are rejections and stay
// distinguishable from one another
func TestVerificationInstances(t *testing.T) {
	rejections := []error{
		fault.FingerprintMismatch,
		fault.FingerprintChanged,
		fault.NoPeerCertificate,
	}
	for i, err := range rejections {
		if !fault.IsErrRejected(err) {
			t.Errorf("%d: expected rejected class for err = %v", i, err)
		}
	}
	if fault.FingerprintMismatch == fault.NoPeerCertificate {
		t.Errorf("mismatch and missing certificate compare equal")
	}
	if !fault.IsErrTimeout(fault.HandshakeTimeout) {
		t.Errorf("expected timeout class for err = %v", fault.HandshakeTimeout)
	}
	if !fault.IsErrInvalid(fault.UnsupportedAlgorithm) {
		t.Errorf("expected invalid class for err = %v", fault.UnsupportedAlgorithm)
	}
	if !fault.IsErrProcess(fault.SessionNotEstablished) {
		t.Errorf("expected process class for err = %v", fault.SessionNotEstablished)
	}
}
