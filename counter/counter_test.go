// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/pintle-project/pintled/counter"
)

func TestCounter(t *testing.T) {

	var c counter.Counter

	if !c.IsZero() {
		t.Fatalf("new counter is not zero: %d", c.Uint64())
	}

	const workers = 20
	const perWorker = 1000

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i += 1 {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j += 1 {
				c.Increment()
			}
		}()
	}
	wg.Wait()

	if workers*perWorker != c.Uint64() {
		t.Fatalf("count expected: %d  actual: %d", workers*perWorker, c.Uint64())
	}

	wg.Add(workers)
	for i := 0; i < workers; i += 1 {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j += 1 {
				c.Decrement()
			}
		}()
	}
	wg.Wait()

	if !c.IsZero() {
		t.Fatalf("counter not back to zero: %d", c.Uint64())
	}
}
