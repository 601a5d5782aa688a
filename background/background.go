// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - run processes in the background
//
// each process is handed the shared shutdown channel and must return
// promptly once that channel is closed
package background

import (
	"sync"
)

// Process - any object with a Run method that terminates on shutdown
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// T - handle to the running set
type T struct {
	wg       sync.WaitGroup
	shutdown chan struct{}
}

// Start - start up a set of background processes
func Start(processes Processes, args interface{}) *T {

	register := &T{
		shutdown: make(chan struct{}),
	}

	// start each background
	register.wg.Add(len(processes))
	for _, p := range processes {
		go func(p Process) {
			defer register.wg.Done()
			p.Run(args, register.shutdown)
		}(p)
	}
	return register
}

// Stop - stop the background processes, waiting until all have returned
func (t *T) Stop() {

	if nil == t {
		return
	}

	// signal all background tasks
	close(t.shutdown)

	// wait for them to finish
	t.wg.Wait()
}
