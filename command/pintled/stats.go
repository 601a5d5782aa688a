// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"
)

const (
	statsDelay = 60 * time.Second
	mega       = 1048576
)

// periodic connection counts for the echo listeners, optionally with
// memory accounting for leak hunting
type statsLoop struct {
	memory bool
}

func (s *statsLoop) Run(args interface{}, shutdown <-chan struct{}) {
	log := logger.New("stats")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(statsDelay):
			log.Infof("connections: tls: %d active %d served  quic: %d active %d served  goroutines: %d",
				activeTLS.Uint64(), servedTLS.Uint64(),
				activeQUIC.Uint64(), servedQUIC.Uint64(),
				runtime.NumGoroutine())
			if s.memory {
				logMemory(log)
			}
		}
	}
}

func logMemory(log *logger.L) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	text, err := json.Marshal(m)
	if nil != err {
		log.Errorf("memory marshal error: %s", err)
		return
	}
	log.Debugf("memory: %s", text)
	log.Warnf("allocated: %d M  cumulative: %d M  OS virtual: %d M",
		m.Alloc/mega, m.TotalAlloc/mega, m.Sys/mega)
}
