// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path"
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/pintle-project/pintled/certificate"
	"github.com/pintle-project/pintled/fingerprint"
)

// re-derive and re-log the fingerprint when the certificate file is
// rewritten, e.g. by an external renewal job
type certificateWatcher struct {
	log                 *logger.L
	watcher             *fsnotify.Watcher
	name                string
	certificateFileName string
	fingerprintFileName string
}

func newCertificateWatcher(name string, certificateFileName string, fingerprintFileName string) (*certificateWatcher, error) {
	filePath, err := filepath.Abs(filepath.Clean(certificateFileName))
	if nil != err {
		return nil, err
	}

	if _, err := os.Stat(filePath); nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	err = watcher.Add(filePath)
	if nil != err {
		watcher.Close()
		return nil, err
	}

	return &certificateWatcher{
		log:                 logger.New("watcher"),
		watcher:             watcher,
		name:                name,
		certificateFileName: filePath,
		fingerprintFileName: fingerprintFileName,
	}, nil
}

func (w *certificateWatcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event := <-w.watcher.Events:
			log.Infof("file event: %v", event)

			if "" == event.Name || fsnotify.Remove == event.Op&fsnotify.Remove {
				log.Errorf("certificate: %q removed, watcher stopped", w.certificateFileName)
				break loop
			}

			if path.Base(event.Name) != path.Base(w.certificateFileName) {
				continue loop
			}

			if fsnotify.Write == event.Op&fsnotify.Write || fsnotify.Chmod == event.Op&fsnotify.Chmod {
				w.reload()
			}

		case err := <-w.watcher.Errors:
			log.Errorf("watcher error: %s", err)
		}
	}

	w.watcher.Close()
}

// recompute the digest of the certificate exactly as now stored
func (w *certificateWatcher) reload() {
	log := w.log

	der, err := certificate.ReadDER(w.certificateFileName)
	if nil != err {
		log.Errorf("certificate: %q error: %s", w.certificateFileName, err)
		return
	}

	f, err := fingerprint.New(der, fingerprint.SHA256)
	if nil != err {
		log.Errorf("certificate: %q error: %s", w.certificateFileName, err)
		return
	}

	log.Warnf("%s certificate: %q changed", w.name, w.certificateFileName)
	announceFingerprint(log, f)
	log.Warn("restart to serve the new certificate")

	if "" != w.fingerprintFileName {
		err = writeFingerprintFile(w.fingerprintFileName, f)
		if nil != err {
			log.Errorf("fingerprint file: %q error: %s", w.fingerprintFileName, err)
		}
	}
}
