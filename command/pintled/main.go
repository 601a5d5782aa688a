// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/pintle-project/pintled/background"
	"github.com/pintle-project/pintled/certificate"
	"github.com/pintle-project/pintled/counter"
	"github.com/pintle-project/pintled/fingerprint"
	"github.com/pintle-project/pintled/pin"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// connection counters shared by the listeners and the stats loop
var (
	activeTLS  counter.Counter
	servedTLS  counter.Counter
	activeQUIC counter.Counter
	servedQUIC counter.Counter
)

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	service := &theConfiguration.Service

	if 0 == len(service.Listen) && 0 == len(service.QuicListen) {
		log.Critical("no listen addresses configured")
		exitwithstatus.Message("%s: no listen addresses configured", program)
	}

	// optionally provision a certificate pair on first run
	if service.GenerateIfAbsent {
		err = certificate.EnsureSelfSigned(log, "echo", service.Certificate, service.PrivateKey, service.ExtraHosts)
		if nil != err {
			log.Criticalf("certificate generate error: %s", err)
			exitwithstatus.Message("certificate generate error: %s", err)
		}
	}

	tlsConfiguration, certificateFingerprint, err := certificate.Load(log, "echo", service.Certificate, service.PrivateKey)
	if nil != err {
		log.Criticalf("certificate load error: %s", err)
		exitwithstatus.Message("certificate load error: %s", err)
	}

	announceFingerprint(log, certificateFingerprint)

	if "" != theConfiguration.FingerprintFile {
		err = writeFingerprintFile(theConfiguration.FingerprintFile, certificateFingerprint)
		if nil != err {
			log.Criticalf("fingerprint file: %q error: %s", theConfiguration.FingerprintFile, err)
			exitwithstatus.Message("fingerprint file: %q error: %s", theConfiguration.FingerprintFile, err)
		}
		log.Infof("fingerprint file: %q", theConfiguration.FingerprintFile)
	}

	// start the TLS echo listeners
	echoServer, err := newEchoServer(service, tlsConfiguration)
	if nil != err {
		log.Criticalf("echo server error: %s", err)
		exitwithstatus.Message("echo server error: %s", err)
	}
	if nil != echoServer.listener {
		log.Infof("starting echo server: %v", service.Listen)
		echoServer.listener.Start(echoServer.argument)
		defer echoServer.listener.Stop()
	}

	// background processes: QUIC listeners, certificate watcher and
	// the service stats loop
	processes := background.Processes{}

	if 0 != len(service.QuicListen) {
		quicServer, err := newQUICService(service, tlsConfiguration)
		if nil != err {
			log.Criticalf("quic server error: %s", err)
			exitwithstatus.Message("quic server error: %s", err)
		}
		processes = append(processes, quicServer)
	}

	watcher, err := newCertificateWatcher("echo", service.Certificate, theConfiguration.FingerprintFile)
	if nil != err {
		log.Criticalf("certificate watcher error: %s", err)
		exitwithstatus.Message("certificate watcher error: %s", err)
	}
	processes = append(processes, watcher, &statsLoop{
		memory: len(options["memory-stats"]) > 0,
	})

	backgroundProcesses := background.Start(processes, nil)
	defer backgroundProcesses.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

// log every formatting view of the fingerprint so an operator can
// paste whichever one the far side expects
func announceFingerprint(log *logger.L, f fingerprint.Fingerprint) {
	p := pin.Pin{Algorithm: fingerprint.SHA256, Expect: f}
	log.Infof("fingerprint hex:    %s", f)
	log.Infof("fingerprint colons: %s", f.ColonString())
	log.Infof("fingerprint base64: %s", f.Base64())
	log.Infof("pin: %s", p)
}

// write the ready-made pin line for connecting clients
func writeFingerprintFile(fileName string, f fingerprint.Fingerprint) error {
	p := pin.Pin{Algorithm: fingerprint.SHA256, Expect: f}
	return os.WriteFile(fileName, []byte(p.String()+"\n"), 0644)
}
