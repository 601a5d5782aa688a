// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/pintle-project/pintled/certificate"
	"github.com/pintle-project/pintled/fingerprint"
	"github.com/pintle-project/pintled/pin"
	"github.com/pintle-project/pintled/snippet"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-cert", "cert":
		certificateFileName := getFilenameWithDirectory(arguments, defaultCertificateFile)
		keyFileName := getFilenameWithDirectory(arguments, defaultKeyFile)

		hosts := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					hosts = append(hosts, a)
				}
			}
		}

		err := certificate.MakeSelfSigned("echo", certificateFileName, keyFileName, 0 != len(hosts), hosts)
		if nil != err {
			fmt.Printf("generate key: %q and certificate: %q error: %s\n", keyFileName, certificateFileName, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated key: %q and certificate: %q\n", keyFileName, certificateFileName)

		der, err := certificate.ReadDER(certificateFileName)
		if nil != err {
			fmt.Printf("read certificate: %q error: %s\n", certificateFileName, err)
			exitwithstatus.Exit(1)
		}
		f, err := fingerprint.New(der, fingerprint.SHA256)
		if nil != err {
			fmt.Printf("fingerprint certificate: %q error: %s\n", certificateFileName, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("fingerprint: %s\n", f)
		fmt.Printf("pin:         %s\n", pin.Pin{Algorithm: fingerprint.SHA256, Expect: f})

	case "dns-tlsa", "tlsa":
		return false // defer processing until configuration is read

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version string\n\n")

		fmt.Printf("  gen-cert [DIR] [HOSTS...]  (cert)   - create private key in:  %q\n", "DIR/"+defaultKeyFile)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+defaultCertificateFile)
		fmt.Printf("                                        extra HOSTS are added as subject alternate names\n")
		fmt.Printf("\n")

		fmt.Printf("  dns-tlsa HOST [PORT]       (tlsa)   - display the TLSA record for the configured certificate\n")
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convenience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "dns-tlsa", "tlsa":
		dnsTLSA(arguments, options)

	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	default: // unknown commands fall through to the normal daemon start
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// print out the TLSA record for the configured certificate
func dnsTLSA(arguments []string, options *Configuration) {
	if len(arguments) < 1 {
		exitwithstatus.Message("error: missing host name argument")
	}
	host := arguments[0]

	port := 0
	if len(arguments) >= 2 {
		p, err := strconv.Atoi(arguments[1])
		if nil != err {
			exitwithstatus.Message("error in port number: %s", err)
		}
		port = p
	} else {
		// derive the port from the first listen address
		if 0 == len(options.Service.Listen) {
			exitwithstatus.Message("error: no listen address to derive the port from")
		}
		_, portText, err := net.SplitHostPort(options.Service.Listen[0])
		if nil != err {
			exitwithstatus.Message("error: cannot decode listen address: %q  error: %s", options.Service.Listen[0], err)
		}
		port, err = strconv.Atoi(portText)
		if nil != err {
			exitwithstatus.Message("error in listen port number: %s", err)
		}
	}

	der, err := certificate.ReadDER(options.Service.Certificate)
	if nil != err {
		exitwithstatus.Message("error: cannot read certificate: %q  error: %s", options.Service.Certificate, err)
	}

	f, err := fingerprint.New(der, fingerprint.SHA256)
	if nil != err {
		exitwithstatus.Message("error: cannot fingerprint certificate: %q  error: %s", options.Service.Certificate, err)
	}

	record, err := snippet.Render(snippet.DNS, snippet.Parameters{
		Host:        host,
		Port:        port,
		Fingerprint: f,
	})
	if nil != err {
		exitwithstatus.Message("error: cannot render record: %s", err)
	}

	fmt.Printf("fingerprint: %s\n", f)
	fmt.Printf("pin:         %s\n", pin.Pin{Algorithm: fingerprint.SHA256, Expect: f})
	fmt.Printf("%s", record)
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}
