// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

type metadata struct {
	store   string
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "pintle-cli"
	// app.Usage = ""
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "store, s",
			Value: "",
			Usage: " pin store `DIRECTORY` [$XDG_DATA_HOME/pintle-cli]",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "fingerprint",
			Usage:     "fingerprint a certificate file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*certificate `FILE` in PEM or DER form",
				},
				cli.StringFlag{
					Name:  "algorithm, a",
					Value: "sha-256",
					Usage: " digest `ALGORITHM` [sha-256]",
				},
			},
			Action: runFingerprint,
		},
		{
			Name:      "probe",
			Usage:     "fetch the certificate fingerprint a server transmits",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "connect, c",
					Value: "",
					Usage: "*server host/IP and port, `HOST:PORT` or quic://HOST:PORT",
				},
				cli.BoolFlag{
					Name:  "remember, r",
					Usage: " record the first seen fingerprint in the pin store",
				},
			},
			Action: runProbe,
		},
		{
			Name:      "dial",
			Usage:     "connect with pin verification and report the outcome",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "connect, c",
					Value: "",
					Usage: "*server host/IP and port, `HOST:PORT` or quic://HOST:PORT",
				},
				cli.StringFlag{
					Name:  "pin, p",
					Value: "",
					Usage: "+acceptable `PIN` list, comma separated",
				},
				cli.BoolFlag{
					Name:  "trusted, t",
					Usage: "+use the fingerprint remembered in the pin store",
				},
			},
			Action: runDial,
		},
		{
			Name:      "snippet",
			Usage:     "render a ready to use pin snippet",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "connect, c",
					Value: "",
					Usage: "*server host/IP and port, `HOST:PORT` or quic://HOST:PORT",
				},
				cli.StringFlag{
					Name:  "pin, p",
					Value: "",
					Usage: "+expected `PIN`",
				},
				cli.BoolFlag{
					Name:  "trusted, t",
					Usage: "+use the fingerprint remembered in the pin store",
				},
				cli.StringFlag{
					Name:  "kind, k",
					Value: "browser",
					Usage: " snippet `KIND` [browser|dns|shell]",
				},
			},
			Action: runSnippet,
		},
		{
			Name:      "discover",
			Usage:     "look up pins published as DNS TLSA records",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*service host `NAME`",
				},
				cli.IntFlag{
					Name:  "port, p",
					Value: 0,
					Usage: "*service `PORT`",
				},
				cli.BoolFlag{
					Name:  "udp, u",
					Usage: " look up the udp service [default tcp]",
				},
			},
			Action: runDiscover,
		},
		{
			Name:   "trusted",
			Usage:  "list every remembered fingerprint",
			Action: runTrusted,
		},
		{
			Name:      "forget",
			Usage:     "drop an endpoint from the pin store",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "connect, c",
					Value: "",
					Usage: "*server host/IP and port, `HOST:PORT` or quic://HOST:PORT",
				},
			},
			Action: runForget,
		},
		{
			Name:  "version",
			Usage: "display pintle-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		c.App.Metadata["config"] = &metadata{
			store:   c.GlobalString("store"),
			verbose: c.GlobalBool("verbose"),
			e:       c.App.ErrWriter,
			w:       c.App.Writer,
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
