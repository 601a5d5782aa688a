// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/pintle-project/pintled/configuration"
	"github.com/pintle-project/pintled/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultCertificateFile = "pintle.crt"
	defaultKeyFile         = "pintle.key"
	defaultFingerprintFile = "pintle.fingerprint"

	defaultLogDirectory = "log"
	defaultLogFile      = "pintled.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultMaximumConnections = 100
	defaultHandshakeRate      = 10.0 // per-remote handshakes per second
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// ServiceType - echo service configuration
type ServiceType struct {
	MaximumConnections int      `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	QuicListen         []string `gluamapper:"quic_listen" json:"quic_listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
	GenerateIfAbsent   bool     `gluamapper:"generate_if_absent" json:"generate_if_absent"`
	ExtraHosts         []string `gluamapper:"extra_hosts" json:"extra_hosts"`
	HandshakeRate      float64  `gluamapper:"handshake_rate" json:"handshake_rate"`
}

// Configuration - the daemon configuration
type Configuration struct {
	DataDirectory   string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile         string               `gluamapper:"pidfile" json:"pidfile"`
	FingerprintFile string               `gluamapper:"fingerprint_file" json:"fingerprint_file"`
	Service         ServiceType          `gluamapper:"service" json:"service"`
	Logging         logger.Configuration `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory:   defaultDataDirectory,
		PidFile:         "", // no PidFile by default
		FingerprintFile: defaultFingerprintFile,

		Service: ServiceType{
			MaximumConnections: defaultMaximumConnections,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
			HandshakeRate:      defaultHandshakeRate,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if err := util.EnsureDirectory(options.DataDirectory); nil != err {
		return nil, err
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Service.Certificate,
		&options.Service.PrivateKey,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.FingerprintFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if not a simple file name i.e. must not contain path separator
	if dir := filepath.Dir(options.Logging.File); "" != dir && "." != dir {
		return nil, fmt.Errorf("files: %q is not plain name", options.Logging.File)
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}
