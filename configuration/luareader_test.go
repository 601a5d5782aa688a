// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pintle-project/pintled/configuration"
	"github.com/pintle-project/pintled/fault"
)

type listenType struct {
	MaximumConnections int      `gluamapper:"maximum_connections"`
	Announce           []string `gluamapper:"announce"`
}

type testConfiguration struct {
	DataDirectory string     `gluamapper:"data_directory"`
	Certificate   string     `gluamapper:"certificate"`
	Listen        listenType `gluamapper:"listen"`
}

const luaSource = `
local M = {}

-- the directory of the configuration file is available as arg[0]
local config_file = arg[0]
M.data_directory = config_file .. ".data"

M.certificate = "pintled.crt"

M.listen = {
    maximum_connections = 20,
    announce = {
        "127.0.0.1:2150",
        "[::1]:2150",
    },
}

return M
`

func TestParseConfigurationFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "pintled.conf")
	err := os.WriteFile(fileName, []byte(luaSource), 0600)
	assert.Nil(t, err, "wrong error")

	var config testConfiguration
	err = configuration.ParseConfigurationFile(fileName, &config)
	assert.Nil(t, err, "wrong error")

	assert.Equal(t, fileName+".data", config.DataDirectory, "wrong data directory")
	assert.Equal(t, "pintled.crt", config.Certificate, "wrong certificate")
	assert.Equal(t, 20, config.Listen.MaximumConnections, "wrong connection limit")
	expected := []string{"127.0.0.1:2150", "[::1]:2150"}
	assert.Equal(t, expected, config.Listen.Announce, "wrong announce list")
}

func TestParseConfigurationFileMissing(t *testing.T) {
	var config testConfiguration
	err := configuration.ParseConfigurationFile("/nonexistent/pintled.conf", &config)
	assert.NotNil(t, err, "missing file did not error")
}

func TestParseConfigurationFileNotTable(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "pintled.conf")
	err := os.WriteFile(fileName, []byte(`return "just a string"`), 0600)
	assert.Nil(t, err, "wrong error")

	var config testConfiguration
	err = configuration.ParseConfigurationFile(fileName, &config)
	assert.Equal(t, fault.InvalidConfigurationFile, err, "wrong error")
}
