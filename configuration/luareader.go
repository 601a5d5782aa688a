// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"

	"github.com/pintle-project/pintled/fault"
)

// ParseConfigurationFile - execute a Lua configuration chunk and map
// its result onto a configuration structure
//
// the chunk must end with "return table"; the table fields are matched
// against "gluamapper" struct tags.  the global table "arg" is set the
// way Lua expects, with arg[0] holding the configuration file name so
// a chunk can derive sibling paths from its own location.
func ParseConfigurationFile(fileName string, config interface{}) error {

	L := lua.NewState()
	defer L.Close()

	L.OpenLibs()

	// create the global "arg" table
	// arg[0] = config file
	arg := &lua.LTable{}
	arg.Insert(0, lua.LString(fileName))
	L.SetGlobal("arg", arg)

	// execute configuration
	err := L.DoFile(fileName)
	if nil != err {
		return err
	}

	// a chunk that returns anything but a table cannot be mapped
	table, ok := L.Get(L.GetTop()).(*lua.LTable)
	if !ok {
		return fault.InvalidConfigurationFile
	}

	mapper := gluamapper.Mapper{
		Option: gluamapper.Option{
			NameFunc: func(s string) string {
				return s
			},
			TagName: "gluamapper",
		},
	}
	return mapper.Map(table, config)
}
