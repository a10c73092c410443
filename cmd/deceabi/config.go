// Copyright 2024 The go-dece Authors
// This file is part of go-dece.
//
// go-dece is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-dece is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-dece. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/dece-chain/go-dece/params"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
)

// deceabiConfig holds the tool defaults. A config file sets the base values,
// command line flags override individual entries.
type deceabiConfig struct {
	Endpoint string // JSON-RPC endpoint of the dece node
	ABI      string // default ABI file path
	From     string // default sender address, base58
	Scheme   uint   // calldata scheme version
}

func defaultConfig() deceabiConfig {
	return deceabiConfig{
		Endpoint: "http://127.0.0.1:8650",
		Scheme:   params.DefaultABIVersion,
	}
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see github.com/dece-chain/go-dece/cmd/deceabi/config.go for available fields")
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

func loadConfigFile(path string, cfg *deceabiConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(f).Decode(cfg)
	// Add the file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(path + ", " + err.Error())
	}
	return err
}

// makeConfig assembles the effective configuration from defaults, the config
// file and command line flags, in that order of precedence.
func makeConfig(ctx *cli.Context) (deceabiConfig, error) {
	cfg := defaultConfig()
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.IsSet(endpointFlag.Name) {
		cfg.Endpoint = ctx.String(endpointFlag.Name)
	}
	if ctx.IsSet(abiFileFlag.Name) {
		cfg.ABI = ctx.String(abiFileFlag.Name)
	}
	if ctx.IsSet(fromFlag.Name) {
		cfg.From = ctx.String(fromFlag.Name)
	}
	if ctx.IsSet(schemeFlag.Name) {
		cfg.Scheme = ctx.Uint(schemeFlag.Name)
	}
	return cfg, nil
}
