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

// deceabi inspects contract ABI definitions, builds and decodes calldata and
// dispatches read calls against a dece node.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dece-chain/go-dece/params"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable debug output",
	}
	abiFileFlag = &cli.StringFlag{
		Name:  "abi",
		Usage: "Path to the contract ABI JSON file",
	}
	endpointFlag = &cli.StringFlag{
		Name:  "endpoint",
		Usage: "JSON-RPC endpoint of the dece node",
	}
	fromFlag = &cli.StringFlag{
		Name:  "from",
		Usage: "Sender address (base58)",
	}
	schemeFlag = &cli.UintFlag{
		Name:  "scheme",
		Usage: "Calldata scheme version (1 = legacy, 2 = short address)",
		Value: params.DefaultABIVersion,
	}
	pendingFlag = &cli.BoolFlag{
		Name:  "pending",
		Usage: "Operate on the pending state instead of the latest block",
	}
)

// logger is configured in app.Before and shared by all commands.
var logger = zap.NewNop()

var app = &cli.App{
	Name:    filepath.Base(os.Args[0]),
	Usage:   "go-dece ABI and contract call tool",
	Version: params.VersionWithMeta,
	Writer:  os.Stdout,
	Flags: []cli.Flag{
		configFileFlag,
		verboseFlag,
	},
	Before: func(ctx *cli.Context) error {
		logger = newLogger(ctx.Bool(verboseFlag.Name))
		return nil
	},
	Commands: []*cli.Command{
		methodsCommand,
		selectorCommand,
		encodeCommand,
		decodeCommand,
		callCommand,
		balanceCommand,
	},
}

func newLogger(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
	})
	return zap.New(zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level))
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
