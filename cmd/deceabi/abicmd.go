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
	"math/big"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/dece-chain/go-dece/accounts/abi"
	"github.com/dece-chain/go-dece/common"
	"github.com/dece-chain/go-dece/common/hexutil"
	"github.com/dece-chain/go-dece/common/math"
	"github.com/dece-chain/go-dece/crypto"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

var (
	methodsCommand = &cli.Command{
		Name:   "methods",
		Usage:  "List the functions of a contract ABI",
		Action: listMethods,
		Flags:  []cli.Flag{abiFileFlag},
	}
	selectorCommand = &cli.Command{
		Name:      "selector",
		Usage:     "Compute the 4-byte selector of a canonical function signature",
		ArgsUsage: "<signature>",
		Action:    computeSelector,
	}
	encodeCommand = &cli.Command{
		Name:      "encode",
		Usage:     "Build legacy scheme calldata for a function call",
		ArgsUsage: "<method> [args...]",
		Action:    encodeCalldata,
		Flags:     []cli.Flag{abiFileFlag},
		Description: `
Packs the given arguments for the named method and prints the calldata as hex.
Arguments are parsed against the ABI input types; only scalar types can be
given on the command line. Addresses travel in full form and no routing prefix
is added, matching the legacy calldata scheme.`,
	}
	decodeCommand = &cli.Command{
		Name:      "decode",
		Usage:     "Decode calldata against a contract ABI",
		ArgsUsage: "<calldata>",
		Action:    decodeCalldata,
		Flags:     []cli.Flag{abiFileFlag},
	}
)

func loadABI(ctx *cli.Context) (abi.ABI, error) {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return abi.ABI{}, err
	}
	if cfg.ABI == "" {
		return abi.ABI{}, errors.New("no ABI file given, use --abi or the config file")
	}
	f, err := os.Open(cfg.ABI)
	if err != nil {
		return abi.ABI{}, err
	}
	defer f.Close()
	return abi.JSON(f)
}

func listMethods(ctx *cli.Context) error {
	parsed, err := loadABI(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(parsed.Methods))
	for name := range parsed.Methods {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Signature", "Selector", "Mutability", "Payable"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, name := range names {
		method := parsed.Methods[name]
		table.Append([]string{
			name,
			method.Sig,
			hexutil.Encode(method.ID),
			method.StateMutability,
			strconv.FormatBool(method.IsPayable()),
		})
	}
	table.Render()
	return nil
}

func computeSelector(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("one signature argument needed")
	}
	sig := ctx.Args().First()
	if strings.ContainsAny(sig, " \t") {
		return errors.New("canonical signatures carry no whitespace")
	}
	fmt.Println(hexutil.Encode(crypto.Keccak256([]byte(sig))[:4]))
	return nil
}

func encodeCalldata(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("method name needed")
	}
	parsed, err := loadABI(ctx)
	if err != nil {
		return err
	}
	name := ctx.Args().First()
	method, ok := parsed.Methods[name]
	if !ok {
		return fmt.Errorf("no method %q in ABI", name)
	}
	raw := ctx.Args().Tail()
	if len(raw) != len(method.Inputs) {
		return fmt.Errorf("%s needs %d arguments, got %d", method.Sig, len(method.Inputs), len(raw))
	}
	args := make([]interface{}, len(raw))
	for i, s := range raw {
		arg, err := parseArgument(method.Inputs[i].Type, s)
		if err != nil {
			return fmt.Errorf("argument %d: %v", i, err)
		}
		args[i] = arg
	}
	data, err := parsed.Pack(name, args...)
	if err != nil {
		return err
	}
	fmt.Println(hexutil.Encode(data))
	return nil
}

func decodeCalldata(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("one calldata argument needed")
	}
	parsed, err := loadABI(ctx)
	if err != nil {
		return err
	}
	data, err := hexutil.Decode(ctx.Args().First())
	if err != nil {
		return err
	}
	if len(data) < 4 {
		return errors.New("calldata shorter than a selector")
	}
	method, err := parsed.MethodById(data[:4])
	if err != nil {
		return err
	}
	values, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return err
	}
	fmt.Println(method.Sig)
	fmt.Print(spew.Sdump(values))
	return nil
}

// parseArgument converts a command line string into the Go value the packer
// expects for the given ABI type. Composite types cannot be expressed as a
// single argument and are rejected.
func parseArgument(t abi.Type, s string) (interface{}, error) {
	switch t.T {
	case abi.AddressTy:
		return common.Base58ToAddress(s)
	case abi.UintTy:
		return parseUint(t.Size, s)
	case abi.IntTy:
		return parseInt(t.Size, s)
	case abi.BoolTy:
		return strconv.ParseBool(s)
	case abi.StringTy:
		return s, nil
	case abi.BytesTy:
		return hexutil.Decode(s)
	case abi.FixedBytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("bytes%d value has %d bytes", t.Size, len(b))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	default:
		return nil, errors.New("composite argument types cannot be given on the command line")
	}
}

func parseUint(size int, s string) (interface{}, error) {
	n, ok := math.ParseBig256(s)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	if n.Sign() < 0 || n.BitLen() > size {
		return nil, fmt.Errorf("number %s out of range for uint%d", s, size)
	}
	switch size {
	case 8:
		return uint8(n.Uint64()), nil
	case 16:
		return uint16(n.Uint64()), nil
	case 32:
		return uint32(n.Uint64()), nil
	case 64:
		return n.Uint64(), nil
	default:
		return n, nil
	}
}

func parseInt(size int, s string) (interface{}, error) {
	n, ok := math.ParseBig256(s)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	limit := math.BigPow(2, int64(size-1))
	if n.Cmp(new(big.Int).Neg(limit)) < 0 || n.Cmp(new(big.Int).Sub(limit, common.Big1)) > 0 {
		return nil, fmt.Errorf("number %s out of range for int%d", s, size)
	}
	switch size {
	case 8:
		return int8(n.Int64()), nil
	case 16:
		return int16(n.Int64()), nil
	case 32:
		return int32(n.Int64()), nil
	case 64:
		return n.Int64(), nil
	default:
		return n, nil
	}
}
