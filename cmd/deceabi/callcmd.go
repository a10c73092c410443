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

	"github.com/dece-chain/go-dece/accounts/abi/bind"
	"github.com/dece-chain/go-dece/common"
	"github.com/dece-chain/go-dece/common/hexutil"
	"github.com/dece-chain/go-dece/dececlient"
	"github.com/dece-chain/go-dece/params"
	"github.com/dece-chain/go-dece/rpc"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	callCommand = &cli.Command{
		Name:      "call",
		Usage:     "Dispatch a read call against a deployed contract",
		ArgsUsage: "<contract> <method> [args...]",
		Action:    callContract,
		Flags:     []cli.Flag{abiFileFlag, endpointFlag, fromFlag, schemeFlag, pendingFlag},
		Description: `
Binds the named method under the configured calldata scheme and executes it
as a read call on the node. With scheme 2, address arguments are shortened
through the node registry and short addresses in the output are resolved back
to their full form before printing.`,
	}
	balanceCommand = &cli.Command{
		Name:      "balance",
		Usage:     "Print the balance of an account",
		ArgsUsage: "<address>",
		Action:    printBalance,
		Flags:     []cli.Flag{endpointFlag, pendingFlag},
	}
)

func dialNode(ctx *cli.Context, cfg deceabiConfig) (*dececlient.Client, error) {
	logger.Debug("dialing node", zap.String("endpoint", cfg.Endpoint))
	c, err := rpc.DialContext(ctx.Context, cfg.Endpoint, rpc.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return dececlient.NewClient(c), nil
}

func callContract(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return errors.New("contract address and method name needed")
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	contractAddr, err := common.Base58ToAddress(ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid contract address: %v", err)
	}
	parsed, err := loadABI(ctx)
	if err != nil {
		return err
	}
	name := ctx.Args().Get(1)
	method, ok := parsed.Methods[name]
	if !ok {
		return fmt.Errorf("no method %q in ABI", name)
	}
	raw := ctx.Args().Slice()[2:]
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

	client, err := dialNode(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	contract, err := bind.NewBoundContract(contractAddr, parsed, client, cfg.Scheme)
	if err != nil {
		return err
	}
	opts := &bind.CallOpts{
		Pending: ctx.Bool(pendingFlag.Name),
		Context: ctx.Context,
	}
	if cfg.From != "" {
		from, err := common.Base58ToAddress(cfg.From)
		if err != nil {
			return fmt.Errorf("invalid from address: %v", err)
		}
		opts.From = from
	}
	logger.Debug("dispatching call",
		zap.String("method", method.Sig),
		zap.Uint("scheme", cfg.Scheme),
		zap.Bool("pending", opts.Pending),
	)
	out, err := contract.Call(opts, name, args...)
	if err != nil {
		return err
	}
	if len(out) == 0 {
		fmt.Println("ok, no outputs")
		return nil
	}
	for i, v := range out {
		fmt.Printf("%d: %s\n", i, formatValue(v))
	}
	return nil
}

func formatValue(v interface{}) string {
	switch v := v.(type) {
	case []byte:
		return hexutil.Encode(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func printBalance(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("one address argument needed")
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	addr, err := common.Base58ToAddress(ctx.Args().First())
	if err != nil {
		return fmt.Errorf("invalid address: %v", err)
	}
	client, err := dialNode(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	var balance *big.Int
	if ctx.Bool(pendingFlag.Name) {
		balance, err = client.PendingBalanceAt(ctx.Context, addr)
	} else {
		balance, err = client.BalanceAt(ctx.Context, addr, nil)
	}
	if err != nil {
		return err
	}
	inDece := new(big.Float).Quo(new(big.Float).SetInt(balance), big.NewFloat(params.Dece))
	fmt.Printf("%s mote (%s dece)\n", balance, inDece.Text('f', -1))
	return nil
}
