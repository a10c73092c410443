// Copyright 2024 The go-dece Authors
// This file is part of the go-dece library.
//
// The go-dece library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-dece library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-dece library. If not, see <http://www.gnu.org/licenses/>.

package bind

import (
	"context"
	"errors"
	"time"

	"github.com/dece-chain/go-dece"
	"github.com/dece-chain/go-dece/common"
	"github.com/dece-chain/go-dece/params"
)

// WaitMined waits for the transaction with the given hash to be mined and
// returns its receipt. It polls the backend every params.DefaultPollInterval
// and stops when the context is cancelled or the backend fails.
func WaitMined(ctx context.Context, b DeployBackend, txHash common.Hash) (*dece.Receipt, error) {
	queryTicker := time.NewTicker(params.DefaultPollInterval)
	defer queryTicker.Stop()

	for {
		receipt, err := b.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, dece.ErrNotFound) {
			return nil, err
		}
		// Wait for the next round.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-queryTicker.C:
		}
	}
}

// WaitDeployed waits for a contract deployment transaction to be mined and
// returns the address the contract landed on. An empty code blob at that
// address fails with ErrNoCodeAfterDeploy.
func WaitDeployed(ctx context.Context, b DeployBackend, txHash common.Hash) (common.Address, error) {
	receipt, err := WaitMined(ctx, b, txHash)
	if err != nil {
		return common.Address{}, err
	}
	if receipt.ContractAddress == (common.Address{}) {
		return common.Address{}, errors.New("zero address")
	}
	// Check that code has indeed been deployed at the address.
	// An out of gas constructor can leave an empty account behind.
	code, err := b.CodeAt(ctx, receipt.ContractAddress, nil)
	if err == nil && len(code) == 0 {
		err = ErrNoCodeAfterDeploy
	}
	return receipt.ContractAddress, err
}
