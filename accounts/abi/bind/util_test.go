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
	"math/big"
	"testing"

	"github.com/dece-chain/go-dece"
	"github.com/dece-chain/go-dece/common"
	"github.com/stretchr/testify/require"
)

func TestWaitMined(t *testing.T) {
	backend := newMockBackend()
	txHash := common.HexToHash("0xaa")
	want := &dece.Receipt{
		TxHash:          txHash,
		ContractAddress: testAddr,
		BlockNumber:     big.NewInt(7),
		Status:          1,
		GasUsed:         21000,
	}
	backend.receipts[txHash] = want

	receipt, err := WaitMined(context.Background(), backend, txHash)
	require.NoError(t, err)
	require.Equal(t, want, receipt)
	require.Equal(t, 1, backend.receiptQueries)
}

func TestWaitMinedPollsUntilFound(t *testing.T) {
	backend := newMockBackend()
	txHash := common.HexToHash("0xab")
	want := &dece.Receipt{TxHash: txHash, Status: 1}

	// The receipt shows up while the waiter is already polling.
	type result struct {
		receipt *dece.Receipt
		err     error
	}
	resc := make(chan result, 1)
	go func() {
		receipt, err := WaitMined(context.Background(), backend, txHash)
		resc <- result{receipt, err}
	}()
	backend.setReceipt(txHash, want)

	res := <-resc
	require.NoError(t, res.err)
	require.Equal(t, want, res.receipt)
	require.GreaterOrEqual(t, backend.receiptQueries, 1)
}

func TestWaitMinedBackendError(t *testing.T) {
	backend := newMockBackend()
	backend.receiptErr = errors.New("connection refused")

	_, err := WaitMined(context.Background(), backend, common.HexToHash("0xac"))
	require.ErrorContains(t, err, "connection refused")
	require.Equal(t, 1, backend.receiptQueries, "hard failures must not be retried")
}

func TestWaitMinedCancelled(t *testing.T) {
	backend := newMockBackend()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WaitMined(ctx, backend, common.HexToHash("0xad"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestWaitDeployed(t *testing.T) {
	backend := newMockBackend()
	txHash := common.HexToHash("0xae")
	backend.receipts[txHash] = &dece.Receipt{TxHash: txHash, ContractAddress: testAddr, Status: 1}

	addr, err := WaitDeployed(context.Background(), backend, txHash)
	require.NoError(t, err)
	require.Equal(t, testAddr, addr)
	require.Equal(t, 1, backend.codeQueries)
}

func TestWaitDeployedZeroAddress(t *testing.T) {
	backend := newMockBackend()
	txHash := common.HexToHash("0xaf")
	backend.receipts[txHash] = &dece.Receipt{TxHash: txHash, Status: 1}

	_, err := WaitDeployed(context.Background(), backend, txHash)
	require.ErrorContains(t, err, "zero address")
}

func TestWaitDeployedNoCode(t *testing.T) {
	backend := newMockBackend()
	backend.code = nil
	txHash := common.HexToHash("0xb0")
	backend.receipts[txHash] = &dece.Receipt{TxHash: txHash, ContractAddress: testAddr, Status: 1}

	addr, err := WaitDeployed(context.Background(), backend, txHash)
	require.ErrorIs(t, err, ErrNoCodeAfterDeploy)
	require.Equal(t, testAddr, addr)
}
