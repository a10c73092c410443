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

	"github.com/dece-chain/go-dece"
	"github.com/dece-chain/go-dece/common"
)

var (
	// ErrNoCode is returned by call and transact operations for which the requested
	// recipient contract to operate on does not exist in the state db or does not
	// have any code associated with it (i.e. self-destructed).
	ErrNoCode = errors.New("no contract code at given address")

	// ErrNoPendingState is raised when attempting to perform a pending state action
	// on a backend that doesn't implement PendingContractCaller.
	ErrNoPendingState = errors.New("backend does not support pending state")

	// ErrNoCodeAfterDeploy is returned by WaitDeployed if contract creation leaves
	// an empty contract behind.
	ErrNoCodeAfterDeploy = errors.New("no contract code after deployment")
)

// ContractCaller defines the methods needed to allow operating with a contract on a read
// only basis.
type ContractCaller interface {
	// CodeAt returns the code of the given account. This is needed to differentiate
	// between contract internal errors and the local chain being out of sync.
	CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error)

	// CallContract executes a contract call with the specified data as the input.
	CallContract(ctx context.Context, call dece.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// PendingContractCaller defines methods to perform contract calls on the pending state.
// Call will try to discover this interface when access to the pending state is requested.
// If the backend does not support the pending state, Call returns ErrNoPendingState.
type PendingContractCaller interface {
	// PendingCodeAt returns the code of the given account in the pending state.
	PendingCodeAt(ctx context.Context, contract common.Address) ([]byte, error)

	// PendingCallContract executes a contract call against the pending state.
	PendingCallContract(ctx context.Context, call dece.CallMsg) ([]byte, error)
}

// ContractTransactor defines the methods needed to allow operating with a contract
// on a write only basis. Signing and nonce handling live in the node, so a call
// message is all a transaction takes.
type ContractTransactor interface {
	// EstimateGas tries to estimate the gas needed to execute a transaction based on
	// the current pending state of the backend blockchain. There is no guarantee that
	// this is the true gas limit requirement as other transactions may be added or
	// removed before execution.
	EstimateGas(ctx context.Context, call dece.CallMsg) (gas uint64, err error)

	// SendTransaction injects the transaction into the pending pool for execution
	// and returns the transaction hash assigned by the node.
	SendTransaction(ctx context.Context, call dece.CallMsg) (common.Hash, error)
}

// AddressResolver defines the registry operations translating between full
// ledger addresses and the short forms used by versioned calldata.
type AddressResolver interface {
	// FullAddresses resolves registered short addresses back to their full form.
	// Every requested short must come back or the resolution fails.
	FullAddresses(ctx context.Context, shorts []common.ShortAddress) (map[common.ShortAddress]common.Address, error)

	// ShortAddresses registers the given full addresses under the contract salt
	// and returns the short form assigned to each.
	ShortAddresses(ctx context.Context, salt []byte, fulls []common.Address) (map[common.Address]common.ShortAddress, error)
}

// DeployBackend wraps the operations needed by WaitMined and WaitDeployed.
type DeployBackend interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*dece.Receipt, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// ContractBackend defines the methods needed to work with contracts on a read
// write basis.
type ContractBackend interface {
	ContractCaller
	ContractTransactor
	AddressResolver
}
