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
	"math/big"

	"github.com/dece-chain/go-dece/common"
)

// CallOpts is the collection of options to fine tune a contract call request.
type CallOpts struct {
	Pending     bool            // Whether to operate on the pending state or the last known one
	From        common.Address  // Optional the sender address, otherwise the node picks one
	BlockNumber *big.Int        // Optional the block number on which the call should be performed
	Context     context.Context // Network context to support cancelling and timeouts (nil = no timeout)
}

// TransactOpts is the collection of options to fine tune a transaction
// request. Signing and nonce assignment happen node side, so only the sender
// address travels with the request.
type TransactOpts struct {
	From common.Address // Account to charge and attribute the transaction to

	Value    *big.Int // Funds to transfer along the transaction (nil = 0 = no funds)
	GasPrice *big.Int // Gas price to use for the transaction execution (nil = node default)
	GasLimit uint64   // Gas limit to set for the transaction execution (0 = estimate)

	// Dy marks the transaction for deferred execution. The binding never
	// interprets the flag, it travels to the node verbatim.
	Dy bool

	// Extra holds vendor transaction fields passed through to the request
	// untouched. Keys clashing with the standard fields are dropped.
	Extra map[string]interface{}

	Context context.Context // Network context to support cancelling and timeouts (nil = no timeout)
}

// ensureContext is a helper method to ensure a context is not nil, even if the
// user specified it as such.
func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
