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

// Package dece defines interfaces for interacting with the Dece ledger.
package dece

import (
	"encoding/json"
	"errors"
	"math/big"

	"github.com/dece-chain/go-dece/common"
	"github.com/dece-chain/go-dece/common/hexutil"
)

// ErrNotFound is returned by API methods if the requested item does not exist.
var ErrNotFound = errors.New("not found")

// CallMsg contains parameters for contract calls and transactions.
//
// Data already carries the complete payload the scheme version dictates: the
// routing prefix (short-address scheme only), the function selector and the
// ABI-encoded arguments.
type CallMsg struct {
	From     common.Address  // sender account, zero when the node should pick
	To       *common.Address // target contract, nil means contract creation
	Gas      uint64          // gas limit, 0 lets the node estimate
	GasPrice *big.Int        // mote per gas unit, nil means node default
	Value    *big.Int        // amount of mote sent along with the call
	Data     []byte          // payload: prefix, selector, encoded arguments

	// Dy marks the transaction for deferred execution. The flag travels to
	// the node verbatim and is never interpreted client-side.
	Dy bool

	// Extra holds additional transaction fields passed through to the node
	// unchanged. Keys clashing with the fields above are dropped.
	Extra map[string]interface{}
}

// MarshalJSON encodes the message in the node's wire form. Unset fields are
// omitted entirely rather than sent as zero values.
func (msg CallMsg) MarshalJSON() ([]byte, error) {
	arg := make(map[string]interface{}, 8)
	for k, v := range msg.Extra {
		arg[k] = v
	}
	if msg.From != (common.Address{}) {
		arg["from"] = msg.From
	}
	if msg.To != nil {
		arg["to"] = msg.To
	}
	if msg.Gas != 0 {
		arg["gas"] = hexutil.Uint64(msg.Gas)
	}
	if msg.GasPrice != nil {
		arg["gasPrice"] = (*hexutil.Big)(msg.GasPrice)
	}
	if msg.Value != nil {
		arg["value"] = (*hexutil.Big)(msg.Value)
	}
	if len(msg.Data) > 0 {
		arg["data"] = hexutil.Bytes(msg.Data)
	}
	if msg.Dy {
		arg["dy"] = true
	}
	return json.Marshal(arg)
}

// Receipt is the result of a mined transaction.
type Receipt struct {
	TxHash          common.Hash
	ContractAddress common.Address // set when the transaction created a contract
	BlockNumber     *big.Int
	Status          uint64 // 1 for success, 0 for execution failure
	GasUsed         uint64
}

// UnmarshalJSON decodes the node's receipt representation.
func (r *Receipt) UnmarshalJSON(input []byte) error {
	type receiptJSON struct {
		TxHash          *common.Hash    `json:"transactionHash"`
		ContractAddress *common.Address `json:"contractAddress"`
		BlockNumber     *hexutil.Big    `json:"blockNumber"`
		Status          *hexutil.Uint64 `json:"status"`
		GasUsed         *hexutil.Uint64 `json:"gasUsed"`
	}
	var dec receiptJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if dec.TxHash == nil {
		return errors.New("missing required field 'transactionHash' for Receipt")
	}
	r.TxHash = *dec.TxHash
	if dec.ContractAddress != nil {
		r.ContractAddress = *dec.ContractAddress
	}
	if dec.BlockNumber != nil {
		r.BlockNumber = (*big.Int)(dec.BlockNumber)
	}
	if dec.Status != nil {
		r.Status = uint64(*dec.Status)
	}
	if dec.GasUsed != nil {
		r.GasUsed = uint64(*dec.GasUsed)
	}
	return nil
}
