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

// Package dececlient provides a client for the dece JSON-RPC API.
package dececlient

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/dece-chain/go-dece"
	"github.com/dece-chain/go-dece/accounts/abi/bind"
	"github.com/dece-chain/go-dece/common"
	"github.com/dece-chain/go-dece/common/hexutil"
	"github.com/dece-chain/go-dece/common/lru"
	"github.com/dece-chain/go-dece/rpc"
	"golang.org/x/sync/singleflight"
)

// Verify that Client implements the contract backend interfaces.
var (
	_ bind.ContractBackend       = (*Client)(nil)
	_ bind.PendingContractCaller = (*Client)(nil)
	_ bind.DeployBackend         = (*Client)(nil)
)

// addrCacheSize bounds the in-process short address cache. Registry mappings
// are immutable, entries never go stale and only ever get evicted.
const addrCacheSize = 4096

// Client defines typed wrappers for the dece JSON-RPC API.
type Client struct {
	c *rpc.Client

	addrCache    *lru.Cache[common.ShortAddress, common.Address]
	singleflight singleflight.Group
}

// Dial connects a client to the given URL.
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

// DialContext connects a client to the given URL with context.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

// NewClient creates a client that uses the given RPC client.
func NewClient(c *rpc.Client) *Client {
	return &Client{
		c:         c,
		addrCache: lru.NewCache[common.ShortAddress, common.Address](addrCacheSize),
	}
}

// Close closes the underlying RPC connection.
func (ec *Client) Close() {
	ec.c.Close()
}

// Client gets the underlying RPC client.
func (ec *Client) Client() *rpc.Client {
	return ec.c
}

// ChainID retrieves the current chain ID for transaction replay protection.
func (ec *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var result hexutil.Big
	err := ec.c.CallContext(ctx, &result, "dece_chainId")
	if err != nil {
		return nil, err
	}
	return (*big.Int)(&result), err
}

// BlockNumber returns the most recent block number.
func (ec *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var result hexutil.Uint64
	err := ec.c.CallContext(ctx, &result, "dece_blockNumber")
	return uint64(result), err
}

// BalanceAt returns the mote balance of the given account. The block number
// can be nil, in which case the balance is taken from the latest known block.
func (ec *Client) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	var result hexutil.Big
	err := ec.c.CallContext(ctx, &result, "dece_getBalance", account, toBlockNumArg(blockNumber))
	return (*big.Int)(&result), err
}

// PendingBalanceAt returns the mote balance of the given account in the
// pending state.
func (ec *Client) PendingBalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	var result hexutil.Big
	err := ec.c.CallContext(ctx, &result, "dece_getBalance", account, "pending")
	return (*big.Int)(&result), err
}

// CodeAt returns the contract code of the given account. The block number can
// be nil, in which case the code is taken from the latest known block.
func (ec *Client) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	var result hexutil.Bytes
	err := ec.c.CallContext(ctx, &result, "dece_getCode", account, toBlockNumArg(blockNumber))
	return result, err
}

// PendingCodeAt returns the contract code of the given account in the pending
// state.
func (ec *Client) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	var result hexutil.Bytes
	err := ec.c.CallContext(ctx, &result, "dece_getCode", account, "pending")
	return result, err
}

// CallContract executes a message call transaction, which is directly executed
// in the VM of the node, but never mined into the ledger.
//
// blockNumber selects the block height at which the call runs. It can be nil,
// in which case the code is taken from the latest known block.
func (ec *Client) CallContract(ctx context.Context, msg dece.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var hex hexutil.Bytes
	err := ec.c.CallContext(ctx, &hex, "dece_call", msg, toBlockNumArg(blockNumber))
	if err != nil {
		return nil, err
	}
	return hex, nil
}

// PendingCallContract executes a message call transaction using the pending
// state.
func (ec *Client) PendingCallContract(ctx context.Context, msg dece.CallMsg) ([]byte, error) {
	var hex hexutil.Bytes
	err := ec.c.CallContext(ctx, &hex, "dece_call", msg, "pending")
	if err != nil {
		return nil, err
	}
	return hex, nil
}

// SendTransaction injects the transaction into the pending pool for execution.
// The node signs on behalf of the sending account, which must be unlocked.
func (ec *Client) SendTransaction(ctx context.Context, msg dece.CallMsg) (common.Hash, error) {
	var hash common.Hash
	err := ec.c.CallContext(ctx, &hash, "dece_sendTransaction", msg)
	return hash, err
}

// EstimateGas tries to estimate the gas needed to execute a specific
// transaction based on the current pending state of the backend blockchain.
func (ec *Client) EstimateGas(ctx context.Context, msg dece.CallMsg) (uint64, error) {
	var hex hexutil.Uint64
	err := ec.c.CallContext(ctx, &hex, "dece_estimateGas", msg)
	return uint64(hex), err
}

// TransactionReceipt returns the receipt of a transaction by transaction hash.
// Note that the receipt is not available for pending transactions.
func (ec *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*dece.Receipt, error) {
	var r *dece.Receipt
	err := ec.c.CallContext(ctx, &r, "dece_getTransactionReceipt", txHash)
	if err == nil && r == nil {
		return nil, dece.ErrNotFound
	}
	return r, err
}

// FullAddresses resolves short addresses back to their full registry form.
// Resolved pairs are immutable and cached in-process; concurrent lookups for
// the same misses collapse into a single node request.
func (ec *Client) FullAddresses(ctx context.Context, shortAddrs []common.ShortAddress) (map[common.ShortAddress]common.Address, error) {
	out := make(map[common.ShortAddress]common.Address, len(shortAddrs))
	seen := make(map[common.ShortAddress]bool, len(shortAddrs))
	var misses []common.ShortAddress
	for _, short := range shortAddrs {
		if seen[short] {
			continue
		}
		seen[short] = true
		if full, ok := ec.addrCache.Get(short); ok {
			out[short] = full
			continue
		}
		misses = append(misses, short)
	}
	if len(misses) == 0 {
		return out, nil
	}
	resolved, err := ec.lookupFullAddresses(ctx, misses)
	if err != nil {
		return nil, err
	}
	for short, full := range resolved {
		ec.addrCache.Add(short, full)
		out[short] = full
	}
	return out, nil
}

func (ec *Client) lookupFullAddresses(ctx context.Context, misses []common.ShortAddress) (map[common.ShortAddress]common.Address, error) {
	keys := make([]string, len(misses))
	for i, short := range misses {
		keys[i] = short.Hex()
	}
	sort.Strings(keys)

	v, err, _ := ec.singleflight.Do(strings.Join(keys, ","), func() (interface{}, error) {
		var resolved map[common.ShortAddress]common.Address
		if err := ec.c.CallContext(ctx, &resolved, "dece_getFullAddress", misses); err != nil {
			return nil, err
		}
		return resolved, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[common.ShortAddress]common.Address), nil
}

// ShortAddresses asks the registry for the short form of the given full
// addresses under the contract salt. Short forms depend on the salt, so
// results are never cached across contracts.
func (ec *Client) ShortAddresses(ctx context.Context, salt []byte, fullAddrs []common.Address) (map[common.Address]common.ShortAddress, error) {
	var shorts map[common.Address]common.ShortAddress
	err := ec.c.CallContext(ctx, &shorts, "dece_getShortAddress", hexutil.Bytes(salt), fullAddrs)
	return shorts, err
}

func toBlockNumArg(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	if number.Sign() >= 0 {
		return hexutil.EncodeBig(number)
	}
	// It's negative.
	if number.IsInt64() {
		return rpc.BlockNumber(number.Int64()).String()
	}
	// It's negative and large, which is invalid.
	return fmt.Sprintf("<invalid %d>", number)
}
