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
	"fmt"

	"github.com/dece-chain/go-dece"
	"github.com/dece-chain/go-dece/accounts/abi"
	"github.com/dece-chain/go-dece/common"
	"github.com/dece-chain/go-dece/common/hexutil"
	"github.com/dece-chain/go-dece/params"
)

// MethodBinding ties one contract method to an on chain address and a
// backend. The calldata scheme version is fixed when the binding is created,
// every operation derives its payload and decodes its output the same way.
type MethodBinding struct {
	method  abi.Method
	address common.Address
	backend ContractBackend
	version uint
	salt    []byte // registry salt, short address scheme only
	prefix  []byte // routing prefix, short address scheme only
}

// NewMethodBinding binds method to the contract at address using the given
// calldata scheme version.
func NewMethodBinding(method abi.Method, address common.Address, backend ContractBackend, version uint) (*MethodBinding, error) {
	if version != params.ABIVersionLegacy && version != params.ABIVersionShortAddr {
		return nil, fmt.Errorf("bind: unknown abi version %d", version)
	}
	b := &MethodBinding{
		method:  method,
		address: address,
		backend: backend,
		version: version,
	}
	if version == params.ABIVersionShortAddr {
		b.salt = abi.Salt(address)
		b.prefix = abi.RoutingPrefix(b.salt)
	}
	return b, nil
}

// Method returns the bound ABI method.
func (b *MethodBinding) Method() abi.Method { return b.method }

// Address returns the bound contract address.
func (b *MethodBinding) Address() common.Address { return b.address }

// Version returns the calldata scheme version the binding uses.
func (b *MethodBinding) Version() uint { return b.version }

func (b *MethodBinding) checkArity(args []interface{}) error {
	if want := len(b.method.Inputs); len(args) != want {
		return &ArityError{Method: b.method.RawName, Want: want, Got: len(args)}
	}
	return nil
}

func (b *MethodBinding) checkPayable(opts *TransactOpts) error {
	if opts.Value != nil && opts.Value.Sign() != 0 && !b.method.IsPayable() {
		return fmt.Errorf("%w: %s", ErrNotPayable, b.method.RawName)
	}
	return nil
}

// shortenArgs rewrites args into their short address form when the scheme is
// versioned. Arguments without full addresses skip the registry round trip.
func (b *MethodBinding) shortenArgs(ctx context.Context, args []interface{}) ([]interface{}, error) {
	if b.version != params.ABIVersionShortAddr {
		return args, nil
	}
	fulls, err := b.method.Inputs.CollectAddresses(args...)
	if err != nil {
		return nil, err
	}
	if len(fulls) == 0 {
		return b.method.Inputs.ShortenAddresses(nil, args...)
	}
	shorts, err := b.backend.ShortAddresses(ctx, b.salt, fulls)
	if err != nil {
		return nil, err
	}
	return b.method.Inputs.ShortenAddresses(shorts, args...)
}

func (b *MethodBinding) callData(ctx context.Context, args []interface{}) ([]byte, error) {
	shortened, err := b.shortenArgs(ctx, args)
	if err != nil {
		return nil, err
	}
	packed, err := b.method.Inputs.Pack(shortened...)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, len(b.prefix)+len(b.method.ID)+len(packed))
	data = append(data, b.prefix...)
	data = append(data, b.method.ID...)
	data = append(data, packed...)
	return data, nil
}

// CallData returns the complete calldata of an invocation with args: the
// routing prefix when the scheme demands one, the selector and the packed
// arguments. Nothing is dispatched, though the versioned scheme may consult
// the backend registry to shorten addresses.
func (b *MethodBinding) CallData(ctx context.Context, args ...interface{}) (hexutil.Bytes, error) {
	if err := b.checkArity(args); err != nil {
		return nil, err
	}
	return b.callData(ensureContext(ctx), args)
}

func (b *MethodBinding) callMsg(opts *CallOpts, data []byte) dece.CallMsg {
	return dece.CallMsg{From: opts.From, To: &b.address, Data: data}
}

func (b *MethodBinding) transactMsg(opts *TransactOpts, data []byte) dece.CallMsg {
	return dece.CallMsg{
		From:     opts.From,
		To:       &b.address,
		Gas:      opts.GasLimit,
		GasPrice: opts.GasPrice,
		Value:    opts.Value,
		Data:     data,
		Dy:       opts.Dy,
		Extra:    opts.Extra,
	}
}

// Call invokes the bound method with args as a read only operation and
// returns the decoded outputs.
func (b *MethodBinding) Call(opts *CallOpts, args ...interface{}) ([]interface{}, error) {
	if opts == nil {
		opts = new(CallOpts)
	}
	if err := b.checkArity(args); err != nil {
		return nil, err
	}
	var (
		ctx    = ensureContext(opts.Context)
		code   []byte
		output []byte
	)
	data, err := b.callData(ctx, args)
	if err != nil {
		return nil, err
	}
	msg := b.callMsg(opts, data)
	if opts.Pending {
		pb, ok := b.backend.(PendingContractCaller)
		if !ok {
			return nil, ErrNoPendingState
		}
		output, err = pb.PendingCallContract(ctx, msg)
		if err != nil {
			return nil, err
		}
		if len(output) == 0 {
			// Make sure we have a contract to operate on, and bail out otherwise.
			if code, err = pb.PendingCodeAt(ctx, b.address); err != nil {
				return nil, err
			} else if len(code) == 0 {
				return nil, ErrNoCode
			}
		}
	} else {
		output, err = b.backend.CallContract(ctx, msg, opts.BlockNumber)
		if err != nil {
			return nil, err
		}
		if len(output) == 0 {
			// Make sure we have a contract to operate on, and bail out otherwise.
			if code, err = b.backend.CodeAt(ctx, b.address, opts.BlockNumber); err != nil {
				return nil, err
			} else if len(code) == 0 {
				return nil, ErrNoCode
			}
		}
	}
	return b.unpackOutput(ctx, output)
}

// unpackOutput decodes raw call output against the method's declared outputs.
// A revert payload wins over any declared output shape.
func (b *MethodBinding) unpackOutput(ctx context.Context, output []byte) ([]interface{}, error) {
	if len(output) == 0 {
		if len(b.method.Outputs.NonIndexed()) == 0 {
			return nil, nil
		}
		return nil, &DecodeError{Raw: output, Err: errors.New("empty output")}
	}
	if abi.IsRevert(output) {
		reason, err := abi.UnpackRevert(output)
		if err != nil {
			return nil, &DecodeError{Raw: output, Err: err}
		}
		return nil, &RevertError{Reason: reason, Raw: output}
	}
	if b.version == params.ABIVersionShortAddr {
		shorts, err := b.method.Outputs.ExtractShortAddresses(output)
		if err != nil {
			return nil, &DecodeError{Raw: output, Err: err}
		}
		var dir abi.AddressDirectory
		if len(shorts) > 0 {
			if dir, err = b.backend.FullAddresses(ctx, shorts); err != nil {
				return nil, err
			}
		}
		values, err := b.method.Outputs.UnpackWithDirectory(output, dir)
		if err != nil {
			return nil, &DecodeError{Raw: output, Err: err}
		}
		return values, nil
	}
	values, err := b.method.Outputs.Unpack(output)
	if err != nil {
		return nil, &DecodeError{Raw: output, Err: err}
	}
	return values, nil
}

// Transact invokes the bound method with args as a state changing operation.
// The node signs and schedules the transaction and assigns its hash.
func (b *MethodBinding) Transact(opts *TransactOpts, args ...interface{}) (common.Hash, error) {
	if opts == nil {
		opts = new(TransactOpts)
	}
	if err := b.checkArity(args); err != nil {
		return common.Hash{}, err
	}
	if err := b.checkPayable(opts); err != nil {
		return common.Hash{}, err
	}
	ctx := ensureContext(opts.Context)
	data, err := b.callData(ctx, args)
	if err != nil {
		return common.Hash{}, err
	}
	return b.backend.SendTransaction(ctx, b.transactMsg(opts, data))
}

// EstimateGas estimates the gas a transaction of the bound method takes.
func (b *MethodBinding) EstimateGas(opts *TransactOpts, args ...interface{}) (uint64, error) {
	if opts == nil {
		opts = new(TransactOpts)
	}
	if err := b.checkArity(args); err != nil {
		return 0, err
	}
	ctx := ensureContext(opts.Context)
	data, err := b.callData(ctx, args)
	if err != nil {
		return 0, err
	}
	return b.backend.EstimateGas(ctx, b.transactMsg(opts, data))
}

// ExecResult is the outcome of Execute: decoded outputs for read only
// methods, the transaction hash for state changing ones.
type ExecResult struct {
	Outputs []interface{}
	Hash    common.Hash
}

// Execute routes the invocation by the method's mutability: read only methods
// are called, state changing ones are transacted.
func (b *MethodBinding) Execute(opts *TransactOpts, args ...interface{}) (*ExecResult, error) {
	if opts == nil {
		opts = new(TransactOpts)
	}
	if b.method.IsConstant() {
		outputs, err := b.Call(&CallOpts{From: opts.From, Context: opts.Context}, args...)
		if err != nil {
			return nil, err
		}
		return &ExecResult{Outputs: outputs}, nil
	}
	hash, err := b.Transact(opts, args...)
	if err != nil {
		return nil, err
	}
	return &ExecResult{Hash: hash}, nil
}

// Request describes the invocation as a raw RPC request: the wire method,
// its positional parameters and a decoder for the eventual response.
// Nothing is dispatched.
type Request struct {
	Method string
	Params []interface{}

	// Unpack decodes raw response output the way the binding would, resolving
	// short addresses through the backend when the scheme is versioned.
	Unpack func(ctx context.Context, output []byte) ([]interface{}, error)
}

// Request builds the RPC request this invocation would dispatch. Read only
// methods become dece_call requests against the latest block, state changing
// ones become dece_sendTransaction requests.
func (b *MethodBinding) Request(opts *TransactOpts, args ...interface{}) (*Request, error) {
	if opts == nil {
		opts = new(TransactOpts)
	}
	if err := b.checkArity(args); err != nil {
		return nil, err
	}
	ctx := ensureContext(opts.Context)
	data, err := b.callData(ctx, args)
	if err != nil {
		return nil, err
	}
	req := &Request{Unpack: b.unpackOutput}
	if b.method.IsConstant() {
		req.Method = "dece_call"
		req.Params = []interface{}{b.callMsg(&CallOpts{From: opts.From}, data), "latest"}
		return req, nil
	}
	if err := b.checkPayable(opts); err != nil {
		return nil, err
	}
	req.Method = "dece_sendTransaction"
	req.Params = []interface{}{b.transactMsg(opts, data)}
	return req, nil
}

// CallAsync runs Call on its own goroutine.
func (b *MethodBinding) CallAsync(opts *CallOpts, args ...interface{}) <-chan Result[[]interface{}] {
	return async(func() ([]interface{}, error) { return b.Call(opts, args...) })
}

// TransactAsync runs Transact on its own goroutine.
func (b *MethodBinding) TransactAsync(opts *TransactOpts, args ...interface{}) <-chan Result[common.Hash] {
	return async(func() (common.Hash, error) { return b.Transact(opts, args...) })
}

// EstimateGasAsync runs EstimateGas on its own goroutine.
func (b *MethodBinding) EstimateGasAsync(opts *TransactOpts, args ...interface{}) <-chan Result[uint64] {
	return async(func() (uint64, error) { return b.EstimateGas(opts, args...) })
}

// CallDataAsync runs CallData on its own goroutine.
func (b *MethodBinding) CallDataAsync(ctx context.Context, args ...interface{}) <-chan Result[hexutil.Bytes] {
	return async(func() (hexutil.Bytes, error) { return b.CallData(ctx, args...) })
}

// ExecuteAsync runs Execute on its own goroutine.
func (b *MethodBinding) ExecuteAsync(opts *TransactOpts, args ...interface{}) <-chan Result[*ExecResult] {
	return async(func() (*ExecResult, error) { return b.Execute(opts, args...) })
}
