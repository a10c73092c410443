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
	"fmt"

	"github.com/dece-chain/go-dece"
	"github.com/dece-chain/go-dece/accounts/abi"
	"github.com/dece-chain/go-dece/common"
	"github.com/dece-chain/go-dece/params"
)

// BoundContract is the base wrapper object that reflects a contract on the
// ledger: one binding per method, all sharing the contract address, backend
// and calldata scheme version.
type BoundContract struct {
	abi     abi.ABI
	address common.Address
	backend ContractBackend
	version uint

	methods map[string]*MethodBinding // resolved method name -> binding
	bySig   map[string]*MethodBinding // canonical signature -> binding
}

// NewBoundContract creates a binding for every method of the parsed ABI,
// attached to the contract at address.
func NewBoundContract(address common.Address, parsed abi.ABI, backend ContractBackend, version uint) (*BoundContract, error) {
	c := &BoundContract{
		abi:     parsed,
		address: address,
		backend: backend,
		version: version,
		methods: make(map[string]*MethodBinding, len(parsed.Methods)),
		bySig:   make(map[string]*MethodBinding, len(parsed.Methods)),
	}
	for name, method := range parsed.Methods {
		binding, err := NewMethodBinding(method, address, backend, version)
		if err != nil {
			return nil, err
		}
		c.methods[name] = binding
		c.bySig[method.Sig] = binding
	}
	return c, nil
}

// Address returns the bound contract address.
func (c *BoundContract) Address() common.Address { return c.address }

// ABI returns the parsed contract interface.
func (c *BoundContract) ABI() abi.ABI { return c.abi }

// Version returns the calldata scheme version shared by all bindings.
func (c *BoundContract) Version() uint { return c.version }

// Method returns the binding of the named method. Overloaded siblings live
// under their suffixed names, the first declaration keeps the bare one.
func (c *BoundContract) Method(name string) (*MethodBinding, bool) {
	m, ok := c.methods[name]
	return m, ok
}

// MethodBySig returns the binding carrying the given canonical signature,
// e.g. "transfer(address,uint256)".
func (c *BoundContract) MethodBySig(sig string) (*MethodBinding, bool) {
	m, ok := c.bySig[sig]
	return m, ok
}

// Call invokes the named read only method.
func (c *BoundContract) Call(opts *CallOpts, name string, args ...interface{}) ([]interface{}, error) {
	m, ok := c.methods[name]
	if !ok {
		return nil, fmt.Errorf("bind: no method %q on contract", name)
	}
	return m.Call(opts, args...)
}

// Transact invokes the named state changing method.
func (c *BoundContract) Transact(opts *TransactOpts, name string, args ...interface{}) (common.Hash, error) {
	m, ok := c.methods[name]
	if !ok {
		return common.Hash{}, fmt.Errorf("bind: no method %q on contract", name)
	}
	return m.Transact(opts, args...)
}

// Execute routes the named method by its mutability.
func (c *BoundContract) Execute(opts *TransactOpts, name string, args ...interface{}) (*ExecResult, error) {
	m, ok := c.methods[name]
	if !ok {
		return nil, fmt.Errorf("bind: no method %q on contract", name)
	}
	return m.Execute(opts, args...)
}

// DeployContract deploys a contract onto the ledger and returns the creation
// transaction hash. Constructor arguments always pack in the legacy full
// address form: the contract address, and with it the registry salt, does not
// exist before the deployment is mined. The version only pins the scheme the
// deployed contract will be bound with, rejecting unsupported ones early.
func DeployContract(opts *TransactOpts, parsed abi.ABI, bytecode []byte, backend ContractBackend, version uint, args ...interface{}) (common.Hash, error) {
	if opts == nil {
		opts = new(TransactOpts)
	}
	if version != params.ABIVersionLegacy && version != params.ABIVersionShortAddr {
		return common.Hash{}, fmt.Errorf("bind: unknown abi version %d", version)
	}
	if want := len(parsed.Constructor.Inputs); len(args) != want {
		return common.Hash{}, &ArityError{Method: "constructor", Want: want, Got: len(args)}
	}
	if opts.Value != nil && opts.Value.Sign() != 0 && !parsed.Constructor.IsPayable() {
		return common.Hash{}, fmt.Errorf("%w: constructor", ErrNotPayable)
	}
	packed, err := parsed.Pack("", args...)
	if err != nil {
		return common.Hash{}, err
	}
	msg := dece.CallMsg{
		From:     opts.From,
		Gas:      opts.GasLimit,
		GasPrice: opts.GasPrice,
		Value:    opts.Value,
		Data:     append(common.CopyBytes(bytecode), packed...),
		Dy:       opts.Dy,
		Extra:    opts.Extra,
	}
	return backend.SendTransaction(ensureContext(opts.Context), msg)
}
