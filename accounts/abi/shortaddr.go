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

package abi

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/dece-chain/go-dece/common"
	"github.com/dece-chain/go-dece/crypto"
	"github.com/dece-chain/go-dece/params"
)

// AddressDirectory maps registry short addresses back to their full form.
type AddressDirectory map[common.ShortAddress]common.Address

var errShortAddrPadding = errors.New("abi: short address word has nonzero padding")

// Salt returns the registry salt of a contract: the leading bytes of its
// decoded Base58Check string form, version byte included.
func Salt(contract common.Address) []byte {
	salt := make([]byte, params.SaltLength)
	salt[0] = common.AddressVersion
	copy(salt[1:], contract[:params.SaltLength-1])
	return salt
}

// RoutingPrefix derives the calldata routing prefix bound to a registry salt.
func RoutingPrefix(salt []byte) []byte {
	return crypto.Keccak256(salt)[:params.RoutingPrefixLength]
}

// shortAddressWord reads an address word carrying a left padded short address.
func shortAddressWord(word []byte) (common.ShortAddress, error) {
	for _, b := range word[:common.HashLength-common.ShortAddressLength] {
		if b != 0 {
			return common.ShortAddress{}, errShortAddrPadding
		}
	}
	return common.BytesToShortAddress(word[common.HashLength-common.ShortAddressLength:]), nil
}

// containsAddress reports whether the type holds an address anywhere.
func containsAddress(t Type) bool {
	switch t.T {
	case AddressTy:
		return true
	case SliceTy, ArrayTy:
		return containsAddress(*t.Elem)
	}
	return false
}

// shortenedType returns the reflection type of t after address shortening,
// with short addresses in every address position.
func shortenedType(t Type) reflect.Type {
	switch t.T {
	case AddressTy:
		return reflect.TypeOf(common.ShortAddress{})
	case SliceTy:
		return reflect.SliceOf(shortenedType(*t.Elem))
	case ArrayTy:
		return reflect.ArrayOf(t.Size, shortenedType(*t.Elem))
	default:
		return t.GetType()
	}
}

// CollectAddresses walks the given argument values and returns every distinct
// full address in order of first appearance. Values already given as short
// addresses are left alone.
func (arguments Arguments) CollectAddresses(args ...interface{}) ([]common.Address, error) {
	if len(args) != len(arguments) {
		return nil, fmt.Errorf("argument count mismatch: got %d for %d", len(args), len(arguments))
	}
	var (
		addrs []common.Address
		seen  = make(map[common.Address]bool)
	)
	for i, arg := range arguments {
		if err := collectAddressValues(arg.Type, reflect.ValueOf(args[i]), &addrs, seen); err != nil {
			return nil, err
		}
	}
	return addrs, nil
}

func collectAddressValues(t Type, v reflect.Value, addrs *[]common.Address, seen map[common.Address]bool) error {
	if !containsAddress(t) {
		return nil
	}
	v = indirect(v)
	switch t.T {
	case AddressTy:
		switch val := v.Interface().(type) {
		case common.Address:
			if !seen[val] {
				seen[val] = true
				*addrs = append(*addrs, val)
			}
		case common.ShortAddress:
		default:
			return fmt.Errorf("abi: cannot use %T as address argument", v.Interface())
		}
	case SliceTy, ArrayTy:
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return typeErr(t.GetType().Kind(), v.Kind())
		}
		for i := 0; i < v.Len(); i++ {
			if err := collectAddressValues(*t.Elem, v.Index(i), addrs, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

// ShortenAddresses rewrites the given argument values, replacing every full
// address with its registry short form. The shorts map must cover every full
// address the values contain.
func (arguments Arguments) ShortenAddresses(shorts map[common.Address]common.ShortAddress, args ...interface{}) ([]interface{}, error) {
	if len(args) != len(arguments) {
		return nil, fmt.Errorf("argument count mismatch: got %d for %d", len(args), len(arguments))
	}
	out := make([]interface{}, len(args))
	for i, arg := range arguments {
		if !containsAddress(arg.Type) {
			out[i] = args[i]
			continue
		}
		v, err := shortenValue(arg.Type, reflect.ValueOf(args[i]), shorts)
		if err != nil {
			return nil, err
		}
		out[i] = v.Interface()
	}
	return out, nil
}

func shortenValue(t Type, v reflect.Value, shorts map[common.Address]common.ShortAddress) (reflect.Value, error) {
	v = indirect(v)
	switch t.T {
	case AddressTy:
		switch val := v.Interface().(type) {
		case common.ShortAddress:
			return v, nil
		case common.Address:
			short, ok := shorts[val]
			if !ok {
				return reflect.Value{}, fmt.Errorf("abi: no short address known for %s", val)
			}
			return reflect.ValueOf(short), nil
		default:
			return reflect.Value{}, fmt.Errorf("abi: cannot use %T as address argument", v.Interface())
		}
	case SliceTy:
		if v.Kind() != reflect.Slice {
			return reflect.Value{}, typeErr(reflect.Slice, v.Kind())
		}
		ret := reflect.MakeSlice(reflect.SliceOf(shortenedType(*t.Elem)), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := shortenValue(*t.Elem, v.Index(i), shorts)
			if err != nil {
				return reflect.Value{}, err
			}
			ret.Index(i).Set(elem)
		}
		return ret, nil
	case ArrayTy:
		if v.Kind() != reflect.Array || v.Len() != t.Size {
			return reflect.Value{}, typeErr(reflect.Array, v.Kind())
		}
		ret := reflect.New(reflect.ArrayOf(t.Size, shortenedType(*t.Elem))).Elem()
		for i := 0; i < v.Len(); i++ {
			elem, err := shortenValue(*t.Elem, v.Index(i), shorts)
			if err != nil {
				return reflect.Value{}, err
			}
			ret.Index(i).Set(elem)
		}
		return ret, nil
	}
	return v, nil
}

// ExtractShortAddresses scans encoded output and returns every distinct
// nonzero short address it carries, in order of appearance.
func (arguments Arguments) ExtractShortAddresses(data []byte) ([]common.ShortAddress, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var (
		shorts []common.ShortAddress
		seen   = make(map[common.ShortAddress]bool)
	)
	collect := func(word []byte) (common.Address, error) {
		short, err := shortAddressWord(word)
		if err != nil {
			return common.Address{}, err
		}
		if short != (common.ShortAddress{}) && !seen[short] {
			seen[short] = true
			shorts = append(shorts, short)
		}
		return common.Address{}, nil
	}
	if _, err := arguments.unpackValues(data, collect); err != nil {
		return nil, err
	}
	return shorts, nil
}

// UnpackWithDirectory performs the operation hexdata -> Go format for output
// whose address words carry registry short addresses. Nonzero shorts resolve
// through dir, the zero short decodes to the zero address.
func (arguments Arguments) UnpackWithDirectory(data []byte, dir AddressDirectory) ([]interface{}, error) {
	if len(data) == 0 {
		if len(arguments.NonIndexed()) != 0 {
			return nil, errors.New("abi: attempting to unmarshal an empty string while arguments are expected")
		}
		return make([]interface{}, 0), nil
	}
	resolve := func(word []byte) (common.Address, error) {
		short, err := shortAddressWord(word)
		if err != nil {
			return common.Address{}, err
		}
		if short == (common.ShortAddress{}) {
			return common.Address{}, nil
		}
		full, ok := dir[short]
		if !ok {
			return common.Address{}, fmt.Errorf("abi: short address %s missing from directory", short)
		}
		return full, nil
	}
	return arguments.unpackValues(data, resolve)
}
