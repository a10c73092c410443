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
	"math/big"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/dece-chain/go-dece/common"
	"github.com/stretchr/testify/require"
)

// typeWithoutStringer is a helper to print the type of a Type without
// invoking its Stringer, so mismatches show the internals.
type typeWithoutStringer Type

// TestTypeRegexp tests that type parsing stays in sync with the grammar.
func TestTypeRegexp(t *testing.T) {
	tests := []struct {
		blob string
		kind Type
	}{
		{"bool", Type{T: BoolTy, stringKind: "bool"}},
		{"bool[]", Type{T: SliceTy, Elem: &Type{T: BoolTy, stringKind: "bool"}, stringKind: "bool[]"}},
		{"bool[2]", Type{Size: 2, T: ArrayTy, Elem: &Type{T: BoolTy, stringKind: "bool"}, stringKind: "bool[2]"}},
		{"bool[2][]", Type{T: SliceTy, Elem: &Type{T: ArrayTy, Size: 2, Elem: &Type{T: BoolTy, stringKind: "bool"}, stringKind: "bool[2]"}, stringKind: "bool[2][]"}},
		{"bool[][]", Type{T: SliceTy, Elem: &Type{T: SliceTy, Elem: &Type{T: BoolTy, stringKind: "bool"}, stringKind: "bool[]"}, stringKind: "bool[][]"}},
		{"bool[][2]", Type{T: ArrayTy, Size: 2, Elem: &Type{T: SliceTy, Elem: &Type{T: BoolTy, stringKind: "bool"}, stringKind: "bool[]"}, stringKind: "bool[][2]"}},
		{"int8", Type{Size: 8, T: IntTy, stringKind: "int8"}},
		{"int16", Type{Size: 16, T: IntTy, stringKind: "int16"}},
		{"int64", Type{Size: 64, T: IntTy, stringKind: "int64"}},
		{"int256", Type{Size: 256, T: IntTy, stringKind: "int256"}},
		{"int8[]", Type{T: SliceTy, Elem: &Type{Size: 8, T: IntTy, stringKind: "int8"}, stringKind: "int8[]"}},
		{"int256[2]", Type{T: ArrayTy, Size: 2, Elem: &Type{Size: 256, T: IntTy, stringKind: "int256"}, stringKind: "int256[2]"}},
		{"uint8", Type{Size: 8, T: UintTy, stringKind: "uint8"}},
		{"uint32", Type{Size: 32, T: UintTy, stringKind: "uint32"}},
		{"uint256", Type{Size: 256, T: UintTy, stringKind: "uint256"}},
		{"uint256[]", Type{T: SliceTy, Elem: &Type{Size: 256, T: UintTy, stringKind: "uint256"}, stringKind: "uint256[]"}},
		{"bytes", Type{T: BytesTy, stringKind: "bytes"}},
		{"bytes32", Type{T: FixedBytesTy, Size: 32, stringKind: "bytes32"}},
		{"bytes4", Type{T: FixedBytesTy, Size: 4, stringKind: "bytes4"}},
		{"string", Type{T: StringTy, stringKind: "string"}},
		{"string[]", Type{T: SliceTy, Elem: &Type{T: StringTy, stringKind: "string"}, stringKind: "string[]"}},
		{"address", Type{Size: common.AddressLength, T: AddressTy, stringKind: "address"}},
		{"address[]", Type{T: SliceTy, Elem: &Type{Size: common.AddressLength, T: AddressTy, stringKind: "address"}, stringKind: "address[]"}},
		{"address[2]", Type{T: ArrayTy, Size: 2, Elem: &Type{Size: common.AddressLength, T: AddressTy, stringKind: "address"}, stringKind: "address[2]"}},
	}

	for _, tt := range tests {
		typ, err := NewType(tt.blob)
		if err != nil {
			t.Errorf("type %q: failed to parse type string: %v", tt.blob, err)
			continue
		}
		if !reflect.DeepEqual(typ, tt.kind) {
			t.Errorf("type %q: parsed type mismatch:\nGOT %s\nWANT %s ", tt.blob, spew.Sdump(typeWithoutStringer(typ)), spew.Sdump(typeWithoutStringer(tt.kind)))
		}
	}
}

func TestNewTypeErrors(t *testing.T) {
	for _, blob := range []string{
		"",
		"uint",
		"int",
		"uint0",
		"uint9",
		"uint257",
		"int300",
		"bytes33",
		"tuple",
		"foobar",
		"bool[",
		"bool[2",
		"bool]",
	} {
		if _, err := NewType(blob); err == nil {
			t.Errorf("type %q: expected parse error", blob)
		}
	}
}

func TestTypeGetType(t *testing.T) {
	tests := []struct {
		blob string
		want reflect.Type
	}{
		{"bool", reflect.TypeOf(false)},
		{"uint8", reflect.TypeOf(uint8(0))},
		{"uint64", reflect.TypeOf(uint64(0))},
		{"uint256", reflect.TypeOf(&big.Int{})},
		{"int24", reflect.TypeOf(&big.Int{})},
		{"string", reflect.TypeOf("")},
		{"bytes", reflect.TypeOf([]byte{})},
		{"bytes4", reflect.TypeOf([4]byte{})},
		{"address", reflect.TypeOf(common.Address{})},
		{"uint256[]", reflect.TypeOf([]*big.Int{})},
		{"address[2]", reflect.TypeOf([2]common.Address{})},
	}
	for _, tt := range tests {
		typ, err := NewType(tt.blob)
		require.NoError(t, err, tt.blob)
		require.Equal(t, tt.want, typ.GetType(), tt.blob)
	}
}

func TestTypeSize(t *testing.T) {
	tests := []struct {
		blob string
		size int
	}{
		{"uint256", 32},
		{"bool", 32},
		{"address", 32},
		{"bytes", 32},
		{"string", 32},
		{"uint256[]", 32},
		{"uint256[2]", 64},
		{"uint256[2][3]", 192},
		{"string[2]", 32}, // dynamic elements keep arrays behind a pointer
	}
	for _, tt := range tests {
		typ, err := NewType(tt.blob)
		require.NoError(t, err, tt.blob)
		require.Equal(t, tt.size, getTypeSize(typ), tt.blob)
	}
}

func TestIsDynamicType(t *testing.T) {
	for blob, want := range map[string]bool{
		"uint256":      false,
		"address":      false,
		"bytes32":      false,
		"bytes":        true,
		"string":       true,
		"uint256[]":    true,
		"uint256[2]":   false,
		"string[2]":    true,
		"uint256[2][]": true,
	} {
		typ, err := NewType(blob)
		require.NoError(t, err, blob)
		require.Equal(t, want, isDynamicType(typ), blob)
	}
}
