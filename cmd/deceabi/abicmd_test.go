// Copyright 2024 The go-dece Authors
// This file is part of go-dece.
//
// go-dece is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-dece is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-dece. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/dece-chain/go-dece/accounts/abi"
	"github.com/dece-chain/go-dece/common"
	"github.com/stretchr/testify/require"
)

func mustType(t *testing.T, s string) abi.Type {
	t.Helper()
	typ, err := abi.NewType(s)
	require.NoError(t, err)
	return typ
}

func TestParseArgument(t *testing.T) {
	addr := common.BytesToAddress(common.Hex2Bytes("1111111111111111111111111111111111111111111111111111111111111111"))
	var fixed [4]byte
	copy(fixed[:], []byte{0xde, 0xad, 0xbe, 0xef})

	tests := []struct {
		typ  string
		in   string
		want interface{}
	}{
		{"uint256", "1000000000000000000", big.NewInt(1000000000000000000)},
		{"uint256", "0xde0b6b3a7640000", big.NewInt(1000000000000000000)},
		{"uint64", "42", uint64(42)},
		{"uint8", "255", uint8(255)},
		{"int256", "-7", big.NewInt(-7)},
		{"int64", "-42", int64(-42)},
		{"int8", "-128", int8(-128)},
		{"bool", "true", true},
		{"string", "hello", "hello"},
		{"bytes", "0x010203", []byte{1, 2, 3}},
		{"bytes4", "0xdeadbeef", fixed},
		{"address", addr.String(), addr},
	}
	for _, test := range tests {
		got, err := parseArgument(mustType(t, test.typ), test.in)
		require.NoError(t, err, "type %s value %s", test.typ, test.in)
		require.Equal(t, test.want, got, "type %s value %s", test.typ, test.in)
	}
}

func TestParseArgumentErrors(t *testing.T) {
	tests := []struct {
		typ string
		in  string
	}{
		{"uint8", "256"},
		{"uint256", "-1"},
		{"uint256", "nonsense"},
		{"int8", "-129"},
		{"int8", "128"},
		{"bool", "maybe"},
		{"bytes4", "0xdeadbeefca"},
		{"bytes", "nonhex"},
		{"address", "not-base58!"},
		{"uint256[]", "1"},
		{"address[2]", "x"},
	}
	for _, test := range tests {
		_, err := parseArgument(mustType(t, test.typ), test.in)
		require.Error(t, err, "type %s value %s", test.typ, test.in)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deceabi.toml")
	content := "Endpoint = \"ws://10.0.0.1:8650\"\nScheme = 1\nABI = \"token.json\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := defaultConfig()
	require.NoError(t, loadConfigFile(path, &cfg))
	require.Equal(t, "ws://10.0.0.1:8650", cfg.Endpoint)
	require.Equal(t, uint(1), cfg.Scheme)
	require.Equal(t, "token.json", cfg.ABI)
	require.Equal(t, "", cfg.From)
}

func TestLoadConfigFileUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deceabi.toml")
	require.NoError(t, os.WriteFile(path, []byte("Bogus = 1\n"), 0644))

	cfg := defaultConfig()
	err := loadConfigFile(path, &cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Bogus")
}
