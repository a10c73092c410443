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
	"testing"

	"github.com/dece-chain/go-dece/common"
	"github.com/dece-chain/go-dece/params"
	"github.com/stretchr/testify/require"
)

func TestSalt(t *testing.T) {
	var addr common.Address
	for i := range addr {
		addr[i] = byte(i + 1)
	}
	salt := Salt(addr)
	require.Len(t, salt, params.SaltLength)

	want := []byte{common.AddressVersion}
	want = append(want, addr[:params.SaltLength-1]...)
	require.Equal(t, want, salt)
}

func TestRoutingPrefix(t *testing.T) {
	var addrA, addrB common.Address
	addrA[0] = 1
	addrB[0] = 2

	prefixA := RoutingPrefix(Salt(addrA))
	require.Len(t, prefixA, params.RoutingPrefixLength)
	require.Equal(t, prefixA, RoutingPrefix(Salt(addrA)))
	require.NotEqual(t, prefixA, RoutingPrefix(Salt(addrB)))
}

func TestCollectAddresses(t *testing.T) {
	addrA := common.BytesToAddress(common.Hex2Bytes("1111111111111111111111111111111111111111111111111111111111111111"))
	addrB := common.BytesToAddress(common.Hex2Bytes("2222222222222222222222222222222222222222222222222222222222222222"))

	args := Arguments{
		{Type: mustNewType(t, "uint256")},
		{Type: mustNewType(t, "address")},
		{Type: mustNewType(t, "address[]")},
		{Type: mustNewType(t, "address")},
	}
	addrs, err := args.CollectAddresses(big.NewInt(1), addrA, []common.Address{addrB, addrA}, addrB)
	require.NoError(t, err)
	require.Equal(t, []common.Address{addrA, addrB}, addrs)

	// values already shortened carry nothing to collect
	short := common.BytesToShortAddress(common.Hex2Bytes("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	addrs, err = (Arguments{{Type: mustNewType(t, "address")}}).CollectAddresses(short)
	require.NoError(t, err)
	require.Empty(t, addrs)

	// arity and kind mismatches
	_, err = args.CollectAddresses(big.NewInt(1))
	require.Error(t, err)
	_, err = (Arguments{{Type: mustNewType(t, "address")}}).CollectAddresses("nope")
	require.Error(t, err)
}

func TestShortenAddresses(t *testing.T) {
	addrA := common.BytesToAddress(common.Hex2Bytes("1111111111111111111111111111111111111111111111111111111111111111"))
	addrB := common.BytesToAddress(common.Hex2Bytes("2222222222222222222222222222222222222222222222222222222222222222"))
	shortA := common.BytesToShortAddress(common.Hex2Bytes("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	shortB := common.BytesToShortAddress(common.Hex2Bytes("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"))
	shorts := map[common.Address]common.ShortAddress{addrA: shortA, addrB: shortB}

	args := Arguments{
		{Type: mustNewType(t, "address")},
		{Type: mustNewType(t, "uint256")},
		{Type: mustNewType(t, "address[]")},
		{Type: mustNewType(t, "address[2]")},
	}
	out, err := args.ShortenAddresses(shorts,
		addrA,
		big.NewInt(7),
		[]common.Address{addrB},
		[2]common.Address{addrA, addrB},
	)
	require.NoError(t, err)
	require.Equal(t, shortA, out[0])
	require.Equal(t, big.NewInt(7), out[1])
	require.Equal(t, []common.ShortAddress{shortB}, out[2])
	require.Equal(t, [2]common.ShortAddress{shortA, shortB}, out[3])

	// shortened values must still pack
	_, err = args.Pack(out...)
	require.NoError(t, err)

	// short address values pass through untouched
	out, err = (Arguments{{Type: mustNewType(t, "address")}}).ShortenAddresses(nil, shortA)
	require.NoError(t, err)
	require.Equal(t, shortA, out[0])

	// unknown address fails
	_, err = (Arguments{{Type: mustNewType(t, "address")}}).ShortenAddresses(nil, addrA)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no short address")
}

func TestExtractShortAddresses(t *testing.T) {
	wordA := "000000000000000000000000aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	wordB := "000000000000000000000000bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	zero := "0000000000000000000000000000000000000000000000000000000000000000"
	shortA := common.BytesToShortAddress(common.Hex2Bytes("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	shortB := common.BytesToShortAddress(common.Hex2Bytes("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"))

	args := Arguments{
		{Type: mustNewType(t, "address")},
		{Type: mustNewType(t, "address")},
		{Type: mustNewType(t, "address")},
		{Type: mustNewType(t, "address")},
	}
	shorts, err := args.ExtractShortAddresses(common.Hex2Bytes(wordA + zero + wordB + wordA))
	require.NoError(t, err)
	require.Equal(t, []common.ShortAddress{shortA, shortB}, shorts)

	// shorts inside dynamic values are found too
	args = Arguments{{Type: mustNewType(t, "address[]")}}
	data := common.Hex2Bytes(
		"0000000000000000000000000000000000000000000000000000000000000020" +
			"0000000000000000000000000000000000000000000000000000000000000002" +
			wordA + wordB)
	shorts, err = args.ExtractShortAddresses(data)
	require.NoError(t, err)
	require.Equal(t, []common.ShortAddress{shortA, shortB}, shorts)

	// nonzero padding marks a word that cannot be a short address
	args = Arguments{{Type: mustNewType(t, "address")}}
	_, err = args.ExtractShortAddresses(common.Hex2Bytes("010000000000000000000000aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	require.ErrorIs(t, err, errShortAddrPadding)

	// no data, no shorts
	shorts, err = args.ExtractShortAddresses(nil)
	require.NoError(t, err)
	require.Empty(t, shorts)
}

func TestUnpackWithDirectory(t *testing.T) {
	fullA := common.BytesToAddress(common.Hex2Bytes("1111111111111111111111111111111111111111111111111111111111111111"))
	shortA := common.BytesToShortAddress(common.Hex2Bytes("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	dir := AddressDirectory{shortA: fullA}

	args := Arguments{
		{Type: mustNewType(t, "address")},
		{Type: mustNewType(t, "uint256")},
	}
	data := common.Hex2Bytes(
		"000000000000000000000000aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" +
			"0000000000000000000000000000000000000000000000000000000000000007")
	values, err := args.UnpackWithDirectory(data, dir)
	require.NoError(t, err)
	require.Equal(t, fullA, values[0])
	require.Equal(t, big.NewInt(7), values[1])

	// the zero short decodes to the zero address
	values, err = (Arguments{{Type: mustNewType(t, "address")}}).UnpackWithDirectory(make([]byte, 32), dir)
	require.NoError(t, err)
	require.Equal(t, common.Address{}, values[0])

	// unknown shorts fail
	_, err = (Arguments{{Type: mustNewType(t, "address")}}).UnpackWithDirectory(
		common.Hex2Bytes("000000000000000000000000bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"), dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing from directory")
}

// TestShortAddressFullCircle rewrites arguments into their short form, packs
// them, and recovers the full values through extraction and the directory.
func TestShortAddressFullCircle(t *testing.T) {
	addrA := common.BytesToAddress(common.Hex2Bytes("1111111111111111111111111111111111111111111111111111111111111111"))
	shortA := common.BytesToShortAddress(common.Hex2Bytes("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))

	args := Arguments{
		{Type: mustNewType(t, "address")},
		{Type: mustNewType(t, "uint256")},
	}
	collected, err := args.CollectAddresses(addrA, big.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, []common.Address{addrA}, collected)

	shortened, err := args.ShortenAddresses(map[common.Address]common.ShortAddress{addrA: shortA}, addrA, big.NewInt(3))
	require.NoError(t, err)
	packed, err := args.Pack(shortened...)
	require.NoError(t, err)

	extracted, err := args.ExtractShortAddresses(packed)
	require.NoError(t, err)
	require.Equal(t, []common.ShortAddress{shortA}, extracted)

	values, err := args.UnpackWithDirectory(packed, AddressDirectory{shortA: addrA})
	require.NoError(t, err)
	require.Equal(t, []interface{}{addrA, big.NewInt(3)}, values)
}
