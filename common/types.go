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

package common

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/dece-chain/go-dece/common/hexutil"
)

// Lengths of hashes and addresses in bytes.
const (
	// HashLength is the expected length of the hash.
	HashLength = 32
	// AddressLength is the expected length of the full address payload.
	AddressLength = 32
	// ShortAddressLength is the expected length of a registry short address.
	ShortAddressLength = 20
)

// AddressVersion is the Base58Check version byte of rendered account addresses.
// The decoded form of an address string is the version byte, the 32-byte
// payload and a 4-byte checksum.
const AddressVersion byte = 23

var (
	hashT      = reflect.TypeOf(Hash{})
	shortAddrT = reflect.TypeOf(ShortAddress{})
)

// Hash represents the 32 byte Keccak256 hash of arbitrary data.
type Hash [HashLength]byte

// BytesToHash sets b to hash.
// If b is larger than len(h), b will be cropped from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash sets byte representation of s to hash.
// If b is larger than len(h), b will be cropped from the left.
func HexToHash(s string) Hash { return BytesToHash(FromHex(s)) }

// Bytes gets the byte representation of the underlying hash.
func (h Hash) Bytes() []byte { return h[:] }

// Big converts a hash to a big integer.
func (h Hash) Big() *big.Int { return new(big.Int).SetBytes(h[:]) }

// Hex converts a hash to a hex string.
func (h Hash) Hex() string { return hexutil.Encode(h[:]) }

// String implements the stringer interface and is used also by the logger when
// doing full logging into a file.
func (h Hash) String() string {
	return h.Hex()
}

// SetBytes sets the hash to the value of b.
// If b is larger than len(h), b will be cropped from the left.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// MarshalText returns the hex representation of h.
func (h Hash) MarshalText() ([]byte, error) {
	return hexutil.Bytes(h[:]).MarshalText()
}

// UnmarshalText parses a hash in hex syntax.
func (h *Hash) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Hash", input, h[:])
}

// UnmarshalJSON parses a hash in hex syntax.
func (h *Hash) UnmarshalJSON(input []byte) error {
	return hexutil.UnmarshalFixedJSON(hashT, input, h[:])
}

// Address represents the full 32 byte payload of a Dece account.
//
// Addresses render externally in Base58Check form. Because the decoded form
// (version byte, payload and checksum) is longer than a calldata word, full
// addresses never travel inside ABI-encoded data; the registry short form
// stands in for them there.
type Address [AddressLength]byte

// BytesToAddress returns Address with value b.
// If b is larger than len(a), b will be cropped from the left.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// Base58ToAddress decodes a Base58Check address string. It verifies the
// checksum, the version byte and the payload length.
func Base58ToAddress(s string) (Address, error) {
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address encoding: %v", err)
	}
	if version != AddressVersion {
		return Address{}, fmt.Errorf("invalid address version %d (want %d)", version, AddressVersion)
	}
	if len(payload) != AddressLength {
		return Address{}, fmt.Errorf("invalid address length %d (want %d)", len(payload), AddressLength)
	}
	return BytesToAddress(payload), nil
}

// Bytes gets the byte representation of the underlying address.
func (a Address) Bytes() []byte { return a[:] }

// Base58 returns the Base58Check string representation of the address.
func (a Address) Base58() string {
	return base58.CheckEncode(a[:], AddressVersion)
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Base58()
}

// SetBytes sets the address to the value of b.
// If b is larger than len(a), b will be cropped from the left.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// MarshalText returns the Base58Check representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Base58()), nil
}

// UnmarshalText parses an address in Base58Check syntax.
func (a *Address) UnmarshalText(input []byte) error {
	addr, err := Base58ToAddress(string(input))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ShortAddress is the 20 byte placeholder the node registry hands out for a
// full address within a contract's address space. Short addresses are what
// ABI-encoded calldata and return data carry in address slots.
type ShortAddress [ShortAddressLength]byte

// BytesToShortAddress returns ShortAddress with value b.
// If b is larger than len(a), b will be cropped from the left.
func BytesToShortAddress(b []byte) ShortAddress {
	var a ShortAddress
	a.SetBytes(b)
	return a
}

// HexToShortAddress returns ShortAddress with byte values of s.
// If s is larger than len(a), s will be cropped from the left.
func HexToShortAddress(s string) ShortAddress { return BytesToShortAddress(FromHex(s)) }

// Bytes gets the byte representation of the underlying short address.
func (a ShortAddress) Bytes() []byte { return a[:] }

// Hex returns a 0x-prefixed hexadecimal representation of the short address.
func (a ShortAddress) Hex() string { return hexutil.Encode(a[:]) }

// String implements fmt.Stringer.
func (a ShortAddress) String() string { return a.Hex() }

// SetBytes sets the short address to the value of b.
// If b is larger than len(a), b will be cropped from the left.
func (a *ShortAddress) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-ShortAddressLength:]
	}
	copy(a[ShortAddressLength-len(b):], b)
}

// MarshalText returns the hex representation of a.
func (a ShortAddress) MarshalText() ([]byte, error) {
	return hexutil.Bytes(a[:]).MarshalText()
}

// UnmarshalText parses a short address in hex syntax.
func (a *ShortAddress) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("ShortAddress", input, a[:])
}

// UnmarshalJSON parses a short address in hex syntax.
func (a *ShortAddress) UnmarshalJSON(input []byte) error {
	return hexutil.UnmarshalFixedJSON(shortAddrT, input, a[:])
}
