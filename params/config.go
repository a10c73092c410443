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

// Package params holds protocol-level constants of the Dece ledger.
package params

import "time"

// ABI calldata scheme versions. The version is fixed per contract when its
// binding is created and decides how address values travel in calldata.
const (
	// ABIVersionLegacy packs full 32-byte address payloads directly into
	// calldata words and prepends no routing prefix.
	ABIVersionLegacy uint = 1

	// ABIVersionShortAddr replaces address values with registry short
	// addresses and prepends the contract routing prefix to calldata.
	ABIVersionShortAddr uint = 2

	// DefaultABIVersion is the scheme used when no explicit version is given.
	DefaultABIVersion = ABIVersionShortAddr
)

// SaltLength is the length in bytes of the registry salt derived from a
// contract address. The salt is the leading slice of the Base58Check-decoded
// address string, so it covers the version byte and the first fifteen payload
// bytes.
const SaltLength = 16

// RoutingPrefixLength is the length in bytes of the calldata routing prefix,
// Keccak256(salt) truncated.
const RoutingPrefixLength = 4

// SelectorLength is the length in bytes of a function selector,
// Keccak256(canonical signature) truncated.
const SelectorLength = 4

// DefaultPollInterval is how often mined-transaction helpers query the node
// for a receipt.
const DefaultPollInterval = time.Second
