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

package crypto

import (
	"bytes"
	"testing"

	"github.com/dece-chain/go-dece/common"
)

func TestKeccak256EmptyInput(t *testing.T) {
	// Standard Keccak-256 test vector for the empty input.
	want := common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
	if got := Keccak256Hash(nil); got != want {
		t.Errorf("empty hash mismatch: got %s want %s", got, want)
	}
	if got := Keccak256Hash(); got != want {
		t.Errorf("no-argument hash mismatch: got %s", got)
	}
}

func TestKeccak256KnownVector(t *testing.T) {
	want := common.FromHex("0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45")
	if got := Keccak256([]byte("abc")); !bytes.Equal(got, want) {
		t.Errorf("hash mismatch: got %x want %x", got, want)
	}
}

func TestKeccak256MultiplePieces(t *testing.T) {
	// Hashing split input must equal hashing the concatenation.
	whole := Keccak256([]byte("hello world"))
	split := Keccak256([]byte("hello "), []byte("world"))
	if !bytes.Equal(whole, split) {
		t.Errorf("split input hash mismatch: %x != %x", split, whole)
	}
}

func TestKeccakStateReadMatchesSum(t *testing.T) {
	input := []byte("dece")

	d := NewKeccakState()
	d.Write(input)
	sum := d.Sum(nil)

	if got := Keccak256(input); !bytes.Equal(got, sum) {
		t.Errorf("Read-based hash %x differs from Sum-based hash %x", got, sum)
	}
}
