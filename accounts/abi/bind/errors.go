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
	"errors"
	"fmt"
)

// ErrNotPayable is returned by transact operations when value is attached to
// a call of a method not marked payable.
var ErrNotPayable = errors.New("method is not payable")

// ArityError is returned when the number of supplied arguments does not match
// the method's input list.
type ArityError struct {
	Method string
	Want   int
	Got    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("abi: method %q takes %d arguments, got %d", e.Method, e.Want, e.Got)
}

// RevertError is returned when a contract rejects execution with a reason
// string. Raw keeps the complete revert payload, selector included.
type RevertError struct {
	Reason string
	Raw    []byte
}

func (e *RevertError) Error() string {
	return "execution reverted: " + e.Reason
}

// DecodeError is returned when contract output cannot be interpreted against
// the method's declared outputs.
type DecodeError struct {
	Raw []byte
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("abi: cannot decode output %#x: %v", e.Raw, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
