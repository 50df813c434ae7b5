// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"

	"github.com/shardstake/contracts/types"
)

// Code classifies why a contract call reverted.
type Code uint8

const (
	Unknown Code = iota
	Unauthorized
	NotInitialized
	AlreadyInitialized
	InvalidArgument
	InsufficientBalance
	TooManyActiveRequests
	AlreadyConfirmed
	RequestNotFound
	CooldownNotElapsed
	InvariantViolation
	ArithmeticOverflow
	ArithmeticUnderflow
	NotFound
)

var codeNames = map[Code]string{
	Unknown:               "Unknown",
	Unauthorized:          "Unauthorized",
	NotInitialized:        "NotInitialized",
	AlreadyInitialized:    "AlreadyInitialized",
	InvalidArgument:       "InvalidArgument",
	InsufficientBalance:   "InsufficientBalance",
	TooManyActiveRequests: "TooManyActiveRequests",
	AlreadyConfirmed:      "AlreadyConfirmed",
	RequestNotFound:       "RequestNotFound",
	CooldownNotElapsed:    "CooldownNotElapsed",
	InvariantViolation:    "InvariantViolation",
	ArithmeticOverflow:    "ArithmeticOverflow",
	ArithmeticUnderflow:   "ArithmeticUnderflow",
	NotFound:              "NotFound",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", uint8(c))
}

// ParseCode returns the code with the given name.
func ParseCode(name string) (Code, bool) {
	for c, n := range codeNames {
		if n == name {
			return c, true
		}
	}
	return Unknown, false
}

// ErrRevert is a failed precondition of a contract call.
// A call returning it commits nothing.
type ErrRevert struct {
	code    Code
	message string
}

func New(code Code, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: message,
	}
}

func Newf(code Code, format string, args ...any) *ErrRevert {
	return New(code, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Code() Code {
	return e.code
}

// Is matches another revert with the same code, so errors.Is(err, reverts.New(code, "")) works.
func (e *ErrRevert) Is(target error) bool {
	var other *ErrRevert
	if !errors.As(target, &other) {
		return false
	}
	return other.code == e.code
}

// Arithmetic converts a checked-arithmetic failure into a revert, passing other errors through.
func Arithmetic(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrOverflow):
		return New(ArithmeticOverflow, err.Error())
	case errors.Is(err, types.ErrUnderflow):
		return New(ArithmeticUnderflow, err.Error())
	case errors.Is(err, types.ErrDivideByZero):
		return New(InvariantViolation, err.Error())
	default:
		return err
	}
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	if errors.As(e, &ve) {
		return ve != nil
	}
	return errors.Is(e, types.ErrOverflow) || errors.Is(e, types.ErrUnderflow)
}

// CodeOf returns the revert code carried by err, or Unknown.
func CodeOf(err error) Code {
	var ve *ErrRevert
	if errors.As(err, &ve) && ve != nil {
		return ve.code
	}
	switch {
	case errors.Is(err, types.ErrOverflow):
		return ArithmeticOverflow
	case errors.Is(err, types.ErrUnderflow):
		return ArithmeticUnderflow
	}
	return Unknown
}

// Is reports whether err is a revert with the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
