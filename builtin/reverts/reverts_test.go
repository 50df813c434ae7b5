// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/shardstake/contracts/types"
)

func Test_Reverts(t *testing.T) {
	revert := New(Unauthorized, "test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)
	assert.Equal(t, Unauthorized, revert.Code())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func Test_CodeOf(t *testing.T) {
	wrapped := pkgerrors.Wrap(Newf(InsufficientBalance, "need %d", 5), "withdraw")
	assert.Equal(t, InsufficientBalance, CodeOf(wrapped))
	assert.True(t, Is(wrapped, InsufficientBalance))
	assert.False(t, Is(wrapped, Unauthorized))
	assert.True(t, errors.Is(wrapped, New(InsufficientBalance, "")))

	assert.Equal(t, ArithmeticOverflow, CodeOf(types.ErrOverflow))
	assert.Equal(t, ArithmeticUnderflow, CodeOf(pkgerrors.Wrap(types.ErrUnderflow, "sub")))
	assert.Equal(t, Unknown, CodeOf(errors.New("io")))
	assert.False(t, Is(nil, Unknown))
}

func Test_Arithmetic(t *testing.T) {
	assert.NoError(t, Arithmetic(nil))
	assert.True(t, Is(Arithmetic(types.ErrOverflow), ArithmeticOverflow))
	assert.True(t, Is(Arithmetic(types.ErrUnderflow), ArithmeticUnderflow))
	assert.True(t, Is(Arithmetic(types.ErrDivideByZero), InvariantViolation))
	other := errors.New("disk")
	assert.Equal(t, other, Arithmetic(other))
	assert.Equal(t, "Unauthorized", Unauthorized.String())
	assert.Equal(t, "Code(99)", Code(99).String())
}

func Test_ParseCode(t *testing.T) {
	for c := Unknown; c <= NotFound; c++ {
		parsed, ok := ParseCode(c.String())
		assert.True(t, ok)
		assert.Equal(t, c, parsed)
	}
	_, ok := ParseCode("Reverted")
	assert.False(t, ok)
}
