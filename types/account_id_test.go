// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountID_IsValid(t *testing.T) {
	valid := []string{"aa", "alice", "alice.near", "pool-1.factory", "a_b.c-d", "0o0ooo00oo00o", "10-4.8-2"}
	for _, s := range valid {
		assert.True(t, AccountID(s).IsValid(), s)
	}

	invalid := []string{"", "a", "Alice", "alice..near", ".alice", "alice.", "a--b", "a-", "-a", "a b", "a@b", strings.Repeat("a", 65)}
	for _, s := range invalid {
		assert.False(t, AccountID(s).IsValid(), s)
	}

	_, err := ParseAccountID("bad..id")
	assert.Error(t, err)
	id, err := ParseAccountID("good.id")
	assert.NoError(t, err)
	assert.Equal(t, "good.id", id.String())
}

func TestAccountID_IsSubAccountOf(t *testing.T) {
	assert.True(t, AccountID("pool.factory").IsSubAccountOf("factory"))
	assert.False(t, AccountID("a.pool.factory").IsSubAccountOf("factory"))
	assert.False(t, AccountID("factory").IsSubAccountOf("factory"))
	assert.False(t, AccountID("poolfactory").IsSubAccountOf("factory"))
}
