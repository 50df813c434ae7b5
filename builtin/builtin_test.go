// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	for _, code := range Codes() {
		c, ok := Lookup(code)
		assert.True(t, ok, code)
		assert.Equal(t, code, c.Code())
		_, ok = c.Method("new")
		assert.True(t, ok, "%s has no initializer", code)
	}

	_, ok := Lookup("evm")
	assert.False(t, ok)

	assert.Equal(t, []string{
		"multisig",
		"staking_pool",
		"staking_pool_factory",
		"staking_pool_whitelist",
		"voting",
	}, Codes())
}
