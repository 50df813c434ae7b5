// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package whitelist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/builtin/whitelist"
	"github.com/shardstake/contracts/host"
	"github.com/shardstake/contracts/lvldb"
	"github.com/shardstake/contracts/test/datagen"
	"github.com/shardstake/contracts/types"
)

type testWhitelist struct {
	t    *testing.T
	h    *host.Host
	keys map[types.AccountID]types.PublicKey
}

func newTestWhitelist(t *testing.T) *testWhitelist {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h, err := host.New(db, host.DefaultOptions())
	require.NoError(t, err)

	tw := &testWhitelist{t: t, h: h, keys: make(map[types.AccountID]types.PublicKey)}
	accounts := []host.GenesisAccount{{ID: "wl", Code: whitelist.Code}}
	for _, id := range []types.AccountID{"foundation", "factory", "alice"} {
		tw.keys[id] = datagen.RandPublicKey()
		accounts = append(accounts, host.GenesisAccount{ID: id, Keys: []types.PublicKey{tw.keys[id]}})
	}
	require.NoError(t, h.Genesis(accounts...))
	return tw
}

func (tw *testWhitelist) call(caller types.AccountID, method string, args any) (string, error) {
	out, err := tw.h.Call(caller, tw.keys[caller], "wl", method, args, types.ZeroBalance)
	require.NoError(tw.t, err)
	return string(out.Value()), out.Failure()
}

func (tw *testWhitelist) pool(caller types.AccountID, method string, pool types.AccountID) (string, error) {
	return tw.call(caller, method, map[string]any{"staking_pool_account_id": pool})
}

func (tw *testWhitelist) factory(caller types.AccountID, method string, factory types.AccountID) (string, error) {
	return tw.call(caller, method, map[string]any{"factory_account_id": factory})
}

func (tw *testWhitelist) view(method string, args map[string]any) string {
	data, err := tw.h.View("wl", method, args)
	require.NoError(tw.t, err)
	return string(data)
}

func TestInit(t *testing.T) {
	tw := newTestWhitelist(t)

	_, err := tw.call("alice", "new", map[string]any{"foundation_account_id": "Foundation"})
	assert.True(t, reverts.Is(err, reverts.InvalidArgument))

	_, err = tw.pool("foundation", "add_staking_pool", "pool")
	assert.True(t, reverts.Is(err, reverts.NotInitialized))

	_, err = tw.call("alice", "new", map[string]any{"foundation_account_id": "foundation"})
	require.NoError(t, err)
	_, err = tw.call("alice", "new", map[string]any{"foundation_account_id": "alice"})
	assert.True(t, reverts.Is(err, reverts.AlreadyInitialized))
}

func TestFoundationManagesPools(t *testing.T) {
	tw := newTestWhitelist(t)
	_, err := tw.call("foundation", "new", map[string]any{"foundation_account_id": "foundation"})
	require.NoError(t, err)

	res, err := tw.pool("foundation", "add_staking_pool", "pool")
	require.NoError(t, err)
	assert.Equal(t, "true", res)
	res, err = tw.pool("foundation", "add_staking_pool", "pool")
	require.NoError(t, err)
	assert.Equal(t, "false", res)
	assert.Equal(t, "true", tw.view("is_whitelisted", map[string]any{"staking_pool_account_id": "pool"}))

	_, err = tw.pool("alice", "add_staking_pool", "other")
	assert.True(t, reverts.Is(err, reverts.Unauthorized))
	_, err = tw.pool("alice", "remove_staking_pool", "pool")
	assert.True(t, reverts.Is(err, reverts.Unauthorized))
	_, err = tw.pool("foundation", "add_staking_pool", "Bad")
	assert.True(t, reverts.Is(err, reverts.InvalidArgument))

	res, err = tw.pool("foundation", "remove_staking_pool", "pool")
	require.NoError(t, err)
	assert.Equal(t, "true", res)
	assert.Equal(t, "false", tw.view("is_whitelisted", map[string]any{"staking_pool_account_id": "pool"}))
}

func TestFactoriesOnlyAdd(t *testing.T) {
	tw := newTestWhitelist(t)
	_, err := tw.call("foundation", "new", map[string]any{"foundation_account_id": "foundation"})
	require.NoError(t, err)

	_, err = tw.factory("alice", "add_factory", "factory")
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	res, err := tw.factory("foundation", "add_factory", "factory")
	require.NoError(t, err)
	assert.Equal(t, "true", res)
	assert.Equal(t, "true", tw.view("is_factory_whitelisted", map[string]any{"factory_account_id": "factory"}))

	res, err = tw.pool("factory", "add_staking_pool", "pool.factory")
	require.NoError(t, err)
	assert.Equal(t, "true", res)
	_, err = tw.pool("factory", "remove_staking_pool", "pool.factory")
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	res, err = tw.factory("foundation", "remove_factory", "factory")
	require.NoError(t, err)
	assert.Equal(t, "true", res)
	_, err = tw.pool("factory", "add_staking_pool", "other.factory")
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	// pools added by a removed factory stay
	assert.Equal(t, "true", tw.view("is_whitelisted", map[string]any{"staking_pool_account_id": "pool.factory"}))
	assert.Equal(t, "false", tw.view("is_factory_whitelisted", map[string]any{"factory_account_id": "factory"}))
}
