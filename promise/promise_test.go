// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package promise

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardstake/contracts/types"
)

func TestBatch(t *testing.T) {
	b := NewBatch("pool.near").
		CreateAccount().
		Transfer(types.NewBalance(100)).
		DeployContract([]byte("staking_pool")).
		FunctionCall("new", []byte(`{}`), types.NewBalance(5), 50*types.Tgas).
		Then("on_create", nil, types.ZeroBalance, 20*types.Tgas)

	require.Len(t, b.Actions, 4)
	kinds := make([]ActionKind, 0, len(b.Actions))
	for _, a := range b.Actions {
		kinds = append(kinds, a.Kind())
	}
	assert.Equal(t, []ActionKind{CreateAccountKind, TransferKind, DeployContractKind, FunctionCallKind}, kinds)
	assert.Equal(t, "on_create", b.Callback.Method)

	deposit, err := b.Deposit()
	require.NoError(t, err)
	assert.Equal(t, "105", deposit.String())
}

func TestPermission(t *testing.T) {
	full := FullAccess()
	assert.True(t, full.IsFullAccess())
	assert.True(t, full.Allows("any.near", "anything"))

	limited := FunctionCallAccess(FunctionCallPermission{
		Receiver:    "pool.near",
		MethodNames: []string{"ping"},
	})
	assert.False(t, limited.IsFullAccess())
	assert.True(t, limited.Allows("pool.near", "ping"))
	assert.False(t, limited.Allows("pool.near", "withdraw"))
	assert.False(t, limited.Allows("other.near", "ping"))

	open := FunctionCallAccess(FunctionCallPermission{Receiver: "pool.near"})
	assert.True(t, open.Allows("pool.near", "withdraw"))
}

func TestPermissionRLP(t *testing.T) {
	allowance := types.NewBalance(1000)
	for _, p := range []Permission{
		FullAccess(),
		FunctionCallAccess(FunctionCallPermission{Receiver: "pool.near"}),
		FunctionCallAccess(FunctionCallPermission{Allowance: &allowance, Receiver: "pool.near", MethodNames: []string{"a", "b"}}),
	} {
		data, err := rlp.EncodeToBytes(&p)
		require.NoError(t, err)

		var decoded Permission
		require.NoError(t, rlp.DecodeBytes(data, &decoded))
		assert.Equal(t, p.IsFullAccess(), decoded.IsFullAccess())
		if !p.IsFullAccess() {
			assert.Equal(t, p.FunctionCall.Receiver, decoded.FunctionCall.Receiver)
			assert.Equal(t, p.FunctionCall.Allowance == nil, decoded.FunctionCall.Allowance == nil)
		}
	}
}

func TestPermissionJSON(t *testing.T) {
	var add AddKey
	require.NoError(t, json.Unmarshal([]byte(`{"public_key":"ed25519:6E8sCci9badyRkXb3JoRpBj5p8C6Tw41ELDZoiihKEtp"}`), &add))
	assert.True(t, add.Permission.IsFullAccess())

	require.NoError(t, json.Unmarshal([]byte(`{"public_key":"ed25519:6E8sCci9badyRkXb3JoRpBj5p8C6Tw41ELDZoiihKEtp","permission":{"allowance":"10","receiver_id":"pool.near","method_names":["ping"]}}`), &add))
	require.False(t, add.Permission.IsFullAccess())
	assert.Equal(t, "10", add.Permission.FunctionCall.Allowance.String())

	data, err := json.Marshal(AddKey{PublicKey: add.PublicKey})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"permission":null`)
}
