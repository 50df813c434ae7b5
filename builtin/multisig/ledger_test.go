// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package multisig

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardstake/contracts/builtin/reverts"
	"github.com/shardstake/contracts/promise"
	"github.com/shardstake/contracts/test/datagen"
	"github.com/shardstake/contracts/types"
)

func TestLedger(t *testing.T) {
	l := NewLedger()
	a, b := datagen.RandPublicKey(), datagen.RandPublicKey()

	l.Add(3, RequestWithSigner{SignerPK: a})
	l.Add(1, RequestWithSigner{SignerPK: a})
	l.Add(2, RequestWithSigner{SignerPK: b})
	l.SetNumRequests(a, 2)
	l.SetNumRequests(b, 1)
	assert.Equal(t, []RequestID{1, 2, 3}, l.RequestIDs())

	require.NoError(t, l.Confirm(2, a))
	assert.True(t, reverts.Is(l.Confirm(2, a), reverts.AlreadyConfirmed))
	assert.True(t, reverts.Is(l.Confirm(9, a), reverts.RequestNotFound))

	_, err := l.Remove(2)
	require.NoError(t, err)
	assert.False(t, l.IsConfirmedBy(2, a))
	assert.Equal(t, uint32(0), l.NumRequests(b))
	assert.Contains(t, l.numRequestsPK, b)

	// the counter never goes below zero
	l.Add(4, RequestWithSigner{SignerPK: b})
	_, err = l.Remove(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), l.NumRequests(b))

	_, err = l.Remove(4)
	assert.True(t, reverts.Is(err, reverts.RequestNotFound))

	assert.Equal(t, []RequestID{1, 3}, l.PurgeSigner(a))
	assert.Empty(t, l.RequestIDs())
	assert.NotContains(t, l.numRequestsPK, a)
}

func TestLedger_RemoveWithoutCounter(t *testing.T) {
	l := NewLedger()
	a := datagen.RandPublicKey()
	l.Add(1, RequestWithSigner{SignerPK: a})

	before, err := rlp.EncodeToBytes(NewLedger())
	require.NoError(t, err)

	_, err = l.Remove(1)
	require.NoError(t, err)
	assert.NotContains(t, l.numRequestsPK, a)
	assert.Empty(t, l.numRequestsPK)

	// the emptied ledger encodes like a fresh one
	after, err := rlp.EncodeToBytes(l)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLedgerRLP(t *testing.T) {
	l := NewLedger()
	a, b := datagen.RandPublicKey(), datagen.RandPublicKey()
	allowance := types.NewBalance(250)
	l.Add(7, RequestWithSigner{
		Request: Request{ReceiverID: "multisig.near", Actions: Actions{
			AddKey{PublicKey: b, Permission: promise.FunctionCallAccess(promise.FunctionCallPermission{
				Allowance:   &allowance,
				Receiver:    "multisig.near",
				MethodNames: []string{"confirm"},
			})},
			FunctionCall{MethodName: "ping", Args: []byte(`{}`), Deposit: types.NewBalance(1), Gas: 5 * types.Tgas},
			SetActiveRequestsLimit{ActiveRequestsLimit: 3},
		}},
		SignerPK:       a,
		AddedTimestamp: 42,
	})
	require.NoError(t, l.Confirm(7, b))
	l.SetNumRequests(a, 1)

	data, err := rlp.EncodeToBytes(l)
	require.NoError(t, err)
	decoded := NewLedger()
	require.NoError(t, rlp.DecodeBytes(data, decoded))

	req, err := decoded.Request(7)
	require.NoError(t, err)
	assert.Equal(t, a, req.SignerPK)
	assert.Equal(t, types.Timestamp(42), req.AddedTimestamp)
	require.Len(t, req.Request.Actions, 3)
	addKey := req.Request.Actions[0].(AddKey)
	assert.Equal(t, "250", addKey.Permission.FunctionCall.Allowance.String())
	assert.Equal(t, []string{"confirm"}, addKey.Permission.FunctionCall.MethodNames)
	assert.Equal(t, "ping", req.Request.Actions[1].(FunctionCall).MethodName)
	assert.Equal(t, SetActiveRequestsLimit{3}, req.Request.Actions[2])
	assert.True(t, decoded.IsConfirmedBy(7, b))
	assert.Equal(t, uint32(1), decoded.NumRequests(a))

	again, err := rlp.EncodeToBytes(decoded)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestActionsJSON(t *testing.T) {
	var req Request
	input := `{
		"receiver_id": "pool.near",
		"actions": [
			{"type": "FunctionCall", "method_name": "ping", "args": "e30=", "deposit": "0", "gas": 5000000000000},
			{"type": "Transfer", "amount": "10"},
			{"type": "SetNumConfirmations", "num_confirmations": 2}
		]
	}`
	require.NoError(t, json.Unmarshal([]byte(input), &req))
	require.Len(t, req.Actions, 3)
	assert.Equal(t, []byte("{}"), req.Actions[0].(FunctionCall).Args)
	assert.Equal(t, TransferKind, req.Actions[1].Kind())
	assert.Equal(t, SetNumConfirmations{2}, req.Actions[2])

	out, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"type":"Transfer"`)

	var bad Request
	assert.Error(t, json.Unmarshal([]byte(`{"actions":[{"type":"Explode"}]}`), &bad))
}
