// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardstake/contracts/api"
	"github.com/shardstake/contracts/api/accounts"
	"github.com/shardstake/contracts/api/contracts"
	"github.com/shardstake/contracts/builtin/stakingpool"
	"github.com/shardstake/contracts/builtin/voting"
	"github.com/shardstake/contracts/host"
	"github.com/shardstake/contracts/lvldb"
	"github.com/shardstake/contracts/metrics"
	"github.com/shardstake/contracts/test/datagen"
	"github.com/shardstake/contracts/types"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func newTestServer(t *testing.T, opts api.Options) *httptest.Server {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h, err := host.New(db, host.DefaultOptions())
	require.NoError(t, err)

	ownerKey := datagen.RandPublicKey()
	poolBalance, err := stakingpool.StakeSharePriceGuaranteeFund.Add(types.NewBalance(1_000_000))
	require.NoError(t, err)
	require.NoError(t, h.Genesis(
		host.GenesisAccount{ID: "owner", Amount: types.NewBalance(100), Keys: []types.PublicKey{ownerKey}},
		host.GenesisAccount{ID: "pool", Amount: poolBalance, Code: stakingpool.Code},
		host.GenesisAccount{ID: "voting", Code: voting.Code},
	))
	out, err := h.Call("owner", ownerKey, "pool", "new", map[string]any{
		"owner_id":            "owner",
		"stake_public_key":    datagen.RandPublicKey(),
		"reward_fee_fraction": stakingpool.RewardFeeFraction{Numerator: 1, Denominator: 10},
	}, types.ZeroBalance)
	require.NoError(t, err)
	require.NoError(t, out.Failure())

	ts := httptest.NewServer(api.New(h, opts))
	t.Cleanup(ts.Close)
	return ts
}

func httpDo(t *testing.T, method, url, body string) ([]byte, int) {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res.StatusCode
}

func TestAccounts(t *testing.T) {
	ts := newTestServer(t, api.Options{})

	data, code := httpDo(t, http.MethodGet, ts.URL+"/accounts/pool", "")
	require.Equal(t, http.StatusOK, code, string(data))
	var acc accounts.Account
	require.NoError(t, json.Unmarshal(data, &acc))
	assert.Equal(t, types.AccountID("pool"), acc.ID)
	assert.Equal(t, stakingpool.Code, acc.Code)
	assert.Equal(t, types.NewBalance(1_000_000), acc.Locked)

	_, code = httpDo(t, http.MethodGet, ts.URL+"/accounts/nobody", "")
	assert.Equal(t, http.StatusNotFound, code)
	_, code = httpDo(t, http.MethodGet, ts.URL+"/accounts/Bad", "")
	assert.Equal(t, http.StatusBadRequest, code)

	data, code = httpDo(t, http.MethodGet, ts.URL+"/accounts/validators", "")
	require.Equal(t, http.StatusOK, code)
	var validators accounts.Validators
	require.NoError(t, json.Unmarshal(data, &validators))
	assert.Equal(t, types.NewBalance(1_000_000), validators.TotalStake)
}

func TestContracts(t *testing.T) {
	ts := newTestServer(t, api.Options{})

	data, code := httpDo(t, http.MethodGet, ts.URL+"/contracts", "")
	require.Equal(t, http.StatusOK, code)
	var codes []contracts.Code
	require.NoError(t, json.Unmarshal(data, &codes))
	require.Len(t, codes, 5)
	assert.Equal(t, "multisig", codes[0].Code)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		want   string
	}{
		{"view", "/contracts/pool/view/get_owner_id", "", http.StatusOK, `"owner"`},
		{"view with args", "/contracts/pool/view/get_account_staked_balance", `{"account_id":"owner"}`, http.StatusOK, `"0"`},
		{"change method", "/contracts/pool/view/ping", "", http.StatusBadRequest, ""},
		{"unknown method", "/contracts/pool/view/steal", "", http.StatusNotFound, ""},
		{"no contract", "/contracts/owner/view/get_owner_id", "", http.StatusNotFound, ""},
		{"not initialized", "/contracts/voting/view/get_result", "", http.StatusNotFound, ""},
		{"invalid json", "/contracts/pool/view/get_account", "{", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, code := httpDo(t, http.MethodPost, ts.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, code, string(data))
			if tt.want != "" {
				assert.JSONEq(t, tt.want, string(data))
			}
		})
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, api.Options{AllowedOrigins: "https://example.org"})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/accounts/pool", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.org")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "https://example.org", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t, api.Options{EnableMetrics: true})

	httpDo(t, http.MethodGet, ts.URL+"/accounts/pool", "")
	httpDo(t, http.MethodGet, ts.URL+"/accounts/nobody", "")

	data, code := httpDo(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, code)
	body := string(data)
	assert.Contains(t, body, `shardstake_api_request_count{code="200",method="GET",name="GET /accounts/{id}"} 1`)
	assert.Contains(t, body, `shardstake_api_request_count{code="404",method="GET",name="GET /accounts/{id}"} 1`)
	assert.Contains(t, body, "shardstake_host_receipts_count")
}

func TestAdmin(t *testing.T) {
	var level slog.LevelVar
	ts := newTestServer(t, api.Options{LogLevel: &level})

	data, code := httpDo(t, http.MethodGet, ts.URL+"/admin/loglevel", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"level":"info"}`, string(data))

	data, code = httpDo(t, http.MethodPost, ts.URL+"/admin/loglevel", `{"level":"debug"}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"level":"debug"}`, string(data))
	assert.Equal(t, slog.LevelDebug, level.Level())

	_, code = httpDo(t, http.MethodPost, ts.URL+"/admin/loglevel", `{"level":"loud"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	data, code = httpDo(t, http.MethodPost, ts.URL+"/admin/apilogs", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"enabled":true}`, string(data))

	// admin routes are off by default
	ts = newTestServer(t, api.Options{})
	_, code = httpDo(t, http.MethodGet, ts.URL+"/admin/loglevel", "")
	assert.Equal(t, http.StatusNotFound, code)
}
