// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shardstake/contracts/log"
)

func TestRequestLogger(t *testing.T) {
	slow := func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(http.StatusTeapot)
	}
	echo := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	}

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		threshold time.Duration
		want      []string
	}{
		{"disabled", echo, false, 0, nil},
		{"enabled", echo, true, 0, []string{"api request", "uri=/contracts/pool/view/get_owner_id", "status=200"}},
		{"fast below threshold", echo, false, time.Hour, nil},
		{"slow above threshold", slow, false, time.Millisecond, []string{"slow api request", "status=418"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.NewLogger(log.LogfmtHandler(&buf, log.LevelDebug))
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			handler := RequestLogger(logger, &enabled, tt.threshold)(tt.handler)
			req := httptest.NewRequest(http.MethodPost, "/contracts/pool/view/get_owner_id", strings.NewReader(`{"a":1}`))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if tt.name != "slow above threshold" {
				// the handler still sees the body
				assert.Equal(t, `{"a":1}`, rec.Body.String())
			}
			if tt.want == nil {
				assert.Empty(t, buf.String())
				return
			}
			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}
