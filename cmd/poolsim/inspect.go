// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/shardstake/contracts/builtin/factory"
	"github.com/shardstake/contracts/builtin/multisig"
	"github.com/shardstake/contracts/builtin/slot"
	"github.com/shardstake/contracts/builtin/stakingpool"
	"github.com/shardstake/contracts/builtin/voting"
	"github.com/shardstake/contracts/builtin/whitelist"
	"github.com/shardstake/contracts/host"
	"github.com/shardstake/contracts/types"
)

type stateDecoder func(ctx *slot.Context) (any, bool, error)

func decodeState[T any](ctx *slot.Context) (any, bool, error) {
	return slot.NewRaw[T](ctx, "state").Get()
}

// stateDecoders maps a contract code to the decoder of its persisted state.
var stateDecoders = map[string]stateDecoder{
	stakingpool.Code: decodeState[*stakingpool.State],
	multisig.Code:    decodeState[*multisig.State],
	factory.Code:     decodeState[*factory.State],
	whitelist.Code:   decodeState[*whitelist.State],
	voting.Code:      decodeState[*voting.State],
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// inspect dumps the account record and the decoded contract state of id.
func inspect(w io.Writer, h *host.Host, id types.AccountID) error {
	acc, err := h.Account(id)
	if err != nil {
		return err
	}
	dumper.Fdump(w, acc)
	if acc.Code == "" {
		return nil
	}
	decode, ok := stateDecoders[acc.Code]
	if !ok {
		return errors.Errorf("no state decoder for code %q", acc.Code)
	}
	state, exists, err := decode(h.Storage(id))
	if err != nil {
		return errors.WithMessagef(err, "decode %s state", acc.Code)
	}
	if !exists {
		_, err := io.WriteString(w, "contract not initialized\n")
		return err
	}
	dumper.Fdump(w, state)
	return nil
}
