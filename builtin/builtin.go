// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin registers the contracts an account may deploy, keyed by code.
package builtin

import (
	"sort"

	"github.com/shardstake/contracts/builtin/factory"
	"github.com/shardstake/contracts/builtin/multisig"
	"github.com/shardstake/contracts/builtin/stakingpool"
	"github.com/shardstake/contracts/builtin/voting"
	"github.com/shardstake/contracts/builtin/whitelist"
	"github.com/shardstake/contracts/xenv"
)

// Builtin contracts binding.
var (
	StakingPool = stakingpool.Contract
	MultiSig    = multisig.Contract
	Factory     = factory.Contract
	Whitelist   = whitelist.Contract
	Voting      = voting.Contract
)

var registry = func() map[string]*xenv.Contract {
	m := make(map[string]*xenv.Contract)
	for _, c := range []*xenv.Contract{StakingPool, MultiSig, Factory, Whitelist, Voting} {
		if _, dup := m[c.Code()]; dup {
			panic("builtin: duplicate contract code " + c.Code())
		}
		m[c.Code()] = c
	}
	return m
}()

// Lookup returns the contract deployed under code.
func Lookup(code string) (*xenv.Contract, bool) {
	c, ok := registry[code]
	return c, ok
}

// Codes lists the known contract codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
