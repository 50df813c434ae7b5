// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakingpool

import (
	"github.com/shardstake/contracts/types"
)

// HumanReadableAccount is the view of a delegator account.
type HumanReadableAccount struct {
	AccountID       types.AccountID `json:"account_id"`
	UnstakedBalance types.Balance   `json:"unstaked_balance"`
	StakedBalance   types.Balance   `json:"staked_balance"`
	CanWithdraw     bool            `json:"can_withdraw"`
}

func (p *Pool) AccountUnstakedBalance(id types.AccountID) types.Balance {
	return p.state.Accounts.GetOrDefault(id).Unstaked
}

// AccountStakedBalance is the floor value of the account's shares.
func (p *Pool) AccountStakedBalance(id types.AccountID) (types.Balance, error) {
	account := p.state.Accounts.GetOrDefault(id)
	return p.state.Ledger.AmountForSharesFloor(account.StakeShares)
}

func (p *Pool) AccountTotalBalance(id types.AccountID) (types.Balance, error) {
	staked, err := p.AccountStakedBalance(id)
	if err != nil {
		return types.ZeroBalance, err
	}
	total, err := staked.Add(p.AccountUnstakedBalance(id))
	if err != nil {
		return types.ZeroBalance, err
	}
	return total, nil
}

func (p *Pool) IsAccountUnstakedBalanceAvailable(id types.AccountID) bool {
	return p.state.Accounts.GetOrDefault(id).UnstakedAvailableEpochHeight <= p.env.EpochHeight()
}

func (p *Pool) Account(id types.AccountID) (*HumanReadableAccount, error) {
	staked, err := p.AccountStakedBalance(id)
	if err != nil {
		return nil, err
	}
	return &HumanReadableAccount{
		AccountID:       id,
		UnstakedBalance: p.AccountUnstakedBalance(id),
		StakedBalance:   staked,
		CanWithdraw:     p.IsAccountUnstakedBalanceAvailable(id),
	}, nil
}

func (p *Pool) NumberOfAccounts() uint64 {
	return uint64(p.state.Accounts.Len())
}

// Accounts lists up to limit accounts starting at index from.
func (p *Pool) Accounts(from, limit uint64) ([]*HumanReadableAccount, error) {
	ids := p.state.Accounts.Slice(from, limit)
	accounts := make([]*HumanReadableAccount, 0, len(ids))
	for _, id := range ids {
		acc, err := p.Account(id)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}
