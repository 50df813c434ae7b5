// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakingpool

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/shardstake/contracts/types"
)

// Account is the record of one delegator.
type Account struct {
	Unstaked                     types.Balance
	StakeShares                  types.Balance
	UnstakedAvailableEpochHeight types.EpochHeight
}

// IsEmpty reports whether the account holds nothing and can be dropped.
func (a Account) IsEmpty() bool {
	return a.Unstaked.IsZero() && a.StakeShares.IsZero()
}

type accountEntry struct {
	ID      types.AccountID
	Account Account
}

// AccountBook holds delegator accounts in insertion order.
// Removal moves the last account into the freed position.
type AccountBook struct {
	ids     []types.AccountID
	index   map[types.AccountID]int
	records map[types.AccountID]Account
}

func NewAccountBook() *AccountBook {
	return &AccountBook{
		index:   make(map[types.AccountID]int),
		records: make(map[types.AccountID]Account),
	}
}

// GetOrDefault returns the account, or a zero account which is not stored.
func (b *AccountBook) GetOrDefault(id types.AccountID) Account {
	return b.records[id]
}

func (b *AccountBook) Has(id types.AccountID) bool {
	_, ok := b.records[id]
	return ok
}

// Save stores the account, or removes it once both balances are zero.
func (b *AccountBook) Save(id types.AccountID, account Account) {
	if account.IsEmpty() {
		b.remove(id)
		return
	}
	if _, ok := b.index[id]; !ok {
		b.index[id] = len(b.ids)
		b.ids = append(b.ids, id)
	}
	b.records[id] = account
}

func (b *AccountBook) remove(id types.AccountID) {
	i, ok := b.index[id]
	if !ok {
		return
	}
	last := len(b.ids) - 1
	if i != last {
		b.ids[i] = b.ids[last]
		b.index[b.ids[i]] = i
	}
	b.ids = b.ids[:last]
	delete(b.index, id)
	delete(b.records, id)
}

func (b *AccountBook) Len() int {
	return len(b.ids)
}

// Slice returns up to limit account ids starting at from.
func (b *AccountBook) Slice(from, limit uint64) []types.AccountID {
	n := uint64(len(b.ids))
	if from >= n {
		return nil
	}
	end := n
	if limit < n-from {
		end = from + limit
	}
	return append([]types.AccountID(nil), b.ids[from:end]...)
}

// EncodeRLP implements rlp.Encoder.
func (b *AccountBook) EncodeRLP(w io.Writer) error {
	entries := make([]accountEntry, 0, len(b.ids))
	for _, id := range b.ids {
		entries = append(entries, accountEntry{id, b.records[id]})
	}
	return rlp.Encode(w, entries)
}

// DecodeRLP implements rlp.Decoder.
func (b *AccountBook) DecodeRLP(s *rlp.Stream) error {
	var entries []accountEntry
	if err := s.Decode(&entries); err != nil {
		return err
	}
	book := NewAccountBook()
	for _, e := range entries {
		if book.Has(e.ID) {
			return errors.Errorf("duplicate account %s", e.ID)
		}
		book.Save(e.ID, e.Account)
	}
	*b = *book
	return nil
}
