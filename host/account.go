// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/shardstake/contracts/cache"
	"github.com/shardstake/contracts/kv"
	"github.com/shardstake/contracts/promise"
	"github.com/shardstake/contracts/types"
)

// AccessKey is a public key allowed to sign for an account.
type AccessKey struct {
	PublicKey  types.PublicKey    `json:"public_key"`
	Permission promise.Permission `json:"permission"`
}

// Account is the host record of an account.
type Account struct {
	Amount types.Balance `json:"amount"`
	// Locked is the validator stake.
	Locked   types.Balance   `json:"locked"`
	Code     string          `json:"code,omitempty"`
	StakeKey types.PublicKey `json:"stake_key,omitempty"`
	Keys     []AccessKey     `json:"keys"`
}

// Total returns the unlocked plus the locked balance.
func (a *Account) Total() (types.Balance, error) {
	return a.Amount.Add(a.Locked)
}

func (a *Account) keyIndex(pk types.PublicKey) int {
	return slices.IndexFunc(a.Keys, func(k AccessKey) bool { return k.PublicKey == pk })
}

// Key returns the access key for pk.
func (a *Account) Key(pk types.PublicKey) (AccessKey, bool) {
	if i := a.keyIndex(pk); i >= 0 {
		return a.Keys[i], true
	}
	return AccessKey{}, false
}

func (a *Account) copy() *Account {
	cpy := *a
	cpy.Keys = slices.Clone(a.Keys)
	return &cpy
}

// accountStore reads committed account records through a LRU of decoded records.
type accountStore struct {
	store kv.Store
	cache *cache.LRU[types.AccountID, *Account]
}

func newAccountStore(db kv.Store, cacheSize int) (*accountStore, error) {
	c, err := cache.NewLRU[types.AccountID, *Account](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "account cache")
	}
	return &accountStore{store: accountsBucket.NewStore(db), cache: c}, nil
}

// Get returns a copy of the committed record, nil if the account does not exist.
func (s *accountStore) Get(id types.AccountID) (*Account, error) {
	acc, err := s.cache.GetOrLoad(id, func(id types.AccountID) (*Account, error) {
		data, err := s.store.Get(id.Bytes())
		if err != nil {
			if s.store.IsNotFound(err) {
				return nil, nil
			}
			return nil, errors.Wrapf(err, "read account %s", id)
		}
		var acc Account
		if err := rlp.DecodeBytes(data, &acc); err != nil {
			return nil, errors.Wrapf(err, "decode account %s", id)
		}
		return &acc, nil
	})
	if err != nil || acc == nil {
		return nil, err
	}
	return acc.copy(), nil
}

// put queues the record into bulk. The cache is updated by committed once bulk is written.
func (s *accountStore) put(bulk kv.Putter, id types.AccountID, acc *Account) error {
	data, err := rlp.EncodeToBytes(acc)
	if err != nil {
		return errors.Wrapf(err, "encode account %s", id)
	}
	return accountsBucket.NewPutter(bulk).Put(id.Bytes(), data)
}

func (s *accountStore) committed(accounts map[types.AccountID]*Account) {
	for id, acc := range accounts {
		s.cache.Add(id, acc.copy())
	}
}

// each visits every committed account in id order.
func (s *accountStore) each(fn func(id types.AccountID, acc *Account) error) error {
	it := s.store.Iterate(kv.Range{})
	defer it.Release()
	for it.Next() {
		var acc Account
		if err := rlp.DecodeBytes(it.Value(), &acc); err != nil {
			return errors.Wrapf(err, "decode account %s", it.Key())
		}
		if err := fn(types.AccountID(it.Key()), &acc); err != nil {
			return err
		}
	}
	return it.Error()
}

// validators answers stake queries from the committed locked balances.
type validators struct {
	accounts *accountStore
}

func (v validators) ValidatorStake(id types.AccountID) types.Balance {
	acc, err := v.accounts.Get(id)
	if err != nil {
		logger.Warn("failed to load validator", "account", id, "err", err)
		return types.ZeroBalance
	}
	if acc == nil {
		return types.ZeroBalance
	}
	return acc.Locked
}

func (v validators) TotalValidatorStake() types.Balance {
	total := types.ZeroBalance
	err := v.accounts.each(func(_ types.AccountID, acc *Account) error {
		var err error
		total, err = total.Add(acc.Locked)
		return err
	})
	if err != nil {
		logger.Warn("failed to sum validator stake", "err", err)
	}
	return total
}
