// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package slot persists contract state as RLP blobs keyed per contract account.
package slot

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/shardstake/contracts/kv"
	"github.com/shardstake/contracts/types"
)

// Context binds storage to one contract account.
type Context struct {
	contract types.AccountID
	store    kv.GetPutter
}

func NewContext(contract types.AccountID, store kv.GetPutter) *Context {
	return &Context{contract: contract, store: store}
}

func (c *Context) Contract() types.AccountID {
	return c.contract
}

// Key derives the storage key of a named slot.
func (c *Context) Key(name string) []byte {
	return types.Blake2b(c.contract.Bytes(), []byte(name)).Bytes()
}

// Raw is a single slot holding a whole RLP encoded value.
type Raw[T any] struct {
	context *Context
	name    string
	key     []byte
}

func NewRaw[T any](context *Context, name string) *Raw[T] {
	return &Raw[T]{context: context, name: name, key: context.Key(name)}
}

// Get decodes the slot. exists is false when nothing was stored.
func (r *Raw[T]) Get() (value T, exists bool, err error) {
	data, err := r.context.store.Get(r.key)
	if err != nil {
		if r.context.store.IsNotFound(err) {
			return value, false, nil
		}
		return value, false, errors.Wrapf(err, "read slot %s", r.name)
	}
	if len(data) == 0 {
		return value, false, nil
	}
	if err := rlp.DecodeBytes(data, &value); err != nil {
		return value, false, errors.Wrapf(err, "decode slot %s", r.name)
	}
	return value, true, nil
}

func (r *Raw[T]) Set(value T) error {
	data, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrapf(err, "encode slot %s", r.name)
	}
	return r.context.store.Put(r.key, data)
}

func (r *Raw[T]) Delete() error {
	return r.context.store.Delete(r.key)
}
