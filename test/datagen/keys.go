// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random fixtures for tests.
package datagen

import (
	"crypto/rand"

	"github.com/shardstake/contracts/types"
)

// RandPublicKey returns a random ed25519 public key.
func RandPublicKey() types.PublicKey {
	var data [32]byte
	rand.Read(data[:])
	pk, err := types.NewPublicKey(types.ED25519, data[:])
	if err != nil {
		panic(err)
	}
	return pk
}
