// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Gas is the unit of execution budget attached to function calls.
type Gas uint64

// Tgas is 10^12 gas.
const Tgas Gas = 1_000_000_000_000

// EpochHeight is the host's epoch counter.
type EpochHeight uint64

// Timestamp is a block timestamp in nanoseconds.
type Timestamp uint64

// Hash is a 32-byte digest.
type Hash [32]byte

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Blake2b computes the blake2b-256 checksum of the concatenated data.
func Blake2b(data ...[]byte) Hash {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	w, _ := blake2b.New256(nil)
	for _, b := range data {
		w.Write(b)
	}
	var h Hash
	w.Sum(h[:0])
	return h
}
