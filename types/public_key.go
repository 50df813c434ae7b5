// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
)

// KeyType is the curve of a public key.
type KeyType uint8

const (
	ED25519 KeyType = iota
	SECP256K1
)

func (k KeyType) String() string {
	switch k {
	case ED25519:
		return "ed25519"
	case SECP256K1:
		return "secp256k1"
	default:
		return "unknown"
	}
}

func (k KeyType) dataLen() int {
	if k == SECP256K1 {
		return 64
	}
	return 32
}

// PublicKey is an access key in canonical "<curve>:<base58 data>" form.
// Being a string it is comparable and can be used as a map key.
type PublicKey string

// NewPublicKey builds a key from raw curve data.
func NewPublicKey(kt KeyType, data []byte) (PublicKey, error) {
	if kt != ED25519 && kt != SECP256K1 {
		return "", errors.Errorf("unsupported key type %d", kt)
	}
	if len(data) != kt.dataLen() {
		return "", errors.Errorf("invalid %v key length %d", kt, len(data))
	}
	if kt == SECP256K1 {
		// uncompressed point without the 0x04 prefix
		if _, err := secp256k1.ParsePubKey(append([]byte{0x04}, data...)); err != nil {
			return "", errors.Wrap(err, "invalid secp256k1 key")
		}
	}
	return PublicKey(kt.String() + ":" + base58.Encode(data)), nil
}

// ParsePublicKey parses "ed25519:<base58>" or "secp256k1:<base58>". A missing prefix means ed25519.
func ParsePublicKey(s string) (PublicKey, error) {
	kt := ED25519
	encoded := s
	if prefix, rest, found := strings.Cut(s, ":"); found {
		switch strings.ToLower(prefix) {
		case "ed25519":
			kt = ED25519
		case "secp256k1":
			kt = SECP256K1
		default:
			return "", errors.Errorf("unknown key type %q", prefix)
		}
		encoded = rest
	}
	data := base58.Decode(encoded)
	if len(data) == 0 {
		return "", errors.Errorf("invalid base58 key data %q", encoded)
	}
	return NewPublicKey(kt, data)
}

// Type returns the key curve.
func (pk PublicKey) Type() KeyType {
	if strings.HasPrefix(string(pk), "secp256k1:") {
		return SECP256K1
	}
	return ED25519
}

// Data returns the raw key bytes.
func (pk PublicKey) Data() []byte {
	_, encoded, _ := strings.Cut(string(pk), ":")
	return base58.Decode(encoded)
}

// Bytes returns the key type byte followed by the key data.
func (pk PublicKey) Bytes() []byte {
	return append([]byte{byte(pk.Type())}, pk.Data()...)
}

func (pk PublicKey) IsEmpty() bool {
	return pk == ""
}

func (pk PublicKey) String() string {
	return string(pk)
}

// UnmarshalText parses and validates the textual key.
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}
