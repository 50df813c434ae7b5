// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	ErrOverflow     = errors.New("arithmetic overflow")
	ErrUnderflow    = errors.New("arithmetic underflow")
	ErrDivideByZero = errors.New("division by zero")
)

// Balance is an unsigned 128-bit amount of tokens (or stake shares).
// All arithmetic is checked: results that do not fit into 128 bits are reported as errors.
type Balance struct {
	v uint256.Int
}

// ZeroBalance is the zero amount.
var ZeroBalance = Balance{}

// NewBalance creates a balance from an uint64.
func NewBalance(v uint64) Balance {
	var b Balance
	b.v.SetUint64(v)
	return b
}

// BalanceFromUint256 converts a 256-bit integer, failing when it exceeds 128 bits.
func BalanceFromUint256(v *uint256.Int) (Balance, error) {
	if v.BitLen() > 128 {
		return Balance{}, ErrOverflow
	}
	var b Balance
	b.v.Set(v)
	return b, nil
}

// ParseBalance parses a decimal string.
func ParseBalance(s string) (Balance, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Balance{}, errors.New("empty balance")
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Balance{}, errors.Wrapf(err, "parse balance %q", s)
	}
	return BalanceFromUint256(v)
}

// MustParseBalance parses a decimal string and panics on failure.
func MustParseBalance(s string) Balance {
	b, err := ParseBalance(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Uint256 returns a copy of the underlying integer.
func (b Balance) Uint256() *uint256.Int {
	return new(uint256.Int).Set(&b.v)
}

func (b Balance) IsZero() bool {
	return b.v.IsZero()
}

// Cmp compares b and o and returns -1, 0 or +1.
func (b Balance) Cmp(o Balance) int {
	return b.v.Cmp(&o.v)
}

func (b Balance) Lt(o Balance) bool { return b.v.Lt(&o.v) }
func (b Balance) Gt(o Balance) bool { return b.v.Gt(&o.v) }

// Add returns b + o.
func (b Balance) Add(o Balance) (Balance, error) {
	var r Balance
	r.v.Add(&b.v, &o.v)
	if r.v.BitLen() > 128 {
		return Balance{}, ErrOverflow
	}
	return r, nil
}

// Sub returns b - o.
func (b Balance) Sub(o Balance) (Balance, error) {
	if b.v.Lt(&o.v) {
		return Balance{}, ErrUnderflow
	}
	var r Balance
	r.v.Sub(&b.v, &o.v)
	return r, nil
}

// MulDiv returns floor(b * mul / div). The product is computed with 256 bits.
func (b Balance) MulDiv(mul, div Balance) (Balance, error) {
	if div.IsZero() {
		return Balance{}, ErrDivideByZero
	}
	var prod uint256.Int
	prod.Mul(&b.v, &mul.v)
	prod.Div(&prod, &div.v)
	return BalanceFromUint256(&prod)
}

// MulDivCeil returns ceil(b * mul / div), computed as floor((b * mul + div - 1) / div).
func (b Balance) MulDivCeil(mul, div Balance) (Balance, error) {
	if div.IsZero() {
		return Balance{}, ErrDivideByZero
	}
	var prod, round uint256.Int
	prod.Mul(&b.v, &mul.v)
	round.SubUint64(&div.v, 1)
	if _, overflow := prod.AddOverflow(&prod, &round); overflow {
		return Balance{}, ErrOverflow
	}
	prod.Div(&prod, &div.v)
	return BalanceFromUint256(&prod)
}

// String returns the decimal form.
func (b Balance) String() string {
	return b.v.Dec()
}

// MarshalText encodes the balance as a decimal string, so JSON carries it quoted.
func (b Balance) MarshalText() ([]byte, error) {
	return []byte(b.v.Dec()), nil
}

// UnmarshalText decodes a decimal string.
func (b *Balance) UnmarshalText(text []byte) error {
	parsed, err := ParseBalance(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// EncodeRLP implements rlp.Encoder.
func (b Balance) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &b.v)
}

// DecodeRLP implements rlp.Decoder.
func (b *Balance) DecodeRLP(s *rlp.Stream) error {
	var v uint256.Int
	if err := s.ReadUint256(&v); err != nil {
		return err
	}
	decoded, err := BalanceFromUint256(&v)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}
