// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	MinAccountIDLen = 2
	MaxAccountIDLen = 64
)

// lowercase alphanumeric groups joined by single separators, '.' delimits sub-accounts.
var accountIDPattern = regexp.MustCompile(`^(([a-z\d]+[\-_])*[a-z\d]+\.)*([a-z\d]+[\-_])*[a-z\d]+$`)

// AccountID is a human readable account identifier, e.g. "pool.factory.near".
type AccountID string

// ParseAccountID validates s and returns it as an AccountID.
func ParseAccountID(s string) (AccountID, error) {
	id := AccountID(s)
	if !id.IsValid() {
		return "", errors.Errorf("invalid account id %q", s)
	}
	return id, nil
}

// IsValid reports whether the id satisfies the account id grammar.
func (id AccountID) IsValid() bool {
	if len(id) < MinAccountIDLen || len(id) > MaxAccountIDLen {
		return false
	}
	return accountIDPattern.MatchString(string(id))
}

// IsSubAccountOf reports whether id is a direct sub-account of parent.
func (id AccountID) IsSubAccountOf(parent AccountID) bool {
	prefix, found := strings.CutSuffix(string(id), "."+string(parent))
	return found && prefix != "" && !strings.Contains(prefix, ".")
}

func (id AccountID) String() string {
	return string(id)
}

func (id AccountID) Bytes() []byte {
	return []byte(id)
}
