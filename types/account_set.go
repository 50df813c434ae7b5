// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import "slices"

// AccountSet is a sorted set of account ids. The zero value is empty and ready to use.
// It encodes to RLP and JSON as a plain list.
type AccountSet []AccountID

// Insert adds id and reports whether it was absent.
func (s *AccountSet) Insert(id AccountID) bool {
	i, found := slices.BinarySearch(*s, id)
	if found {
		return false
	}
	*s = slices.Insert(*s, i, id)
	return true
}

// Remove deletes id and reports whether it was present.
func (s *AccountSet) Remove(id AccountID) bool {
	i, found := slices.BinarySearch(*s, id)
	if !found {
		return false
	}
	*s = slices.Delete(*s, i, i+1)
	return true
}

func (s AccountSet) Contains(id AccountID) bool {
	_, found := slices.BinarySearch(s, id)
	return found
}

func (s AccountSet) Len() int {
	return len(s)
}
