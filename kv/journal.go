// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "github.com/pkg/errors"

var errJournalNotFound = errors.New("journal: not found")

// Journal buffers writes over a source getter. Reads see buffered writes first.
// Nothing reaches the source until Commit. Dropping the journal discards its writes.
type Journal struct {
	src     Getter
	entries []journalEntry
	index   map[string]int // key -> last entry
}

type journalEntry struct {
	key     string
	val     []byte
	deleted bool
}

// NewJournal creates a journal over src.
func NewJournal(src Getter) *Journal {
	return &Journal{src: src, index: make(map[string]int)}
}

func (j *Journal) Get(key []byte) ([]byte, error) {
	if i, ok := j.index[string(key)]; ok {
		e := j.entries[i]
		if e.deleted {
			return nil, errJournalNotFound
		}
		return append([]byte(nil), e.val...), nil
	}
	return j.src.Get(key)
}

func (j *Journal) Has(key []byte) (bool, error) {
	if i, ok := j.index[string(key)]; ok {
		return !j.entries[i].deleted, nil
	}
	return j.src.Has(key)
}

func (j *Journal) IsNotFound(err error) bool {
	return errors.Is(err, errJournalNotFound) || j.src.IsNotFound(err)
}

func (j *Journal) Put(key, val []byte) error {
	j.append(journalEntry{key: string(key), val: append([]byte(nil), val...)})
	return nil
}

func (j *Journal) Delete(key []byte) error {
	j.append(journalEntry{key: string(key), deleted: true})
	return nil
}

func (j *Journal) append(e journalEntry) {
	j.entries = append(j.entries, e)
	j.index[e.key] = len(j.entries) - 1
}

// Commit flushes the latest value of every touched key into dst and resets the journal.
func (j *Journal) Commit(dst Bulk) error {
	for i, e := range j.entries {
		if j.index[e.key] != i {
			continue
		}
		var err error
		if e.deleted {
			err = dst.Delete([]byte(e.key))
		} else {
			err = dst.Put([]byte(e.key), e.val)
		}
		if err != nil {
			return errors.Wrap(err, "journal commit")
		}
	}
	if err := dst.Write(); err != nil {
		return errors.Wrap(err, "journal commit")
	}
	j.entries = j.entries[:0]
	j.index = make(map[string]int)
	return nil
}
