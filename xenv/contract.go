// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"fmt"
	"sort"
)

// Method is a contract entry point.
type Method struct {
	Name    string
	View    bool
	Payable bool
	Run     func(env *Environment) (any, error)
}

// Contract is a named table of methods, identified by its code.
type Contract struct {
	code    string
	methods map[string]*Method
}

// NewContract builds a contract. Duplicate method names panic.
func NewContract(code string, methods []*Method) *Contract {
	c := &Contract{code: code, methods: make(map[string]*Method, len(methods))}
	for _, m := range methods {
		if _, dup := c.methods[m.Name]; dup {
			panic(fmt.Sprintf("contract %s: duplicate method %s", code, m.Name))
		}
		c.methods[m.Name] = m
	}
	return c
}

func (c *Contract) Code() string {
	return c.code
}

func (c *Contract) Method(name string) (*Method, bool) {
	m, ok := c.methods[name]
	return m, ok
}

// Methods returns the methods ordered by name.
func (c *Contract) Methods() []*Method {
	methods := make([]*Method, 0, len(c.methods))
	for _, m := range c.methods {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
	return methods
}
