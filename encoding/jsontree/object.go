// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontree

import "strings"

// Member is a single name/value pair of an object.
type Member struct {
	Name  string
	Value Value
}

// Members holds the members of an object in insertion order.
// Lookups match names exactly first and then case-insensitively;
// names are written out exactly as they were set.
type Members struct {
	list  []Member
	index map[string]int // exact name -> position in list
}

// NewMembers returns an empty set of members.
func NewMembers() *Members { return &Members{} }

// Len reports the number of members.
func (m *Members) Len() int {
	if m == nil {
		return 0
	}
	return len(m.list)
}

// List returns the members in insertion order. The slice must not be
// modified.
func (m *Members) List() []Member {
	if m == nil {
		return nil
	}
	return m.list
}

// Get returns the value of the member named name. An exact match is
// preferred; otherwise the first member whose name equals name under
// Unicode case-folding is returned.
func (m *Members) Get(name string) (Value, bool) {
	if v, ok := m.exact(name); ok {
		return v, true
	}
	for _, e := range m.List() {
		if strings.EqualFold(e.Name, name) {
			return e.Value, true
		}
	}
	return Value{}, false
}

func (m *Members) exact(name string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	if i, ok := m.index[name]; ok {
		return m.list[i].Value, true
	}
	return Value{}, false
}

// Set sets the member named name, replacing the value of an existing member
// with exactly that name in place, or appending a new member.
func (m *Members) Set(name string, v Value) {
	if i, ok := m.index[name]; ok {
		m.list[i].Value = v
		return
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[name] = len(m.list)
	m.list = append(m.list, Member{Name: name, Value: v})
}

// Delete removes the member named exactly name, if present.
func (m *Members) Delete(name string) {
	i, ok := m.index[name]
	if !ok {
		return
	}
	delete(m.index, name)
	m.list = append(m.list[:i], m.list[i+1:]...)
	for j := i; j < len(m.list); j++ {
		m.index[m.list[j].Name] = j
	}
}
