// Package resource collects the named resources of one conversion run:
// strings, colors, styles and view ids.
//
// Every table deduplicates by value. Adding a value that is already stored
// returns the existing name; a new value under a taken name is stored as
// name_1, name_2 and so on. Tables are append-only and belong to a single
// [Context], which the pipeline creates fresh for every run.
package resource

import "strconv"

// Entry is one named resource value.
type Entry struct {
	Name  string
	Value string
}

// Table is an insertion-ordered set of named values.
type Table struct {
	entries []Entry
	byName  map[string]int
	byValue map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byName: map[string]int{}, byValue: map[string]int{}}
}

// Add stores value under name and returns the name it was stored under.
func (t *Table) Add(name, value string) string {
	if i, ok := t.byValue[value]; ok {
		return t.entries[i].Name
	}
	unique := name
	for i := 1; ; i++ {
		if _, taken := t.byName[unique]; !taken {
			break
		}
		unique = name + "_" + strconv.Itoa(i)
	}
	t.byName[unique] = len(t.entries)
	t.byValue[value] = len(t.entries)
	t.entries = append(t.entries, Entry{Name: unique, Value: value})
	return unique
}

// Reserve claims a fresh name without value deduplication. It is used for
// view ids, where equal names must never merge.
func (t *Table) Reserve(name string) string {
	return t.Add(name, "\x00"+strconv.Itoa(len(t.entries)))
}

// Get returns the value stored under name.
func (t *Table) Get(name string) (string, bool) {
	i, ok := t.byName[name]
	if !ok {
		return "", false
	}
	return t.entries[i].Value, true
}

// Lookup returns the name a value is stored under.
func (t *Table) Lookup(value string) (string, bool) {
	i, ok := t.byValue[value]
	if !ok {
		return "", false
	}
	return t.entries[i].Name, true
}

// Entries returns the entries in insertion order.
func (t *Table) Entries() []Entry { return t.entries }

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }
