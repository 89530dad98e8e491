// Package docstore is an embedded document store backed by a single JSON
// file.
//
// The file holds three keyed collections, recipes, pantry and users:
//
//	{"recipes": {"Soup": {"title": "Soup", "ingredients": [{"name": "Salt"}]}},
//	 "pantry":  {"Salt": {"name": "Salt", "quantity": "1"}},
//	 "users":   {"ada": {"username": "ada", "password": "<hash>"}}}
//
// It is read once when the [Store] is opened and rewritten in full, via an
// atomic rename under a file lock, after every mutation that changed
// something. There is no query language and no index; lookups scan.
//
// Store methods block. Consumers that want to race an operation against a
// deadline wrap it with [Go] and [Await].
package docstore
