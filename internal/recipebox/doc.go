// Package recipebox holds what sits around the document store: layered
// configuration, logger construction, input validation, password hashing
// and the timeout-bounded search used by the CLI.
package recipebox
