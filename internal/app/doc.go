// Package app wires a rewrite run together: it loads rule files into a
// registry, reads sentences in CoNLL-U or compact form, rewrites them on a
// bounded worker pool in iterate, expand or exhaust mode, and writes the
// results in input order. It knows nothing about flags or process exit codes.
package app
