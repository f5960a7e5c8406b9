// Package registry compiles a loaded rule model into executable rewrite
// patterns and keeps them, along with the named wordlists the rules refer to.
//
// A Registry belongs to one application instance. It is populated once during
// startup; every rule is validated at that point so that a broken rule file
// fails the run before any sentence is processed. After population the
// registry is read-only and safe for concurrent use.
package registry
