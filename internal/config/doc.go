// Package config defines the format-agnostic model of a rule set, along with
// the Loader interface that fills it from some source.
//
// The Model is the single input of the registry, which compiles it into
// executable rewrite patterns. Concrete loaders, such as the HCL one, live in
// separate packages.
package config
