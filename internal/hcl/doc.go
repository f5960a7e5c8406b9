// Package hcl provides the HCL implementation of config.Loader. It finds
// rule files, decodes their wordlist and rule blocks and translates them into
// the format-agnostic config.Model.
package hcl
