// Package plugins hosts the species modules that contribute loci to the
// catalog. Each subpackage registers one species; Builtin lists them in
// installation order.
package plugins
