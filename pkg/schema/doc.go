// Package schema defines the declarative form description consumed by the
// form engine: field descriptors, presentational sections, initial values and
// submission targets. Schemas are static once built; runtime state lives in
// package form.
//
// Schemas can be authored in Go or loaded from JSON/YAML documents through
// Parse and LoadFS. Custom validation predicates are only available to Go
// authors since they cannot be expressed in a document.
package schema
