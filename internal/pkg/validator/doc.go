// Package validator checks request structs against their `validate` tags and
// reports violations keyed by JSON field name.
package validator
