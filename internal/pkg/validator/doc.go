// Package validator validates request structs with go-playground/validator
// and returns failures keyed by JSON field name.
package validator
