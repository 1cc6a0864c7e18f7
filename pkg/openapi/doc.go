// Package openapi imports form schemas from OpenAPI 3 operations. The request
// body of an operation becomes the field list; x-formstate-* extensions add
// the hints OpenAPI has no vocabulary for.
package openapi
