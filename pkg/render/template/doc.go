// Package template defines the seam between renderers and a template engine.
package template
