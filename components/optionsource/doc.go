// Package optionsource serves option lists for select fields over HTTP.
//
// The handler answers GET and HEAD with {"data":[{"value":..,"label":..}]}.
// Lists come from a Catalog keyed by parent value, so one endpoint can back a
// dependent field: the form engine sends the selected parent as the "parent"
// query parameter. The q and limit parameters filter and cap the result.
package optionsource
