// Package manifest models the launcher version manifest: the base template
// it starts from, the library entries appended to it, and the JSON Schema
// checks applied to templates and patch documents before they are used.
package manifest
