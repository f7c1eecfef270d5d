// Package patch turns Prism/MultiMC component patches into manifest library
// entries. Each library's download location is classified once at parse
// time into one of the Source variants; translation then resolves the jar
// and records the entry in a per-run Context.
package patch
