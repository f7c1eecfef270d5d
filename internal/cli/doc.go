// Package cli defines the clientgen root command. It turns flags,
// environment, and clientgen.yaml into settings, wires the logger, and
// delegates the run to the generator; it only handles flag parsing, output
// formatting, and error presentation.
package cli
