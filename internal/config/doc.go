// Package config resolves run settings from command-line flags, CLIENTGEN_*
// environment variables, an optional clientgen.yaml in the working directory,
// and built-in defaults, in that order of precedence.
package config
