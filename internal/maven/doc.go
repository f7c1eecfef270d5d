// Package maven parses library coordinates into maven-style storage paths
// and talks to maven-style HTTP repositories.
package maven
