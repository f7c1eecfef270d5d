// Package source inspects the companion lwjgl3ify working copy. It runs
// read-only git queries to reject bare or modified checkouts and to derive
// the revision string that ends up in every generated identity.
package source
