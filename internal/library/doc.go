// Package library resolves library coordinates to hashed jars. Jars are
// cached in a local maven-layout store; a cached jar is never re-downloaded
// or re-validated against its declared URL.
package library
