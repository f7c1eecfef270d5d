package patch

import (
	"github.com/lwjgl3ify-tools/clientgen/internal/manifest"
	"github.com/lwjgl3ify-tools/clientgen/internal/maven"
)

// Context is the state one generation run threads through every
// translation: which artifact ids were already taken, the entries produced
// so far, and extra JVM arguments requested by patches.
type Context struct {
	seen    map[string]maven.Coordinate
	entries []manifest.Library
	jvmArgs []string
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{seen: make(map[string]maven.Coordinate)}
}

// Entries returns every entry produced so far, in insertion order.
func (c *Context) Entries() []manifest.Library { return c.entries }

// JVMArgs returns accumulated +jvmArgs. Each document's arguments come
// before those of the documents translated earlier.
func (c *Context) JVMArgs() []string { return c.jvmArgs }

// claim marks the coordinate's artifact id as taken. It returns the
// coordinate that first claimed the id and false when already taken.
func (c *Context) claim(coord maven.Coordinate) (maven.Coordinate, bool) {
	if first, ok := c.seen[coord.Artifact]; ok {
		return first, false
	}
	c.seen[coord.Artifact] = coord
	return coord, true
}

func (c *Context) add(lib manifest.Library) {
	c.entries = append(c.entries, lib)
}
