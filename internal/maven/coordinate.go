package maven

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedCoordinate is returned for names that are not
// group:artifact:version[:classifier].
var ErrMalformedCoordinate = errors.New("malformed coordinate")

// Coordinate is a parsed group:artifact:version[:classifier] library name.
type Coordinate struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
}

// ParseCoordinate splits a colon-delimited library name.
func ParseCoordinate(name string) (Coordinate, error) {
	parts := strings.Split(name, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return Coordinate{}, fmt.Errorf("%w: %q has %d segments, want 3 or 4", ErrMalformedCoordinate, name, len(parts))
	}
	for i, p := range parts {
		if p == "" {
			return Coordinate{}, fmt.Errorf("%w: %q has empty segment %d", ErrMalformedCoordinate, name, i+1)
		}
		if strings.ContainsAny(p, `/\`) || p == "." || p == ".." {
			return Coordinate{}, fmt.Errorf("%w: %q segment %d is not a plain name", ErrMalformedCoordinate, name, i+1)
		}
	}
	// The group becomes directories, so every dotted part must be a name.
	for _, dir := range strings.Split(parts[0], ".") {
		if dir == "" {
			return Coordinate{}, fmt.Errorf("%w: %q has an empty group component", ErrMalformedCoordinate, name)
		}
	}

	c := Coordinate{Group: parts[0], Artifact: parts[1], Version: parts[2]}
	if len(parts) == 4 {
		c.Classifier = parts[3]
	}
	return c, nil
}

// String returns the coordinate in its colon-delimited form.
func (c Coordinate) String() string {
	s := c.Group + ":" + c.Artifact + ":" + c.Version
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	return s
}

// FileName returns artifact-version[-classifier].jar.
func (c Coordinate) FileName() string {
	name := c.Artifact + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	return name + ".jar"
}

// Dir returns the repository-relative directory holding the artifact.
func (c Coordinate) Dir() string {
	return strings.ReplaceAll(c.Group, ".", "/") + "/" + c.Artifact + "/" + c.Version
}

// Path returns the repository-relative path of the jar. It always uses
// forward slashes since it doubles as a URL suffix.
func (c Coordinate) Path() string {
	return c.Dir() + "/" + c.FileName()
}
