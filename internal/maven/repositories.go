package maven

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no repository serves the requested path.
var ErrNotFound = errors.New("not found in any repository")

// Repositories is an ordered list of maven base URLs, each ending in "/".
type Repositories []string

// URL joins base and a repository-relative path.
func URL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Probe fetches path from each repository in order and returns the first
// successful body together with the URL that served it.
func (r Repositories) Probe(ctx context.Context, c *Client, path string) ([]byte, string, error) {
	var errs []error
	for _, base := range r {
		u := URL(base, path)
		body, err := c.Get(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			errs = append(errs, err)
			continue
		}
		if len(body) == 0 {
			errs = append(errs, fmt.Errorf("GET %s: empty body", u))
			continue
		}
		return body, u, nil
	}
	if len(errs) == 0 {
		return nil, "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return nil, "", fmt.Errorf("%s: %w: %w", path, ErrNotFound, errors.Join(errs...))
}
