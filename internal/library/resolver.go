package library

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lwjgl3ify-tools/clientgen/internal/maven"
)

// originSuffix names the sidecar holding the URL a stored jar came from.
const originSuffix = ".url"

// ErrNotFound is returned when neither the declared URL nor any repository
// yields the artifact.
var ErrNotFound = errors.New("artifact not found")

// Artifact is a resolved, hashed jar. URL is empty when unknown.
type Artifact struct {
	Path string
	URL  string
	SHA1 string
	Size int64
}

// Digest returns the size and SHA-1 hex digest of data.
func Digest(data []byte) (int64, string) {
	sum := sha1.Sum(data)
	return int64(len(data)), hex.EncodeToString(sum[:])
}

// Resolver fetches artifacts through the store.
type Resolver struct {
	store  *Store
	client *maven.Client
	repos  maven.Repositories
	logger *log.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger used for progress messages.
func WithLogger(l *log.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a Resolver backed by store that falls back to repos.
func NewResolver(store *Store, client *maven.Client, repos maven.Repositories, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:  store,
		client: client,
		repos:  repos,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the artifact for coord. A cached jar is used as-is.
// Otherwise declaredURL is tried first and the repositories after it.
// The URL that served the jar is kept next to it, so a cached jar reports
// the same URL as the download that stored it.
func (r *Resolver) Resolve(ctx context.Context, coord maven.Coordinate, declaredURL string) (Artifact, error) {
	path := coord.Path()

	if r.store.Exists(path) {
		r.logger.Info("skip downloading", "file", coord.FileName())
		data, err := r.store.Read(path)
		if err != nil {
			return Artifact{}, err
		}
		from, err := r.origin(path, declaredURL)
		if err != nil {
			return Artifact{}, err
		}
		return newArtifact(path, from, data), nil
	}

	data, from, err := r.fetch(ctx, path, declaredURL)
	if err != nil {
		return Artifact{}, fmt.Errorf("jar %s: %w", coord, err)
	}
	if err := r.store.Write(path, data); err != nil {
		return Artifact{}, err
	}
	if err := r.store.Write(path+originSuffix, []byte(from)); err != nil {
		return Artifact{}, err
	}
	r.logger.Debug("downloaded", "file", coord.FileName(), "url", from, "bytes", len(data))
	return newArtifact(path, from, data), nil
}

func (r *Resolver) fetch(ctx context.Context, path, declaredURL string) ([]byte, string, error) {
	if declaredURL != "" {
		data, err := r.client.Get(ctx, declaredURL)
		if err == nil && len(data) > 0 {
			return data, declaredURL, nil
		}
		if err == nil {
			err = errors.New("empty body")
		}
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		if maven.IsNotFound(err) {
			r.logger.Debug("declared URL missing, probing repositories", "url", declaredURL)
		} else {
			r.logger.Warn("declared URL failed, probing repositories", "url", declaredURL, "err", err)
		}
	}

	data, from, err := r.repos.Probe(ctx, r.client, path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return data, from, nil
}

// origin returns the recorded source URL of a cached jar. Jars stored without
// one adopt declaredURL, which is recorded for later runs.
func (r *Resolver) origin(path, declaredURL string) (string, error) {
	sidecar := path + originSuffix
	if r.store.Exists(sidecar) {
		data, err := r.store.Read(sidecar)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
	if err := r.store.Write(sidecar, []byte(declaredURL)); err != nil {
		return "", err
	}
	return declaredURL, nil
}

func newArtifact(path, url string, data []byte) Artifact {
	size, sum := Digest(data)
	return Artifact{Path: path, URL: url, SHA1: sum, Size: size}
}
