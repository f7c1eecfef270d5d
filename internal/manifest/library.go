package manifest

import "encoding/json"

// Library is one entry of the manifest's libraries list.
type Library struct {
	Name      string          `json:"name"`
	Downloads *Downloads      `json:"downloads,omitempty"`
	Rules     json.RawMessage `json:"rules,omitempty"`

	// raw holds an entry passed through untouched; it wins over the typed fields.
	raw json.RawMessage
}

// Downloads wraps the artifact block launchers read.
type Downloads struct {
	Artifact Artifact `json:"artifact"`
}

// Artifact describes where a launcher fetches a jar and how it checks it.
type Artifact struct {
	Path string `json:"path"`
	URL  string `json:"url,omitempty"`
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
}

// NewLibrary builds a resolved entry. Rules are copied verbatim when present.
func NewLibrary(name string, artifact Artifact, rules json.RawMessage) Library {
	return Library{
		Name:      name,
		Downloads: &Downloads{Artifact: artifact},
		Rules:     rules,
	}
}

// RawLibrary wraps an entry that is emitted exactly as it was read.
func RawLibrary(name string, entry json.RawMessage) Library {
	return Library{Name: name, raw: entry}
}

// IsRaw reports whether the entry bypassed resolution.
func (l Library) IsRaw() bool { return l.raw != nil }

// MarshalJSON emits the raw entry for passthrough libraries and the typed
// fields otherwise.
func (l Library) MarshalJSON() ([]byte, error) {
	if l.raw != nil {
		return l.raw, nil
	}
	type plain Library
	return marshal(plain(l))
}
