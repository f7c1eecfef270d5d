package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrTemplateNotFound is returned when the base template file is missing.
var ErrTemplateNotFound = errors.New("base template not found")

// Document is a version manifest decoded from a template. Keys the generator
// does not touch are kept verbatim and written back out.
type Document struct {
	fields map[string]json.RawMessage

	id          string
	version     string
	time        string
	releaseTime string

	arguments map[string]json.RawMessage // nil when the template has none
	jvm       []json.RawMessage
	libraries []json.RawMessage

	// Key order of the template and of its arguments block.
	order    []string
	argOrder []string
}

// LoadTemplate reads, validates, and decodes the template at path.
func LoadTemplate(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrTemplateNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}

	result, err := ValidateTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("validating template %s: %w", path, err)
	}
	if !result.Valid {
		return nil, &SchemaError{File: path, Issues: result.Issues}
	}

	doc, err := ParseTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", path, err)
	}
	return doc, nil
}

// ParseTemplate decodes template bytes without schema validation.
func ParseTemplate(data []byte) (*Document, error) {
	d := &Document{}
	if err := json.Unmarshal(data, &d.fields); err != nil {
		return nil, err
	}
	if d.fields == nil {
		return nil, errors.New("template is not a JSON object")
	}
	order, err := objectKeys(data)
	if err != nil {
		return nil, err
	}
	d.order = order

	for key, dst := range map[string]*string{
		"id":          &d.id,
		"version":     &d.version,
		"time":        &d.time,
		"releaseTime": &d.releaseTime,
	} {
		if raw, ok := d.fields[key]; ok {
			if err := json.Unmarshal(raw, dst); err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
		}
	}

	if raw, ok := d.fields["libraries"]; ok {
		if err := json.Unmarshal(raw, &d.libraries); err != nil {
			return nil, fmt.Errorf("field \"libraries\": %w", err)
		}
	}

	if raw, ok := d.fields["arguments"]; ok {
		if err := json.Unmarshal(raw, &d.arguments); err != nil {
			return nil, fmt.Errorf("field \"arguments\": %w", err)
		}
		if d.arguments != nil {
			if d.argOrder, err = objectKeys(raw); err != nil {
				return nil, fmt.Errorf("field \"arguments\": %w", err)
			}
		}
		if jvm, ok := d.arguments["jvm"]; ok {
			if err := json.Unmarshal(jvm, &d.jvm); err != nil {
				return nil, fmt.Errorf("field \"arguments.jvm\": %w", err)
			}
		}
	}
	return d, nil
}

// ID returns the manifest id.
func (d *Document) ID() string { return d.id }

// Version returns the manifest version string.
func (d *Document) Version() string { return d.version }

// SetIdentity sets both the id and version fields to id.
func (d *Document) SetIdentity(id string) {
	d.id = id
	d.version = id
}

// SetTimes stamps the generation time and the source release time.
func (d *Document) SetTimes(generated, released time.Time) {
	d.time = generated.Format(time.RFC3339)
	d.releaseTime = released.Format(time.RFC3339)
}

// Time returns the generation timestamp.
func (d *Document) Time() string { return d.time }

// ReleaseTime returns the release timestamp.
func (d *Document) ReleaseTime() string { return d.releaseTime }

// JVMArgs returns the current arguments.jvm list.
func (d *Document) JVMArgs() []json.RawMessage { return d.jvm }

// PrependJVMArgs inserts args in front of arguments.jvm, creating the
// arguments block when the template has none.
func (d *Document) PrependJVMArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	prefix := make([]json.RawMessage, 0, len(args)+len(d.jvm))
	for _, a := range args {
		raw, err := marshal(a)
		if err != nil {
			return fmt.Errorf("encoding jvm argument %q: %w", a, err)
		}
		prefix = append(prefix, raw)
	}
	d.jvm = append(prefix, d.jvm...)
	if d.arguments == nil {
		d.arguments = make(map[string]json.RawMessage)
	}
	return nil
}

// Libraries returns the encoded library entries in order.
func (d *Document) Libraries() []json.RawMessage { return d.libraries }

// AppendLibraries encodes libs and appends them after the existing entries.
func (d *Document) AppendLibraries(libs ...Library) error {
	for _, lib := range libs {
		raw, err := marshal(lib)
		if err != nil {
			return fmt.Errorf("encoding library %s: %w", lib.Name, err)
		}
		d.libraries = append(d.libraries, raw)
	}
	return nil
}

// MarshalJSON merges the typed fields back over the preserved ones. Keys
// keep the template's order; keys the template lacked follow, sorted.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.fields)+4)
	for k, v := range d.fields {
		out[k] = v
	}

	for key, val := range map[string]string{
		"id":          d.id,
		"version":     d.version,
		"time":        d.time,
		"releaseTime": d.releaseTime,
	} {
		if val == "" {
			continue
		}
		raw, err := marshal(val)
		if err != nil {
			return nil, err
		}
		out[key] = raw
	}

	libs := d.libraries
	if libs == nil {
		libs = []json.RawMessage{}
	}
	raw, err := marshal(libs)
	if err != nil {
		return nil, err
	}
	out["libraries"] = raw

	if d.arguments != nil {
		args := make(map[string]json.RawMessage, len(d.arguments)+1)
		for k, v := range d.arguments {
			args[k] = v
		}
		if d.jvm != nil {
			jvm, err := marshal(d.jvm)
			if err != nil {
				return nil, err
			}
			args["jvm"] = jvm
		}
		raw, err := encodeObject(d.argOrder, args)
		if err != nil {
			return nil, err
		}
		out["arguments"] = raw
	}

	return encodeObject(d.order, out)
}

// marshal encodes v without HTML escaping so URLs keep their "&".
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
