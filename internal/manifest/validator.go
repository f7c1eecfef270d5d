package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	//go:embed schema/version.schema.json
	versionSchemaBytes []byte
	//go:embed schema/patch.schema.json
	patchSchemaBytes []byte

	printer = message.NewPrinter(language.English)

	versionSchema = &lazySchema{name: "version.schema.json", src: versionSchemaBytes}
	patchSchema   = &lazySchema{name: "patch.schema.json", src: patchSchemaBytes}
)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single validation error from the schema.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/libraries/3/name")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed
}

// SchemaError is returned by loaders when a document fails validation.
type SchemaError struct {
	File   string
	Issues []ValidationIssue
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s does not match the expected schema", e.File)
	for _, issue := range e.Issues {
		fmt.Fprintf(&b, "\n  %s: %s", orRoot(issue.Path), issue.Message)
	}
	return b.String()
}

func orRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

// lazySchema compiles an embedded schema on first use.
type lazySchema struct {
	name   string
	src    []byte
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

func (l *lazySchema) get() (*jsonschema.Schema, error) {
	l.once.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(l.src))
		if err != nil {
			l.err = fmt.Errorf("unmarshaling schema %s: %w", l.name, err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(l.name, doc); err != nil {
			l.err = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		l.schema, l.err = c.Compile(l.name)
		if l.err != nil {
			l.err = fmt.Errorf("compiling schema %s: %w", l.name, l.err)
		}
	})
	return l.schema, l.err
}

// ValidateTemplate validates a version manifest template.
// The error return is for malformed JSON or schema compilation failures.
func ValidateTemplate(data []byte) (*ValidationResult, error) {
	return validate(versionSchema, data)
}

// ValidatePatch validates a patch document.
func ValidatePatch(data []byte) (*ValidationResult, error) {
	return validate(patchSchema, data)
}

func validate(ls *lazySchema, data []byte) (*ValidationResult, error) {
	schema, err := ls.get()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	return &ValidationResult{
		Valid:  false,
		Issues: extractIssues(validationErr),
	}, nil
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return deduplicateIssues(issues)
}

// collectValidationIssues recursively walks the error tree to find leaf errors
// with specific property information.
func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		msg := ""
		if ve.ErrorKind != nil {
			if kwPath := ve.ErrorKind.KeywordPath(); len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Container keywords only say "a branch failed"; the branch errors carry the detail.
		if keyword == "anyOf" || keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{
			Path:    path,
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

// deduplicateIssues removes duplicate issues (same path + keyword + message).
func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}
