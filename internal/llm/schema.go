package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is the JSON shape a reply must take. Share schemas by pointer;
// the compiled form is built on first use.
type Schema struct {
	// Name is kebab-case, e.g. "question-explanation". OpenAI uses it as
	// the response format name.
	Name        string
	Description string
	Definition  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// Validate checks raw against the schema. A nil schema accepts anything.
func (s *Schema) Validate(raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	compiled, err := s.compile()
	if err != nil {
		return invalidOutput(raw, "compile schema %q: %w", s.Name, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalidOutput(raw, "reply is not JSON: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		return invalidOutput(raw, "reply does not match %q: %w", s.Name, err)
	}
	return nil
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		// The compiler wants decoded JSON values, not Go maps of arbitrary
		// types, so round-trip the definition.
		def, err := json.Marshal(s.Definition)
		if err != nil {
			s.err = err
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
		if err != nil {
			s.err = err
			return
		}

		url := fmt.Sprintf("mem://%s.json", s.Name)
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, doc); err != nil {
			s.err = err
			return
		}
		s.compiled, s.err = c.Compile(url)
	})
	return s.compiled, s.err
}
