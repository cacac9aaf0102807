package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"
)

// JQHandler writes JSON like JSONHandler, after passing the payload through a jq filter.
// Each value produced by the filter is written as its own JSON document.
type JQHandler[T any] struct {
	document[T]
	indent string
	code   *gojq.Code
}

// NewJQHandler compiles query and returns a handler applying it.
func NewJQHandler[T any](w io.Writer, indentSpaces int, query string) (*JQHandler[T], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("jq filter cannot be empty")
	}

	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("invalid jq filter '%s': %w", query, err)
	}

	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("invalid jq filter '%s': %w", query, err)
	}

	h := &JQHandler[T]{
		indent: strings.Repeat(" ", indentSpaces),
		code:   code,
	}
	h.document = document[T]{out: w, encode: h.run}

	return h, nil
}

// run filters payload and writes every value the filter emits.
func (h *JQHandler[T]) run(payload any) error {
	input, err := toGeneric(payload)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(h.out)
	enc.SetIndent("", h.indent)

	iter := h.code.RunWithContext(context.Background(), input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}

		if err, isErr := v.(error); isErr {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				return nil
			}
			return fmt.Errorf("jq filter failed: %w", err)
		}

		if err := enc.Encode(v); err != nil {
			return err
		}
	}
}

// toGeneric converts v to the map/slice form gojq operates on, honoring JSON struct tags.
func toGeneric(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	return out, nil
}
