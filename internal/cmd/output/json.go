package output

import (
	"encoding/json"
	"io"
	"strings"
)

// JSONHandler writes reports and errors as indented JSON documents, honoring struct tags.
type JSONHandler[T any] struct {
	document[T]
}

func NewJSONHandler[T any](w io.Writer, indentSpaces int) *JSONHandler[T] {
	indent := strings.Repeat(" ", indentSpaces)

	return &JSONHandler[T]{document[T]{
		out: w,
		encode: func(v any) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", indent)
			return enc.Encode(v)
		},
	}}
}
