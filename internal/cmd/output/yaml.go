package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLHandler writes reports and errors as YAML documents, honoring struct tags.
type YAMLHandler[T any] struct {
	document[T]
}

// NewYAMLHandler returns a YAMLHandler indenting nested nodes by indentSpaces.
func NewYAMLHandler[T any](w io.Writer, indentSpaces int) *YAMLHandler[T] {
	return &YAMLHandler[T]{document[T]{
		out: w,
		encode: func(v any) error {
			enc := yaml.NewEncoder(w)
			// Close flushes the buffered document.
			defer func() { _ = enc.Close() }()

			enc.SetIndent(indentSpaces)
			return enc.Encode(v)
		},
	}}
}
