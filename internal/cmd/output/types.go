package output

import "io"

// Handler renders the single report a command produces, or the error that stopped it.
type Handler[T any] interface {
	// Writer returns the io.Writer this Handler will write to.
	Writer() io.Writer

	// HandleResult renders the report.
	HandleResult(item T) error

	// HandleError renders err in place of a report.
	HandleError(err error) error
}

// WriteFunc writes a banner above or below a rendered report.
// count is the number of reports being rendered.
type WriteFunc[T any] func(w io.Writer, count int)

// Printer renders a report as human-readable text.
type Printer[T any] interface {
	// Header is written once, before Item.
	Header(w io.Writer, count int)

	// SetHeader replaces the default header. A nil fn suppresses it.
	SetHeader(fn WriteFunc[T])

	// Item writes the body of the report.
	Item(w io.Writer, elem T) error

	// Footer is written once, after Item.
	Footer(w io.Writer, count int)

	// SetFooter replaces the default footer. A nil fn suppresses it.
	SetFooter(fn WriteFunc[T])
}

// ResultPayload is the document a report is rendered as, under the key "result".
type ResultPayload[T any] struct {
	Result T `json:"result" yaml:"result"`
}

// ErrorPayload is the document an error is rendered as, under the key "error".
type ErrorPayload struct {
	Error string `json:"error" yaml:"error"`
}

// document renders reports and errors as structured documents through encode.
type document[T any] struct {
	out    io.Writer
	encode func(v any) error
}

// Writer returns the underlying io.Writer documents are written to.
func (d document[T]) Writer() io.Writer {
	return d.out
}

// HandleResult encodes item under a "result" key.
func (d document[T]) HandleResult(item T) error {
	return d.encode(ResultPayload[T]{Result: item})
}

// HandleError encodes the error message under an "error" key.
func (d document[T]) HandleError(err error) error {
	return d.encode(ErrorPayload{Error: err.Error()})
}
