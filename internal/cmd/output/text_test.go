package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakePrinter records calls and fails on a chosen item.
type fakePrinter[T comparable] struct {
	headerCount int
	footerCount int
	items       []T
	failOn      *T
}

func (p *fakePrinter[T]) Header(w io.Writer, count int) {
	p.headerCount = count
	_, _ = io.WriteString(w, "HEADER\n")
}

func (p *fakePrinter[T]) SetHeader(WriteFunc[T]) {}

func (p *fakePrinter[T]) Item(w io.Writer, item T) error {
	p.items = append(p.items, item)
	_, _ = fmt.Fprintf(w, "ITEM:%v\n", item)

	if p.failOn != nil && *p.failOn == item {
		return errors.New("item error")
	}
	return nil
}

func (p *fakePrinter[T]) Footer(w io.Writer, count int) {
	p.footerCount = count
	_, _ = io.WriteString(w, "FOOTER\n")
}

func (p *fakePrinter[T]) SetFooter(WriteFunc[T]) {}

func TestTextHandler_HandleResult(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	p := &fakePrinter[int]{}
	h := NewTextHandler[int](buf, p)
	require.Equal(t, buf, h.Writer())

	require.NoError(t, h.HandleResult(7))
	require.Equal(t, "HEADER\nITEM:7\nFOOTER\n", buf.String())
	require.Equal(t, 1, p.headerCount)
	require.Equal(t, 1, p.footerCount)
	require.Equal(t, []int{7}, p.items)
}

func TestTextHandler_HandleResult_ItemError(t *testing.T) {
	t.Parallel()

	failOn := 2
	p := &fakePrinter[int]{failOn: &failOn}

	buf := &bytes.Buffer{}
	err := NewTextHandler[int](buf, p).HandleResult(2)
	require.EqualError(t, err, "item error")
	require.Zero(t, p.footerCount)
	require.NotContains(t, buf.String(), "FOOTER")
}

func TestTextHandler_HandleError(t *testing.T) {
	t.Parallel()

	err := NewTextHandler[int](nil, &fakePrinter[int]{}).HandleError(errors.New("test failure"))
	require.EqualError(t, err, "test failure")
}
