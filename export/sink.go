package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/c360studio/semstreams/message"
)

// Stdout is the output path that selects standard output.
const Stdout = "-"

// FileSink appends serialized batches to one output. Opening the sink
// truncates the file, so each run starts a fresh document.
type FileSink struct {
	ser *Serializer

	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
}

// OpenFile creates or truncates path and writes the document header. The
// path "-" writes to standard output, which is never closed.
func OpenFile(path string, ser *Serializer) (*FileSink, error) {
	s := &FileSink{ser: ser}
	if path == Stdout {
		s.w = bufio.NewWriter(os.Stdout)
	} else {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open output %s: %w", path, err)
		}
		s.closer = f
		s.w = bufio.NewWriter(f)
	}
	if err := ser.WriteHeader(s.w); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return s, nil
}

// NewWriterSink serializes into an arbitrary writer. It is closed with the
// sink when it implements io.Closer.
func NewWriterSink(w io.Writer, ser *Serializer) (*FileSink, error) {
	s := &FileSink{ser: ser, w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	if err := ser.WriteHeader(s.w); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return s, nil
}

// Write appends one batch and flushes it to the underlying writer.
func (s *FileSink) Write(ctx context.Context, triples []message.Triple) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w == nil {
		return os.ErrClosed
	}
	if err := s.ser.Write(s.w, triples); err != nil {
		return fmt.Errorf("serialize %d triples: %w", len(triples), err)
	}
	return s.w.Flush()
}

// Close flushes buffered output and closes the file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w == nil {
		return nil
	}
	err := s.w.Flush()
	s.w = nil
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
