package arff

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/gustavo-munhoz/rivu/core"
)

// Stream reads instances from an ARFF file, one data row at a time,
// exposing the usual Header/HasMore/Next/Restart stream surface. A
// malformed data row is logged and skipped rather than aborting the
// whole stream.
type Stream struct {
	path       string
	classIndex int
	log        zerolog.Logger

	f      *os.File
	r      *bufio.Reader
	header *core.InstanceHeader
	next   *core.VectorInstance
	done   bool
}

// Option configures a Stream at construction time.
type Option func(*Stream)

// WithClassIndex overrides the default "last attribute is the class"
// convention.
func WithClassIndex(i int) Option { return func(s *Stream) { s.classIndex = i } }

// WithLogger attaches a zerolog.Logger used to report skipped rows.
func WithLogger(log zerolog.Logger) Option { return func(s *Stream) { s.log = log } }

// Open opens the ARFF file at path and parses its header. The returned
// Stream must be closed by the caller to release the underlying file
// descriptor; Restart closes it and opens a fresh one.
func Open(path string, opts ...Option) (*Stream, error) {
	s := &Stream{path: path, classIndex: -1, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stream) open() error {
	f, err := os.Open(s.path)
	if err != nil {
		return errors.Wrapf(err, "opening ARFF file %s", s.path)
	}
	r := bufio.NewReader(f)
	header, err := ParseHeader(r, s.classIndex)
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "parsing ARFF header of %s", s.path)
	}
	s.f = f
	s.r = r
	s.header = header
	s.done = false
	s.next = nil
	return nil
}

// Header implements the stream contract.
func (s *Stream) Header() *core.InstanceHeader { return s.header }

// Close releases the underlying file descriptor.
func (s *Stream) Close() error {
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}

// Restart rewinds the stream to the first data row, re-parsing the header
// (cheap: ARFF headers are small relative to data).
func (s *Stream) Restart() error {
	if s.f != nil {
		s.f.Close()
	}
	return s.open()
}

// HasMore implements the stream contract, pre-fetching the next valid
// instance so callers can check availability before calling Next.
func (s *Stream) HasMore() bool {
	if s.done {
		return false
	}
	if s.next != nil {
		return true
	}
	s.next = s.fetchNext()
	return s.next != nil
}

// Next implements the stream contract.
func (s *Stream) Next() (core.Instance, bool) {
	if s.next == nil {
		s.next = s.fetchNext()
	}
	if s.next == nil {
		return nil, false
	}
	inst := s.next
	s.next = nil
	return inst, true
}

func (s *Stream) fetchNext() *core.VectorInstance {
	for {
		line, err := s.r.ReadString('\n')
		if line == "" {
			if err != nil {
				s.done = true
				if err != io.EOF {
					s.log.Error().Err(err).Str("path", s.path).Msg("ARFF read error")
				}
			}
			return nil
		}
		if isCommentOrEmpty(line) {
			continue
		}

		values, perr := ParseInstanceValues(s.header, line, s.log)
		if perr != nil {
			s.log.Warn().Err(perr).Str("path", s.path).Msg("skipping malformed ARFF row")
			continue
		}

		return &core.VectorInstance{Header: s.header, Values: values, W: 1.0}
	}
}
