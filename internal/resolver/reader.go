package resolver

import (
	"bufio"
	"io"
	"os"
)

// Reader supplies operator answers, one line per prompt.
type Reader interface {
	ReadString(delim byte) (string, error)
}

// StdinReader reads answers from the terminal.
type StdinReader struct {
	reader *bufio.Reader
}

// NewStdinReader creates a Reader over os.Stdin.
func NewStdinReader() *StdinReader {
	return &StdinReader{
		reader: bufio.NewReader(os.Stdin),
	}
}

// ReadString reads until delimiter
func (r *StdinReader) ReadString(delim byte) (string, error) {
	return r.reader.ReadString(delim)
}

// StringReader replays scripted answers in tests. Each answer must carry
// its own delimiter ("yes\n"); an exhausted script reads as io.EOF, which
// is how a closed stdin looks to the resolver.
type StringReader struct {
	answers []string
	next    int
}

// NewStringReader creates a reader replaying the given answers in order.
func NewStringReader(answers ...string) *StringReader {
	return &StringReader{answers: answers}
}

// ReadString returns the next scripted answer. The delim parameter is
// ignored; answers already include their delimiters.
func (r *StringReader) ReadString(delim byte) (string, error) {
	if r.next >= len(r.answers) {
		return "", io.EOF
	}
	answer := r.answers[r.next]
	r.next++
	return answer, nil
}
