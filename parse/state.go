package parse

import (
	"github.com/napalu/cmdspec/internal/util"
	"github.com/napalu/cmdspec/types/queue"
)

// State represents the token stream consumed by the matcher. Tokens are consumed from the
// head; a consumer may put tokens back at the head (for instance the unconsumed remainder
// of a cluster of short options).
type State interface {
	Pos() int                  // Get the number of tokens consumed so far
	Args() []string            // Get the original argument list
	CurrentArg() string        // Get the most recently consumed argument
	Peek() (string, bool)      // Peek at the next argument without consuming it
	Advance() bool             // Consume the next argument, making it current
	InsertArgs(args ...string) // Put arguments back at the head of the stream
	Remaining() []string       // Consume and return every argument left in the stream
	Len() int                  // Gets the number of arguments left in the stream
}

// DefaultState is the default implementation of the State interface
type DefaultState struct {
	pos     int
	current string
	args    []string
	pending *queue.Q[string]
}

// NewState creates a new State instance with the given argument list
func NewState(args []string) State {
	return &DefaultState{
		args:    util.Clone(args),
		pending: queue.New(args...),
	}
}

// Pos returns the number of arguments consumed so far
func (s *DefaultState) Pos() int {
	return s.pos
}

// Args returns the original argument list
func (s *DefaultState) Args() []string {
	return util.Clone(s.args)
}

// CurrentArg returns the most recently consumed argument
func (s *DefaultState) CurrentArg() string {
	return s.current
}

// Peek returns the next argument without advancing
func (s *DefaultState) Peek() (string, bool) {
	return s.pending.Front()
}

// Advance consumes the next argument, returning true if successful
func (s *DefaultState) Advance() bool {
	arg, ok := s.pending.Dequeue()
	if !ok {
		return false
	}
	s.current = arg
	s.pos++
	return true
}

// InsertArgs puts arguments back at the head of the stream, in order
func (s *DefaultState) InsertArgs(args ...string) {
	s.pending.PushFront(args...)
	s.pos -= len(args)
	if s.pos < 0 {
		s.pos = 0
	}
}

// Remaining drains the stream
func (s *DefaultState) Remaining() []string {
	rest := s.pending.Drain()
	s.pos += len(rest)
	return rest
}

// Len returns the number of arguments not yet consumed
func (s *DefaultState) Len() int {
	return s.pending.Len()
}
