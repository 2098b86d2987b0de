package highlight

import (
	"log/slog"
	"strings"

	"github.com/docsift/docsift/core"
)

// State identifies where the highlighting subsystem is in its lifecycle.
type State int

const (
	// StateNoDocument means no document text is loaded.
	StateNoDocument State = iota
	// StateDocumentLoaded means a document is loaded and rendered plain.
	StateDocumentLoaded
	// StateHighlighted means offset-based highlight ranges are applied.
	StateHighlighted
	// StateHighlightedFallback means substring-based ranges are applied.
	StateHighlightedFallback
)

func (s State) String() string {
	switch s {
	case StateNoDocument:
		return "NoDocument"
	case StateDocumentLoaded:
		return "DocumentLoaded"
	case StateHighlighted:
		return "Highlighted"
	case StateHighlightedFallback:
		return "HighlightedFallback"
	default:
		return "Unknown"
	}
}

// Session owns the current document text and highlight state. Each search
// response fully replaces prior highlight state; request tokens issued by
// Begin let the session discard responses that arrive after a newer request
// or after the document changed.
//
// Session is not safe for concurrent use. It models a single logical thread
// of control, with one active document at a time.
type Session struct {
	text   string
	state  State
	ranges []Range
	token  uint64
	logger *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewSession creates a session with no document loaded.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		state:  StateNoDocument,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Text returns the current document text.
func (s *Session) Text() string {
	return s.text
}

// Ranges returns the current merged range list. Empty when the document is
// rendered plain.
func (s *Session) Ranges() []Range {
	return s.ranges
}

// Reset installs new document text, discards prior highlight state, and
// invalidates any in-flight request tokens.
func (s *Session) Reset(text string) {
	s.text = text
	s.ranges = nil
	s.state = StateDocumentLoaded
	s.token++
}

// Clear discards the document and all highlight state, returning the
// session to NoDocument. In-flight request tokens are invalidated.
func (s *Session) Clear() {
	s.text = ""
	s.ranges = nil
	s.state = StateNoDocument
	s.token++
}

// Begin issues a request token for an upcoming search. Only the most
// recently issued token is accepted by Update.
func (s *Session) Begin() uint64 {
	s.token++
	return s.token
}

// Update applies a search response and returns the rendered markup. The
// boolean is false when the response was discarded: a stale token, or no
// document loaded. Zero matches revert the document to plain rendering;
// matches that yield no usable offsets fall back to substring highlighting
// against the query.
func (s *Session) Update(token uint64, query string, matches []core.Match) (string, bool) {
	if token != s.token {
		s.logger.Debug("discarding stale search response", "token", token, "latest", s.token)
		return "", false
	}
	if s.state == StateNoDocument {
		return "", false
	}

	if ranges := Merge(BuildRanges(s.text, matches)); len(ranges) > 0 {
		s.ranges = ranges
		s.state = StateHighlighted
		return RenderHTML(s.text, ranges), true
	}

	if len(matches) > 0 && strings.TrimSpace(query) != "" {
		if ranges := Merge(FallbackRanges(s.text, query)); len(ranges) > 0 {
			s.ranges = ranges
			s.state = StateHighlightedFallback
			return RenderHTML(s.text, ranges), true
		}
	}

	// Zero matches, or nothing the fallback could find: plain re-render.
	s.ranges = nil
	s.state = StateDocumentLoaded
	return RenderHTML(s.text, nil), true
}

// Render re-renders the current state without consuming a token.
func (s *Session) Render() string {
	if s.state == StateNoDocument {
		return ""
	}
	return RenderHTML(s.text, s.ranges)
}
