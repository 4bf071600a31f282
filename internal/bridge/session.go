package bridge

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dshills/jsonbridge/internal/editor"
	"github.com/dshills/jsonbridge/internal/protocol"
)

// Session ties one editing session together: it owns the diagnostic
// channel, the debounced validator with its pending-handle map, and the
// capability adapters. All previously ambient state lives here, so two
// sessions never share mutable state.
type Session struct {
	mu     sync.Mutex
	id     string
	closed bool

	engine    LanguageService
	channel   *DiagnosticChannel
	validator *Validator

	completion *CompletionAdapter
	hover      *HoverAdapter
	symbols    *SymbolsAdapter
	formatting *FormattingAdapter
}

// SessionOption configures a session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	owner       string
	delay       time.Duration
	timeout     time.Duration
	fmtDefaults protocol.FormattingOptions
}

// WithOwner sets the diagnostic channel's owner name.
func WithOwner(owner string) SessionOption {
	return func(c *sessionConfig) {
		c.owner = owner
	}
}

// WithValidationDelay sets the validator's debounce delay.
func WithValidationDelay(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.delay = d
	}
}

// WithValidationTimeout bounds a single validation pass.
func WithValidationTimeout(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.timeout = d
	}
}

// WithFormattingDefaults sets defaults for formatting options the editor
// does not expose.
func WithFormattingDefaults(opts protocol.FormattingOptions) SessionOption {
	return func(c *sessionConfig) {
		c.fmtDefaults = opts
	}
}

// NewSession creates a session bridging one editing surface to the
// engine, publishing diagnostics through the given publisher.
func NewSession(engine LanguageService, publisher editor.MarkerPublisher, opts ...SessionOption) *Session {
	cfg := sessionConfig{
		owner:       "json",
		delay:       DefaultDebounceDelay,
		timeout:     defaultValidateTimeout,
		fmtDefaults: DefaultFormattingOptions,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	channel := NewDiagnosticChannel(cfg.owner, publisher)
	s := &Session{
		id:      uuid.NewString(),
		engine:  engine,
		channel: channel,
		validator: NewValidator(engine, channel,
			WithDebounceDelay(cfg.delay),
			WithValidateTimeout(cfg.timeout)),
		completion: NewCompletionAdapter(engine),
		hover:      NewHoverAdapter(engine),
		symbols:    NewSymbolsAdapter(engine),
		formatting: NewFormattingAdapter(engine, cfg.fmtDefaults),
	}

	log.Debug().Str("session", s.id).Str("owner", cfg.owner).Msg("session: created")
	return s
}

// ID returns the session's identifier, used in logs.
func (s *Session) ID() string {
	return s.id
}

// Attach registers the buffer's content-change events with the
// validator and schedules an initial validation pass.
func (s *Session) Attach(buf *editor.Buffer) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	buf.OnDidChangeContent(func() {
		s.validator.DocumentChanged(buf)
	})
	s.validator.DocumentChanged(buf)

	log.Debug().Str("session", s.id).Str("uri", buf.URI()).Msg("session: attached document")
	return nil
}

// DidChange notifies the validator of a mutation to a document that is
// not wired through Attach.
func (s *Session) DidChange(doc editor.Document) {
	s.validator.DocumentChanged(doc)
}

// Flush runs any pending validation for the document immediately.
func (s *Session) Flush(doc editor.Document) {
	s.validator.Flush(doc)
}

// Completion returns the completion adapter.
func (s *Session) Completion() *CompletionAdapter {
	return s.completion
}

// Hover returns the hover adapter.
func (s *Session) Hover() *HoverAdapter {
	return s.hover
}

// Symbols returns the symbols adapter.
func (s *Session) Symbols() *SymbolsAdapter {
	return s.symbols
}

// Formatting returns the formatting adapter.
func (s *Session) Formatting() *FormattingAdapter {
	return s.formatting
}

// Diagnostics returns the session's diagnostic channel.
func (s *Session) Diagnostics() *DiagnosticChannel {
	return s.channel
}

// Close cancels pending validations and clears published diagnostics.
// The session must not be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.validator.CancelAll()
	s.channel.Clear()
	log.Debug().Str("session", s.id).Msg("session: closed")
}
