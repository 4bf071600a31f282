package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dshills/jsonbridge/internal/editor"
)

// DefaultDebounceDelay is how long the validator waits after the last
// buffer mutation before running a validation pass. The delay coalesces
// rapid keystrokes into a single pass.
const DefaultDebounceDelay = 300 * time.Millisecond

// defaultValidateTimeout bounds a single validation pass, including any
// schema retrieval the engine performs.
const defaultValidateTimeout = 10 * time.Second

// Validator schedules a validation pass after each buffer mutation. Per
// URI it is a two-state machine, idle or pending: a mutation while
// pending cancels the existing timer and re-schedules, so only the last
// mutation in a burst triggers a pass. Each pass is stamped with a
// monotonic version; a pass that finishes after a newer one was
// scheduled for the same URI discards its result instead of publishing,
// so the visible diagnostics always correspond to the newest scheduled
// pass.
type Validator struct {
	mu      sync.Mutex
	engine  LanguageService
	channel *DiagnosticChannel

	delay   time.Duration
	timeout time.Duration

	// At most one pending timer exists per URI.
	pending  map[string]*time.Timer
	versions map[string]int64
	nextVer  int64
}

// ValidatorOption configures the validator.
type ValidatorOption func(*Validator)

// WithDebounceDelay sets the quiescence delay before validation runs.
func WithDebounceDelay(d time.Duration) ValidatorOption {
	return func(v *Validator) {
		v.delay = d
	}
}

// WithValidateTimeout bounds the duration of a single validation pass.
func WithValidateTimeout(d time.Duration) ValidatorOption {
	return func(v *Validator) {
		v.timeout = d
	}
}

// NewValidator creates a validator publishing through the given channel.
func NewValidator(engine LanguageService, channel *DiagnosticChannel, opts ...ValidatorOption) *Validator {
	v := &Validator{
		engine:   engine,
		channel:  channel,
		delay:    DefaultDebounceDelay,
		timeout:  defaultValidateTimeout,
		pending:  make(map[string]*time.Timer),
		versions: make(map[string]int64),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// DocumentChanged schedules a validation pass for the document after the
// debounce delay, superseding any pass still pending for the same URI.
func (v *Validator) DocumentChanged(doc editor.Document) {
	uri := doc.URI()

	v.mu.Lock()
	defer v.mu.Unlock()

	if timer, ok := v.pending[uri]; ok {
		timer.Stop()
	}

	v.nextVer++
	version := v.nextVer
	v.versions[uri] = version

	v.pending[uri] = time.AfterFunc(v.delay, func() {
		v.mu.Lock()
		delete(v.pending, uri)
		v.mu.Unlock()

		v.validate(doc, version)
	})
}

// CancelPending cancels a pending validation for a URI, if any. It does
// not affect other URIs.
func (v *Validator) CancelPending(uri string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if timer, ok := v.pending[uri]; ok {
		timer.Stop()
		delete(v.pending, uri)
	}
}

// CancelAll cancels every pending validation.
func (v *Validator) CancelAll() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for uri, timer := range v.pending {
		timer.Stop()
		delete(v.pending, uri)
	}
}

// Flush runs a pending validation for the document immediately instead
// of waiting out the debounce delay. No-op when nothing is pending.
func (v *Validator) Flush(doc editor.Document) {
	uri := doc.URI()

	v.mu.Lock()
	timer, ok := v.pending[uri]
	if ok {
		timer.Stop()
		delete(v.pending, uri)
	}
	version := v.versions[uri]
	v.mu.Unlock()

	if ok {
		v.validate(doc, version)
	}
}

// HasPending reports whether a validation is pending for the URI.
func (v *Validator) HasPending(uri string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	_, ok := v.pending[uri]
	return ok
}

// validate runs one validation pass. It builds a fresh snapshot, skips
// the engine entirely for empty documents, and publishes the converted
// diagnostics unless a newer pass was scheduled for the URI meanwhile.
func (v *Validator) validate(doc editor.Document, version int64) {
	snapshot := BuildSnapshot(doc)
	uri := string(snapshot.URI)

	// Empty documents are never reported as invalid.
	if len(snapshot.Text) == 0 {
		v.channel.Clear()
		log.Debug().Str("uri", uri).Msg("validate: empty document, cleared diagnostics")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	parsed, err := v.engine.ParseDocument(ctx, snapshot)
	if err != nil {
		log.Warn().Err(err).Str("uri", uri).Msg("validate: parse failed")
		return
	}

	diagnostics, err := v.engine.Validate(ctx, snapshot, parsed)
	if err != nil {
		log.Warn().Err(err).Str("uri", uri).Msg("validate: engine failed")
		return
	}

	markers, err := ToEditorMarkers(ctx, diagnostics)
	if err != nil {
		log.Warn().Err(err).Str("uri", uri).Msg("validate: conversion failed")
		return
	}

	if v.stale(uri, version) {
		log.Debug().Str("uri", uri).Int64("version", version).Msg("validate: superseded, discarding result")
		return
	}

	v.channel.Set(uri, markers)
	log.Debug().Str("uri", uri).Int("diagnostics", len(markers)).Msg("validate: published")
}

// stale reports whether a newer pass was scheduled for the URI since the
// pass with the given version started.
func (v *Validator) stale(uri string, version int64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.versions[uri] != version
}
