package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"dentalcare/internal/metrics"
)

// Role tags a displayed message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Renderer is the passive presentation collaborator. The engine only
// issues display commands; it never reads anything back.
type Renderer interface {
	DisplayMessage(role Role, text string)
	OfferChoices(labels []string)
	SetStatus(text string)
	ShowCalendarLink(url string)
	HideCalendarLink()
}

// Submitter hands a completed record to the remote endpoint. Any
// returned error, application-level or transport-level, is a failed
// verdict; the two are not distinguished to the user.
type Submitter interface {
	Submit(ctx context.Context, rec Record, now time.Time) error
}

// LinkBuilder turns a confirmed record into a calendar event URL.
type LinkBuilder interface {
	EventURL(rec Record) (string, error)
}

// Pacing holds the cosmetic delays of the dialog. Zero values make the
// engine fully synchronous, which is what the tests use.
type Pacing struct {
	// Typing is the pause before each bot reply.
	Typing time.Duration
	// Reset is the pause between a successful submission and the
	// post-reset follow-up prompt.
	Reset time.Duration
}

// Engine drives the dialog: it runs the transition for each utterance,
// renders the reply and executes the requested side effects.
type Engine struct {
	handler   *Handler
	store     Store
	submitter Submitter
	links     LinkBuilder
	pacing    Pacing
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEngine wires the engine with its collaborators.
func NewEngine(store Store, submitter Submitter, links LinkBuilder, pacing Pacing, logger zerolog.Logger) *Engine {
	return &Engine{
		handler:   NewHandler(),
		store:     store,
		submitter: submitter,
		links:     links,
		pacing:    pacing,
		logger:    logger,
		now:       time.Now,
	}
}

// Greet sends the opening bot message for a fresh session.
func (e *Engine) Greet(r Renderer) {
	r.DisplayMessage(RoleBot, msgGreeting)
	r.OfferChoices(choicesHelpMenu)
}

// HandleUtterance is the single inbound operation: it processes one
// user turn to completion. Empty input is ignored.
func (e *Engine) HandleUtterance(ctx context.Context, s *Session, r Renderer, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	r.DisplayMessage(RoleUser, text)
	if err := e.pause(ctx, e.pacing.Typing); err != nil {
		return err
	}

	rep := e.handler.HandleInput(s, text)
	metrics.IncTurn(string(rep.Stage))
	e.render(r, rep)

	if rep.Effect == EffectSubmit {
		if err := e.submit(ctx, s, r); err != nil {
			return err
		}
	}

	if err := e.store.Save(s); err != nil {
		e.logger.Error().Err(err).Str("session", s.ID).Msg("failed to save session")
		return err
	}
	return nil
}

func (e *Engine) render(r Renderer, rep Reply) {
	for _, m := range rep.Messages {
		r.DisplayMessage(RoleBot, m)
	}
	if len(rep.Choices) > 0 {
		r.OfferChoices(rep.Choices)
	}
}

// submit runs the submission flow: advisory status, the outbound call,
// and on success the calendar link, celebration and soft reset. On any
// failure the session stays in confirm with the record intact, so "yes"
// can resubmit without re-collecting fields.
func (e *Engine) submit(ctx context.Context, s *Session, r Renderer) error {
	r.SetStatus(statusProcessing)
	rec := s.Snapshot()

	if err := e.submitter.Submit(ctx, rec, e.now()); err != nil {
		metrics.IncSubmission("failure")
		e.logger.Warn().Err(err).Str("session", s.ID).Msg("appointment submission failed")
		r.SetStatus(statusSubmitError)
		r.DisplayMessage(RoleBot, msgSubmitFailed)
		r.OfferChoices(choicesRetry)
		return nil
	}

	metrics.IncSubmission("success")
	r.SetStatus(statusConfirmed)

	if url, err := e.links.EventURL(rec); err != nil {
		// The collected time was free text; if it is not H:MM AM/PM we
		// surface the problem instead of silently dropping the link.
		e.logger.Warn().Err(err).Str("session", s.ID).Msg("calendar link not built")
	} else {
		r.ShowCalendarLink(url)
	}

	r.DisplayMessage(RoleBot, msgSubmitSuccess)
	s.SoftReset()

	if err := e.pause(ctx, e.pacing.Reset); err != nil {
		return err
	}
	r.HideCalendarLink()
	r.DisplayMessage(RoleBot, msgClosing)
	r.OfferChoices(choicesClosing)
	return nil
}

func (e *Engine) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
