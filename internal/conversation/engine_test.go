package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer records every command the engine issues.
type fakeRenderer struct {
	messages []string // "role: text"
	choices  [][]string
	statuses []string
	shown    []string
	hidden   int
}

func (r *fakeRenderer) DisplayMessage(role Role, text string) {
	r.messages = append(r.messages, string(role)+": "+text)
}
func (r *fakeRenderer) OfferChoices(labels []string) { r.choices = append(r.choices, labels) }
func (r *fakeRenderer) SetStatus(text string)        { r.statuses = append(r.statuses, text) }
func (r *fakeRenderer) ShowCalendarLink(url string)  { r.shown = append(r.shown, url) }
func (r *fakeRenderer) HideCalendarLink()            { r.hidden++ }

func (r *fakeRenderer) lastBot() string {
	for i := len(r.messages) - 1; i >= 0; i-- {
		if len(r.messages[i]) > 4 && r.messages[i][:4] == "bot:" {
			return r.messages[i][5:]
		}
	}
	return ""
}

type fakeSubmitter struct {
	err   error
	calls []Record
	times []time.Time
}

func (f *fakeSubmitter) Submit(_ context.Context, rec Record, now time.Time) error {
	f.calls = append(f.calls, rec)
	f.times = append(f.times, now)
	return f.err
}

type fakeLinks struct {
	url string
	err error
}

func (f *fakeLinks) EventURL(Record) (string, error) { return f.url, f.err }

func newTestEngine(sub *fakeSubmitter, links *fakeLinks) (*Engine, *MemoryStore) {
	store := NewMemoryStore(time.Minute)
	e := NewEngine(store, sub, links, Pacing{}, zerolog.Nop())
	return e, store
}

func collectRecord(t *testing.T, e *Engine, s *Session, r Renderer) {
	t.Helper()
	ctx := context.Background()
	for _, utterance := range []string{
		"I'd like to schedule an appointment",
		"cleaning",
		"12/25/2025",
		"2:30 PM",
		"Jane Doe",
		"555-1234",
		"jane@example.com",
	} {
		require.NoError(t, e.HandleUtterance(ctx, s, r, utterance))
	}
	require.Equal(t, StageConfirm, s.CurrentStage())
}

func TestEngineSubmitSuccess(t *testing.T) {
	sub := &fakeSubmitter{}
	links := &fakeLinks{url: "https://calendar.example/evt"}
	e, _ := newTestEngine(sub, links)

	fixed := time.Date(2025, 12, 1, 10, 30, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	s := NewSession("t")
	out := &fakeRenderer{}
	collectRecord(t, e, s, out)

	require.NoError(t, e.HandleUtterance(context.Background(), s, out, "yes"))

	require.Len(t, sub.calls, 1)
	assert.Equal(t, Record{
		Service: "Routine Cleaning",
		Name:    "Jane Doe",
		Phone:   "555-1234",
		Email:   "jane@example.com",
		Date:    "12/25/2025",
		Time:    "2:30 PM",
	}, sub.calls[0])
	assert.True(t, sub.times[0].Equal(fixed))

	assert.Equal(t, []string{statusProcessing, statusConfirmed}, out.statuses)
	assert.Equal(t, []string{"https://calendar.example/evt"}, out.shown)
	assert.Equal(t, 1, out.hidden)

	// Soft reset: back to initial with an empty record, closing prompt offered.
	assert.Equal(t, StageInitial, s.CurrentStage())
	assert.Equal(t, Record{}, s.Snapshot())
	assert.Equal(t, msgClosing, out.lastBot())
	assert.Equal(t, choicesClosing, out.choices[len(out.choices)-1])
}

func TestEngineSubmitFailureKeepsConfirm(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("boom")}
	e, _ := newTestEngine(sub, &fakeLinks{url: "unused"})

	s := NewSession("t")
	out := &fakeRenderer{}
	collectRecord(t, e, s, out)

	require.NoError(t, e.HandleUtterance(context.Background(), s, out, "yes"))

	assert.Equal(t, StageConfirm, s.CurrentStage(), "failure must not advance the stage")
	assert.NotEqual(t, Record{}, s.Snapshot(), "record must survive a failed submission")
	assert.Equal(t, msgSubmitFailed, out.lastBot())
	assert.Equal(t, choicesRetry, out.choices[len(out.choices)-1])
	assert.Empty(t, out.shown)

	// A second "yes" resubmits without re-collecting anything.
	sub.err = nil
	require.NoError(t, e.HandleUtterance(context.Background(), s, out, "yes"))
	assert.Len(t, sub.calls, 2)
	assert.Equal(t, sub.calls[0], sub.calls[1])
	assert.Equal(t, StageInitial, s.CurrentStage())
}

func TestEngineCalendarBuildFailureStillSucceeds(t *testing.T) {
	sub := &fakeSubmitter{}
	e, _ := newTestEngine(sub, &fakeLinks{err: errors.New("bad time")})

	s := NewSession("t")
	out := &fakeRenderer{}
	collectRecord(t, e, s, out)

	require.NoError(t, e.HandleUtterance(context.Background(), s, out, "yes"))

	assert.Empty(t, out.shown, "no link on a build failure")
	assert.Equal(t, StageInitial, s.CurrentStage(), "submission itself still completes")
}

func TestEngineIgnoresEmptyUtterance(t *testing.T) {
	e, _ := newTestEngine(&fakeSubmitter{}, &fakeLinks{})
	s := NewSession("t")
	out := &fakeRenderer{}

	require.NoError(t, e.HandleUtterance(context.Background(), s, out, "   "))
	assert.Empty(t, out.messages)
	assert.Equal(t, StageInitial, s.CurrentStage())
}

func TestEngineGreet(t *testing.T) {
	e, _ := newTestEngine(&fakeSubmitter{}, &fakeLinks{})
	out := &fakeRenderer{}

	e.Greet(out)
	require.Len(t, out.messages, 1)
	assert.Equal(t, "bot: "+msgGreeting, out.messages[0])
	assert.Equal(t, [][]string{choicesHelpMenu}, out.choices)
}
