package conversation

import (
	"fmt"
	"strings"
	"time"

	"dentalcare/internal/metrics"
)

// Effect is a side-effect request attached to a reply. The handler
// never performs effects itself; the engine delegates them.
type Effect int

const (
	EffectNone Effect = iota
	// EffectSubmit asks the engine to hand the completed record to the
	// submission collaborator.
	EffectSubmit
)

// Reply is the outcome of one turn: the stage after the turn, the bot
// messages to display, optional quick choices and an optional effect.
type Reply struct {
	Stage    Stage
	Messages []string
	Choices  []string
	Effect   Effect
}

func reply(stage Stage, msgs ...string) Reply {
	return Reply{Stage: stage, Messages: msgs}
}

func (r Reply) withChoices(choices []string) Reply {
	r.Choices = choices
	return r
}

// Handler maps (current stage, utterance) to a reply. Classification is
// case-insensitive substring containment against small fixed keyword
// sets; the branch order below is the tie-break precedence.
type Handler struct {
	fsm *FSM
}

// NewHandler creates a dialog handler.
func NewHandler() *Handler {
	return &Handler{fsm: NewFSM()}
}

// HandleInput processes one utterance and mutates the session
// accordingly. Invalid input re-prompts and leaves the stage unchanged.
func (h *Handler) HandleInput(s *Session, input string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	input = strings.TrimSpace(input)
	s.UpdatedAt = time.Now()

	var rep Reply
	switch s.Stage {
	case StageInitial:
		rep = h.handleInitial(s, input)
	case StageService:
		rep = h.handleService(s, input)
	case StageDateInput:
		rep = h.handleDate(s, input)
	case StageTimeInput:
		rep = h.handleTime(s, input)
	case StageName:
		rep = h.handleName(s, input)
	case StageContact:
		rep = h.handleContact(s, input)
	case StageEmail:
		rep = h.handleEmail(s, input)
	case StageConfirm:
		rep = h.handleConfirm(s, input)
	case StageEmergency:
		rep = h.handleEmergency(s, input)
	case StageEmergencyDetails:
		rep = h.handleEmergencyDetails(s, input)
	case StageServicesInfo:
		rep = h.handleServicesInfo(s, input)
	default:
		// Unknown stage in a stored session, e.g. after a rollout that
		// removed one. Recover by re-prompting the main menu.
		s.Stage = StageInitial
		rep = reply(StageInitial, msgHelpMenu).withChoices(choicesHelpMenu)
	}

	// The handlers only ever produce legal transitions; guard anyway so
	// a future editing mistake re-prompts instead of corrupting the
	// dialog.
	if !h.fsm.CanTransition(s.Stage, rep.Stage) {
		rep.Stage = s.Stage
	}

	s.Stage = rep.Stage
	return rep
}

// containsAny reports whether the lowercased utterance contains any of
// the keywords. First-matching-branch order in the callers decides ties.
func containsAny(lower string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// handleInitial routes by intent. Appointment keywords are checked
// before "emergency", so an emergency mentioned inside an otherwise
// appointment-shaped sentence still books a regular appointment.
func (h *Handler) handleInitial(s *Session, input string) Reply {
	lower := strings.ToLower(input)

	switch {
	case containsAny(lower, "appointment", "schedule", "book"):
		return reply(StageService, msgServiceMenu).withChoices(choicesServiceMenu)
	case containsAny(lower, "service", "what do you offer"):
		return reply(StageServicesInfo, msgServicesInfo).withChoices(choicesServicesInfo)
	case containsAny(lower, "emergency"):
		return reply(StageEmergency, msgEmergencyPrompt).withChoices(choicesEmergency)
	default:
		return reply(StageInitial, msgHelpMenu).withChoices(choicesHelpMenu)
	}
}

func (h *Handler) handleService(s *Session, input string) Reply {
	lower := strings.ToLower(input)

	switch {
	case containsAny(lower, "cleaning", "checkup"):
		s.Service = serviceCleaningName
		return reply(StageDateInput, fmt.Sprintf(msgCleaningChosen, s.Service))
	case containsAny(lower, "filling", "root canal", "crown", "whitening"):
		s.Service = input
		return reply(StageDateInput, fmt.Sprintf(msgServiceChosen, s.Service))
	case containsAny(lower, "emergency"):
		s.Service = serviceEmergency
		return reply(StageEmergencyDetails, msgEmergencyPrompt)
	default:
		return reply(StageService, msgServiceReprompt)
	}
}

func (h *Handler) handleDate(s *Session, input string) Reply {
	if !IsValidDate(input) {
		metrics.IncValidationFailure("date")
		return reply(StageDateInput, msgDateInvalid)
	}
	s.SelectedDate = input
	return reply(StageTimeInput, msgAskTime)
}

func (h *Handler) handleTime(s *Session, input string) Reply {
	// Any non-empty string is accepted as typed; the calendar link
	// builder is the only consumer that needs a parseable time.
	s.SelectedTime = input
	return reply(StageName, fmt.Sprintf(msgAskName, s.SelectedDate, s.SelectedTime, s.Service))
}

func (h *Handler) handleName(s *Session, input string) Reply {
	if !IsValidFullName(input) {
		metrics.IncValidationFailure("name")
		return reply(StageName, msgNameInvalid)
	}
	s.Name = input
	return reply(StageContact, fmt.Sprintf(msgAskPhone, s.Name))
}

func (h *Handler) handleContact(s *Session, input string) Reply {
	if !IsValidPhone(input) {
		metrics.IncValidationFailure("phone")
		return reply(StageContact, msgPhoneInvalid)
	}
	s.Phone = input
	return reply(StageEmail, msgAskEmail)
}

func (h *Handler) handleEmail(s *Session, input string) Reply {
	if !IsValidEmail(input) {
		metrics.IncValidationFailure("email")
		return reply(StageEmail, msgEmailInvalid)
	}
	s.Email = input

	summary := fmt.Sprintf(msgSummary,
		s.Service, s.SelectedDate, s.SelectedTime, s.Name, s.Phone, s.Email)
	return reply(StageConfirm, summary).withChoices(choicesConfirm)
}

// handleConfirm either requests the submit effect or routes back to
// service selection for a redo. The stage only advances to initial once
// the engine reports a successful submission.
func (h *Handler) handleConfirm(s *Session, input string) Reply {
	lower := strings.ToLower(input)

	if containsAny(lower, "yes", "confirm") {
		return Reply{Stage: StageConfirm, Effect: EffectSubmit}
	}
	return reply(StageService, msgStartOver)
}

func (h *Handler) handleEmergency(s *Session, input string) Reply {
	s.Emergency = input
	return reply(StageName, msgEmergencyThanks)
}

func (h *Handler) handleEmergencyDetails(s *Session, input string) Reply {
	s.EmergencyDetails = input
	return reply(StageName, msgEmergencyDetailsThanks)
}

func (h *Handler) handleServicesInfo(s *Session, input string) Reply {
	lower := strings.ToLower(input)

	if containsAny(lower, "cleaning", "whitening", "orthodontics") {
		return reply(StageServicesInfo, fmt.Sprintf(msgServiceInfoDetail, input)).
			withChoices(choicesInfoDetail)
	}
	return reply(StageServicesInfo, msgServiceInfoReprompt).withChoices(choicesInfoGeneral)
}
