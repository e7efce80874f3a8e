// Package conversation implements the scripted appointment dialog:
// a fixed sequence of prompts that collects service, date, time, name,
// phone and email, then submits the completed record.
package conversation

import (
	"sync"
	"time"
)

// Stage represents the current position in the conversation sequence.
type Stage string

const (
	StageInitial          Stage = "initial"
	StageService          Stage = "service"
	StageDateInput        Stage = "date_input"
	StageTimeInput        Stage = "time_input"
	StageName             Stage = "name"
	StageContact          Stage = "contact"
	StageEmail            Stage = "email"
	StageConfirm          Stage = "confirm"
	StageEmergency        Stage = "emergency"
	StageEmergencyDetails Stage = "emergency_details"
	StageServicesInfo     Stage = "services_info"
)

// Record is the flat field set handed to the submission endpoint.
// Unset fields stay empty strings.
type Record struct {
	Service          string `json:"service"`
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	EmergencyDetails string `json:"emergency_details"`
	Date             string `json:"date"` // MM/DD/YYYY as typed
	Time             string `json:"time"` // free text as typed
}

// Session is the single stateful entity of a conversation. One session
// per remote peer; sessions never share mutable state.
type Session struct {
	ID               string    `json:"id"`
	Stage            Stage     `json:"stage"`
	Service          string    `json:"service"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Emergency        string    `json:"emergency"`
	EmergencyDetails string    `json:"emergency_details"`
	SelectedDate     string    `json:"selected_date"`
	SelectedTime     string    `json:"selected_time"`
	StartedAt        time.Time `json:"started_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	mu sync.Mutex
}

// NewSession creates a session at the initial stage with an empty record.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Stage:     StageInitial,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// SoftReset returns the session to the initial stage and clears every
// collected field. Used after a successful submission or a restart.
func (s *Session) SoftReset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.Stage = StageInitial
	s.Service = ""
	s.Name = ""
	s.Phone = ""
	s.Email = ""
	s.Emergency = ""
	s.EmergencyDetails = ""
	s.SelectedDate = ""
	s.SelectedTime = ""
	s.UpdatedAt = time.Now()
}

// CurrentStage returns the stage under the session lock.
func (s *Session) CurrentStage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Stage
}

// Snapshot returns the submission record collected so far.
func (s *Session) Snapshot() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Record {
	return Record{
		Service:          s.Service,
		Name:             s.Name,
		Phone:            s.Phone,
		Email:            s.Email,
		EmergencyDetails: s.EmergencyDetails,
		Date:             s.SelectedDate,
		Time:             s.SelectedTime,
	}
}

// IsExpired checks if the session has been idle longer than timeout.
func (s *Session) IsExpired(timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.UpdatedAt) > timeout
}

// FSM holds the legal stage graph. Staying on the same stage after a
// rejected input is a re-prompt, not a transition, so self loops are
// not listed.
type FSM struct {
	transitions map[Stage][]Stage
}

// NewFSM creates an FSM with the fixed appointment dialog graph.
func NewFSM() *FSM {
	return &FSM{
		transitions: map[Stage][]Stage{
			StageInitial:          {StageService, StageServicesInfo, StageEmergency},
			StageService:          {StageDateInput, StageEmergencyDetails},
			StageDateInput:        {StageTimeInput},
			StageTimeInput:        {StageName},
			StageName:             {StageContact},
			StageContact:          {StageEmail},
			StageEmail:            {StageConfirm},
			StageConfirm:          {StageInitial, StageService},
			StageEmergency:        {StageName},
			StageEmergencyDetails: {StageName},
			StageServicesInfo:     {},
		},
	}
}

// CanTransition checks if moving from one stage to another is allowed.
func (f *FSM) CanTransition(from, to Stage) bool {
	if from == to {
		return true
	}
	allowed, ok := f.transitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
