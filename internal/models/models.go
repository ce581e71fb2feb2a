// Package models defines the core data structures for BarIA.
//
// It includes the dialogue states, the per-user profile, completed intake
// reports, and the message/receipt types shared across transports.
package models

import (
	"errors"
	"time"
)

// State identifies the current position of a user in the guided dialogue.
type State string

const (
	// StateInitial is the implicit state of a freshly created session.
	StateInitial State = "INITIAL"
	// StateWaitingConsent waits for the user to accept or decline the guided intake.
	StateWaitingConsent State = "WAITING_CONSENT"
	// StateWaitingName waits for the user's name.
	StateWaitingName State = "WAITING_NAME"
	// StateWaitingPatientConfirmation asks whether the user is the surgery candidate.
	StateWaitingPatientConfirmation State = "WAITING_PATIENT_CONFIRMATION"
	// StateWaitingAge waits for the patient's age.
	StateWaitingAge State = "WAITING_AGE"
	// StateWaitingGender waits for the patient's gender.
	StateWaitingGender State = "WAITING_GENDER"
	// StateWaitingHeight waits for the patient's height in centimeters.
	StateWaitingHeight State = "WAITING_HEIGHT"
	// StateWaitingWeight waits for the patient's weight in kilograms.
	StateWaitingWeight State = "WAITING_WEIGHT"
	// StateWaitingRelationship asks a non-patient how they relate to the candidate.
	StateWaitingRelationship State = "WAITING_RELATIONSHIP"
	// StateCompleted marks a finished patient intake.
	StateCompleted State = "COMPLETED"
	// StateHelperCompleted marks a finished helper conversation (no BMI collected).
	StateHelperCompleted State = "HELPER_COMPLETED"
	// StateGeneralChat handles free-form questions outside the guided intake.
	StateGeneralChat State = "GENERAL_CHAT"
	// StateQuickBMIHeight collects height for a one-off BMI calculation.
	StateQuickBMIHeight State = "QUICK_BMI_HEIGHT"
	// StateQuickBMIWeight collects weight for a one-off BMI calculation.
	StateQuickBMIWeight State = "QUICK_BMI_WEIGHT"
)

// IsValidState checks whether s is one of the defined dialogue states.
func IsValidState(s State) bool {
	switch s {
	case StateInitial, StateWaitingConsent, StateWaitingName,
		StateWaitingPatientConfirmation, StateWaitingAge, StateWaitingGender,
		StateWaitingHeight, StateWaitingWeight, StateWaitingRelationship,
		StateCompleted, StateHelperCompleted, StateGeneralChat,
		StateQuickBMIHeight, StateQuickBMIWeight:
		return true
	default:
		return false
	}
}

// Gender is one of the three canonical gender values.
type Gender string

const (
	GenderMale   Gender = "masculino"
	GenderFemale Gender = "feminino"
	GenderOther  Gender = "outro"
)

// PatientStatus records whether the user confirmed being the surgery candidate.
// It starts unknown and is set exactly once during the intake.
type PatientStatus string

const (
	PatientUnknown PatientStatus = ""
	PatientSelf    PatientStatus = "patient"
	PatientHelper  PatientStatus = "helper"
)

// Profile holds the fields collected during the guided intake. Fields are
// filled monotonically as the dialogue advances and are only cleared by an
// explicit restart.
type Profile struct {
	Name          string        `json:"name,omitempty"`
	Age           int           `json:"age,omitempty"`
	AgeCaution    bool          `json:"age_caution,omitempty"` // set when age > 65
	Gender        Gender        `json:"gender,omitempty"`
	HeightCm      float64       `json:"height_cm,omitempty"`
	WeightKg      float64       `json:"weight_kg,omitempty"`
	PatientStatus PatientStatus `json:"patient_status,omitempty"`
	Relationship  string        `json:"relationship,omitempty"`
}

// IsPatient reports whether the user confirmed being the surgery candidate.
// BMI reporting is only ever performed when this is true.
func (p *Profile) IsPatient() bool {
	return p.PatientStatus == PatientSelf
}

// Complete reports whether all mandatory patient fields have been collected.
func (p *Profile) Complete() bool {
	return p.IsPatient() && p.Name != "" && p.Age > 0 && p.Gender != "" &&
		p.HeightCm > 0 && p.WeightKg > 0
}

// ConversationEntry is one (role, text) pair retained for Answer Service context.
type ConversationEntry struct {
	Role string    `json:"role"` // "user" or "assistant"
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// Error variables shared across packages.
var (
	// ErrNotPatient is returned when a BMI report is requested for a session
	// whose user is not the surgery candidate.
	ErrNotPatient = errors.New("profile does not belong to the surgery candidate")
	// ErrProfileIncomplete is returned when a report is requested before all
	// mandatory fields were collected.
	ErrProfileIncomplete = errors.New("profile is incomplete")
)

// IntakeReport is the persisted record of a completed patient intake.
type IntakeReport struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    Gender    `json:"gender"`
	HeightCm  float64   `json:"height_cm"`
	WeightKg  float64   `json:"weight_kg"`
	BMI       float64   `json:"bmi"`
	Category  string    `json:"category"`
	Tier      string    `json:"tier"`
	CreatedAt time.Time `json:"created_at"`
}

// Command is an explicit instruction addressed to the bot, either typed or
// carried by a button payload.
type Command string

const (
	CommandNone          Command = ""
	CommandRestart       Command = "restart"
	CommandShowProfile   Command = "show-profile"
	CommandShowCriteria  Command = "show-criteria"
	CommandShowDocuments Command = "show-documents"
	CommandShowPathways  Command = "show-pathways"
	CommandShowGuidance  Command = "show-general-guidance"
	CommandStartIntake   Command = "start-intake"
	CommandQuickBMI      Command = "quick-bmi"
	CommandAskQuestion   Command = "ask-question"
)

// Response represents an incoming message from a user.
type Response struct {
	From string `json:"from"`
	Body string `json:"body"`
	Time int64  `json:"time"`
}

// Reply is the outbound result of handling one inbound message.
type Reply struct {
	Text string `json:"text"`
	// Menu lists quick-reply options; transports render it as buttons where
	// supported and as plain text otherwise. Cosmetic only.
	Menu []string `json:"menu,omitempty"`
	// Report is set when this reply completed an intake.
	Report *IntakeReport `json:"report,omitempty"`
}

// StatusType describes delivery status events emitted by transports.
type StatusType string

const (
	StatusTypeSent      StatusType = "sent"
	StatusTypeDelivered StatusType = "delivered"
	StatusTypeRead      StatusType = "read"
)

// Receipt records a delivery status event for an outbound message.
type Receipt struct {
	To     string     `json:"to"`
	Status StatusType `json:"status"`
	Time   int64      `json:"time"`
}
