// Package dialog implements the conversation core: a per-user state machine
// that runs the guided intake, the quick BMI flow and free-form chat, with a
// restricted-topic gate in front of every handler.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/baria-bot/baria/internal/bmi"
	"github.com/baria-bot/baria/internal/genai"
	"github.com/baria-bot/baria/internal/intent"
	"github.com/baria-bot/baria/internal/kb"
	"github.com/baria-bot/baria/internal/models"
	"github.com/baria-bot/baria/internal/session"
	"github.com/baria-bot/baria/internal/topics"
	"github.com/baria-bot/baria/internal/validate"
)

// ReportStore persists completed intake reports. Persistence failures must
// not break the conversation; the engine logs and replies normally.
type ReportStore interface {
	SaveReport(ctx context.Context, report models.IntakeReport) error
}

// Engine routes inbound messages through the topic gate, explicit commands
// and the per-state handler table. Safe for concurrent use; per-user ordering
// is the caller's responsibility.
type Engine struct {
	sessions *session.Store
	answerer genai.Answerer
	filter   *topics.Filter
	intents  *intent.Classifier
	reports  ReportStore
}

// Opts holds configuration options for the dialogue engine.
type Opts struct {
	Answerer genai.Answerer
	Filter   *topics.Filter
	Intents  *intent.Classifier
	Reports  ReportStore
}

// Option defines a configuration option for the dialogue engine.
type Option func(*Opts)

// WithAnswerer sets the Answer Service used for uncanned free-form questions.
// Without one, such questions get the static fallback reply.
func WithAnswerer(a genai.Answerer) Option {
	return func(o *Opts) { o.Answerer = a }
}

// WithTopicFilter overrides the default restricted-topic filter.
func WithTopicFilter(f *topics.Filter) Option {
	return func(o *Opts) { o.Filter = f }
}

// WithIntentClassifier overrides the default yes/no/greeting classifier.
func WithIntentClassifier(c *intent.Classifier) Option {
	return func(o *Opts) { o.Intents = c }
}

// WithReportStore enables persistence of completed intake reports.
func WithReportStore(s ReportStore) Option {
	return func(o *Opts) { o.Reports = s }
}

// NewEngine creates a dialogue engine over the given session store.
func NewEngine(sessions *session.Store, opts ...Option) *Engine {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Filter == nil {
		cfg.Filter = topics.NewDefaultFilter()
	}
	if cfg.Intents == nil {
		cfg.Intents = intent.Default
	}
	return &Engine{
		sessions: sessions,
		answerer: cfg.Answerer,
		filter:   cfg.Filter,
		intents:  cfg.Intents,
		reports:  cfg.Reports,
	}
}

// handlerFunc processes one message for a session in a given state. The
// session is locked on entry and must be locked again on return; handlers may
// unlock around slow remote calls.
type handlerFunc func(e *Engine, ctx context.Context, s *session.Session, text string) models.Reply

// handlers is the state dispatch table. A state missing here is an invariant
// violation and resets the session.
var handlers = map[models.State]handlerFunc{
	models.StateInitial:                    (*Engine).handleInitial,
	models.StateWaitingConsent:             (*Engine).handleConsent,
	models.StateWaitingName:                (*Engine).handleName,
	models.StateWaitingPatientConfirmation: (*Engine).handlePatientCheck,
	models.StateWaitingAge:                 (*Engine).handleAge,
	models.StateWaitingGender:              (*Engine).handleGender,
	models.StateWaitingHeight:              (*Engine).handleHeight,
	models.StateWaitingWeight:              (*Engine).handleWeight,
	models.StateWaitingRelationship:        (*Engine).handleRelationship,
	models.StateCompleted:                  (*Engine).handleCompleted,
	models.StateHelperCompleted:            (*Engine).handleCompleted,
	models.StateGeneralChat:                (*Engine).handleGeneralChat,
	models.StateQuickBMIHeight:             (*Engine).handleQuickBMIHeight,
	models.StateQuickBMIWeight:             (*Engine).handleQuickBMIWeight,
}

// HandleMessage processes one inbound message for a user and returns the
// reply to send. It never returns an empty reply.
func (e *Engine) HandleMessage(ctx context.Context, userID, text string) models.Reply {
	text = strings.TrimSpace(text)
	s := e.sessions.Get(userID)
	s.Lock()
	defer s.Unlock()
	s.Touch()

	slog.Debug("Engine.HandleMessage: processing message", "user", userID, "state", s.State)

	if cmd, ok := ParseCommand(text); ok {
		return e.handleCommand(ctx, s, cmd)
	}

	// Restricted topics are refused in every state; the session state and
	// collected profile fields are left untouched.
	if e.filter.Restricted(text) {
		slog.Info("Engine.HandleMessage: restricted topic refused", "user", userID, "state", s.State)
		return models.Reply{Text: replyRestricted, Menu: MainMenu}
	}

	handler, ok := handlers[s.State]
	if !ok {
		slog.Error("Engine.HandleMessage: unknown session state, resetting", "user", userID, "state", s.State)
		s.State = models.StateGeneralChat
		return models.Reply{Text: replyInternalError, Menu: MainMenu}
	}
	return handler(e, ctx, s, text)
}

// handleCommand executes an explicit command. Commands work in any state.
func (e *Engine) handleCommand(ctx context.Context, s *session.Session, cmd models.Command) models.Reply {
	slog.Debug("Engine.handleCommand: executing command", "user", s.UserID, "command", cmd)
	switch cmd {
	case models.CommandRestart:
		s.Profile = models.Profile{}
		s.History = nil
		s.QuickHeightCm = 0
		s.State = models.StateWaitingConsent
		return models.Reply{Text: replyRestarted}

	case models.CommandShowProfile:
		if s.Profile.Complete() || s.Profile.PatientStatus == models.PatientHelper {
			return models.Reply{Text: profileSummary(&s.Profile), Menu: MainMenu}
		}
		return models.Reply{Text: replyNoProfile, Menu: MainMenu}

	case models.CommandShowCriteria:
		return models.Reply{Text: kb.Criteria, Menu: MainMenu}
	case models.CommandShowDocuments:
		return models.Reply{Text: kb.Documents, Menu: MainMenu}
	case models.CommandShowPathways:
		return models.Reply{Text: kb.Pathways, Menu: MainMenu}
	case models.CommandShowGuidance:
		return models.Reply{Text: kb.Guidance, Menu: MainMenu}

	case models.CommandStartIntake:
		if s.Profile.Complete() || s.State == models.StateHelperCompleted {
			return models.Reply{Text: replyIntakeAlreadyDone, Menu: MainMenu}
		}
		s.State = models.StateWaitingName
		return models.Reply{Text: replyAskName}

	case models.CommandQuickBMI:
		s.QuickHeightCm = 0
		s.State = models.StateQuickBMIHeight
		return models.Reply{Text: replyQuickBMIAskHeight}

	case models.CommandAskQuestion:
		s.State = models.StateGeneralChat
		return models.Reply{Text: replyGeneralPrompt}
	}
	return models.Reply{Text: replyInternalError, Menu: MainMenu}
}

// handleInitial greets on first contact and asks for consent to the guided
// flow.
func (e *Engine) handleInitial(ctx context.Context, s *session.Session, text string) models.Reply {
	if e.intents.IsNegative(text) {
		s.State = models.StateGeneralChat
		return models.Reply{Text: replyConsentDeclined, Menu: MainMenu}
	}
	if e.intents.IsAffirmative(text) {
		s.State = models.StateWaitingName
		return models.Reply{Text: replyAskName}
	}
	s.State = models.StateWaitingConsent
	return models.Reply{Text: replyWelcome, Menu: MainMenu}
}

func (e *Engine) handleConsent(ctx context.Context, s *session.Session, text string) models.Reply {
	switch {
	case e.intents.IsAffirmative(text):
		s.State = models.StateWaitingName
		return models.Reply{Text: replyAskName}
	case e.intents.IsNegative(text):
		s.State = models.StateGeneralChat
		return models.Reply{Text: replyConsentDeclined, Menu: MainMenu}
	case e.intents.IsGreeting(text):
		return models.Reply{Text: replyWelcome, Menu: MainMenu}
	}
	return models.Reply{Text: replyConsentClarify}
}

func (e *Engine) handleName(ctx context.Context, s *session.Session, text string) models.Reply {
	name, err := validate.Name(text)
	if err != nil {
		slog.Debug("Engine.handleName: name rejected", "user", s.UserID, "error", err)
		return models.Reply{Text: replyNameRejected}
	}
	s.Profile.Name = name
	s.State = models.StateWaitingPatientConfirmation
	return models.Reply{Text: fmt.Sprintf("Prazer, %s! 😊 %s", name, replyAskPatient)}
}

func (e *Engine) handlePatientCheck(ctx context.Context, s *session.Session, text string) models.Reply {
	switch {
	case e.intents.IsAffirmative(text):
		s.Profile.PatientStatus = models.PatientSelf
		s.State = models.StateWaitingAge
		return models.Reply{Text: replyAskAge}
	case e.intents.IsNegative(text):
		s.Profile.PatientStatus = models.PatientHelper
		s.State = models.StateWaitingRelationship
		return models.Reply{Text: replyAskRelationship}
	}
	return models.Reply{Text: replyPatientClarify}
}

func (e *Engine) handleAge(ctx context.Context, s *session.Session, text string) models.Reply {
	age, caution, err := validate.Age(text)
	if err != nil {
		return models.Reply{Text: ageError(err)}
	}
	s.Profile.Age = age
	s.Profile.AgeCaution = caution
	s.State = models.StateWaitingGender

	reply := replyAskGender
	if caution {
		reply = replyAgeCaution + "\n\n" + replyAskGender
	}
	return models.Reply{Text: reply, Menu: genderMenu}
}

func (e *Engine) handleGender(ctx context.Context, s *session.Session, text string) models.Reply {
	gender, err := validate.Gender(text)
	if err != nil {
		return models.Reply{Text: replyGenderClarify, Menu: genderMenu}
	}
	s.Profile.Gender = models.Gender(gender)
	s.State = models.StateWaitingHeight
	return models.Reply{Text: replyAskHeight}
}

func (e *Engine) handleHeight(ctx context.Context, s *session.Session, text string) models.Reply {
	height, err := validate.Height(text)
	if err != nil {
		return models.Reply{Text: heightError(err)}
	}
	s.Profile.HeightCm = height
	s.State = models.StateWaitingWeight
	return models.Reply{Text: replyAskWeight}
}

// handleWeight stores the last profile field, computes the BMI report and
// completes the intake.
func (e *Engine) handleWeight(ctx context.Context, s *session.Session, text string) models.Reply {
	weight, err := validate.Weight(text)
	if err != nil {
		return models.Reply{Text: weightError(err)}
	}
	s.Profile.WeightKg = weight
	s.State = models.StateCompleted

	result := bmi.Classify(s.Profile.WeightKg, s.Profile.HeightCm)
	if !result.Available {
		// Validated inputs make this unreachable; guard anyway.
		slog.Error("Engine.handleWeight: BMI unavailable for validated profile", "user", s.UserID)
		return models.Reply{Text: replyBMIUnavailable, Menu: MainMenu}
	}

	report := models.IntakeReport{
		ID:        uuid.NewString(),
		UserID:    s.UserID,
		Name:      s.Profile.Name,
		Age:       s.Profile.Age,
		Gender:    s.Profile.Gender,
		HeightCm:  s.Profile.HeightCm,
		WeightKg:  s.Profile.WeightKg,
		BMI:       result.BMI,
		Category:  string(result.Category),
		Tier:      string(result.Tier),
		CreatedAt: time.Now(),
	}
	e.persistReport(ctx, report)

	slog.Info("Engine.handleWeight: intake completed", "user", s.UserID, "bmi", result.BMI, "tier", result.Tier)
	return models.Reply{
		Text:   completedReport(&s.Profile, result),
		Menu:   MainMenu,
		Report: &report,
	}
}

// handleRelationship finishes the helper branch. No BMI is computed or shown.
func (e *Engine) handleRelationship(ctx context.Context, s *session.Session, text string) models.Reply {
	relationship := strings.TrimSpace(text)
	if relationship == "" || len([]rune(relationship)) > validate.MaxNameLength {
		return models.Reply{Text: replyRelationshipClarify}
	}
	s.Profile.Relationship = relationship
	s.State = models.StateHelperCompleted
	slog.Info("Engine.handleRelationship: helper intake completed", "user", s.UserID)
	return models.Reply{Text: helperClosing(s.Profile.Name, relationship), Menu: MainMenu}
}

// handleCompleted keeps finished sessions live: further messages flow into
// free-form chat.
func (e *Engine) handleCompleted(ctx context.Context, s *session.Session, text string) models.Reply {
	s.State = models.StateGeneralChat
	return e.handleGeneralChat(ctx, s, text)
}

// handleGeneralChat answers free-form questions: canned knowledge base first,
// then the Answer Service, then the static fallback.
func (e *Engine) handleGeneralChat(ctx context.Context, s *session.Session, text string) models.Reply {
	if text == "" || e.intents.IsGreeting(text) {
		return models.Reply{Text: replyGeneralPrompt, Menu: MainMenu}
	}

	if answer, ok := kb.Lookup(text); ok {
		s.AppendHistory("user", text)
		s.AppendHistory("assistant", answer)
		return models.Reply{Text: answer, Menu: MainMenu}
	}

	if e.answerer == nil {
		return models.Reply{Text: replyAnswerUnavailable, Menu: MainMenu}
	}

	// The remote call must not run under the session lock: snapshot what it
	// needs, release, call, re-lock to append the exchange.
	req := genai.Request{
		Question: text,
		History:  s.HistorySnapshot(),
	}
	if s.Profile.IsPatient() {
		profile := s.Profile
		req.Profile = &profile
	}
	s.Unlock()
	answer, err := e.answerer.Answer(ctx, req)
	s.Lock()
	if err != nil {
		slog.Error("Engine.handleGeneralChat: answer service failed", "user", s.UserID, "error", err)
		return models.Reply{Text: replyAnswerUnavailable, Menu: MainMenu}
	}

	s.AppendHistory("user", text)
	s.AppendHistory("assistant", answer)
	return models.Reply{Text: answer, Menu: MainMenu}
}

func (e *Engine) handleQuickBMIHeight(ctx context.Context, s *session.Session, text string) models.Reply {
	height, err := validate.Height(text)
	if err != nil {
		return models.Reply{Text: heightError(err)}
	}
	s.QuickHeightCm = height
	s.State = models.StateQuickBMIWeight
	return models.Reply{Text: replyQuickBMIAskWeight}
}

// handleQuickBMIWeight computes the one-off BMI without touching the profile.
func (e *Engine) handleQuickBMIWeight(ctx context.Context, s *session.Session, text string) models.Reply {
	weight, err := validate.Weight(text)
	if err != nil {
		return models.Reply{Text: weightError(err)}
	}
	height := s.QuickHeightCm
	s.QuickHeightCm = 0
	s.State = models.StateGeneralChat

	result := bmi.Classify(weight, height)
	if !result.Available {
		return models.Reply{Text: replyBMIUnavailable, Menu: MainMenu}
	}
	return models.Reply{Text: quickBMIReport(height, weight, result), Menu: MainMenu}
}

// persistReport writes the completed intake to the report store, if one is
// configured. Failures are logged and swallowed.
func (e *Engine) persistReport(ctx context.Context, report models.IntakeReport) {
	if e.reports == nil {
		return
	}
	if err := e.reports.SaveReport(ctx, report); err != nil {
		slog.Error("Engine.persistReport: failed to save report", "user", report.UserID, "error", err)
	}
}

// ageError maps an age validation error to the matching prompt.
func ageError(err error) string {
	if errors.Is(err, validate.ErrAgeNotNumeric) {
		return replyAgeNotNumeric
	}
	return replyAgeOutOfRange
}

func heightError(err error) string {
	if errors.Is(err, validate.ErrHeightNotNumeric) {
		return replyHeightNotNumeric
	}
	return replyHeightOutOfRange
}

func weightError(err error) string {
	if errors.Is(err, validate.ErrWeightNotNumeric) {
		return replyWeightNotNumeric
	}
	return replyWeightOutOfRange
}
