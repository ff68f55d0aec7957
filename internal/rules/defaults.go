package rules

import (
	"fmt"
	"time"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/timeutil"
)

// Rule IDs double as the AutomatedAction labels on generated tasks.
const (
	RuleCheckQuestionnaire = "CheckQuestionnaireReturned"
	RuleSendProtocol       = "SendProtocolDocument"
	RuleSessionPrep        = "PrepareTrainingSession"
	RuleClientNote         = "RecordClientCreated"
)

// Offsets used by the default rule set.
const (
	// questionnaireLead is how far before a booking's consultation the
	// questionnaire check falls due.
	questionnaireLead = 48 * time.Hour

	// sessionPrepLead is how far before a training session the
	// preparation reminder falls due.
	sessionPrepLead = 48 * time.Hour

	// protocolDue is how long after a completed consultation the
	// protocol document should go out.
	protocolDue = 24 * time.Hour
)

// DefaultRules returns the business's automation rule set in
// declaration order. Rules are fixed startup configuration, not
// user-editable data.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:        RuleCheckQuestionnaire,
			Trigger:   TriggerEventCreated,
			Condition: EventTypeEquals{Type: domain.EventBooking},
			Actions: []Action{
				CreateTask(buildQuestionnaireTask),
			},
		},
		{
			ID:        RuleSendProtocol,
			Trigger:   TriggerEventUpdated,
			Condition: EventCompleted{Type: domain.EventConsultation, Status: domain.EventStatusCompleted},
			Actions: []Action{
				CreateTask(buildProtocolTask),
			},
		},
		{
			ID:        RuleSessionPrep,
			Trigger:   TriggerEventCreated,
			Condition: EventTypeEquals{Type: domain.EventTrainingSession},
			Actions: []Action{
				CreateTask(buildSessionPrepTask),
			},
		},
		{
			ID:        RuleClientNote,
			Trigger:   TriggerClientCreated,
			Condition: Always{},
			Actions: []Action{
				CreateEvent(buildClientCreatedNote),
			},
		},
	}
}

// DefaultRegistry freezes DefaultRules into a registry.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(DefaultRules()...)
}

func buildQuestionnaireTask(e Entity, _ *timeutil.Clock) (domain.Task, error) {
	due, err := timeutil.OffsetBefore(e.Event.Date, questionnaireLead)
	if err != nil {
		return domain.Task{}, fmt.Errorf("questionnaire due date: %w", err)
	}
	return domain.Task{
		Description:     "Check questionnaire returned ≥ 48 hours before consultation",
		DueDate:         due,
		Status:          domain.TaskPending,
		Priority:        domain.PriorityHighest,
		AutomatedAction: RuleCheckQuestionnaire,
		TriggeredBy:     "Event:Booking",
		ClientID:        e.Event.ClientID,
		EventID:         e.Event.ID,
	}, nil
}

func buildProtocolTask(e Entity, clock *timeutil.Clock) (domain.Task, error) {
	return domain.Task{
		Description:     "Send protocol document to client",
		DueDate:         clock.Now().Add(protocolDue),
		Status:          domain.TaskPending,
		Priority:        2,
		AutomatedAction: RuleSendProtocol,
		TriggeredBy:     "Event:Consultation",
		ClientID:        e.Event.ClientID,
		EventID:         e.Event.ID,
	}, nil
}

func buildSessionPrepTask(e Entity, _ *timeutil.Clock) (domain.Task, error) {
	due, err := timeutil.OffsetBefore(e.Event.Date, sessionPrepLead)
	if err != nil {
		return domain.Task{}, fmt.Errorf("session prep due date: %w", err)
	}
	return domain.Task{
		Description:     "Prepare training session plan and materials",
		DueDate:         due,
		Status:          domain.TaskPending,
		Priority:        2,
		AutomatedAction: RuleSessionPrep,
		TriggeredBy:     "Event:TrainingSession",
		ClientID:        e.Event.ClientID,
		EventID:         e.Event.ID,
	}, nil
}

func buildClientCreatedNote(e Entity, clock *timeutil.Clock) (domain.Event, error) {
	return domain.Event{
		ClientID: e.Client.ID,
		Type:     domain.EventNote,
		Date:     clock.Now(),
		Notes:    "Client created",
	}, nil
}
