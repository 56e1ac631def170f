package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every payload type. The subject is fixed per type
// and never derived from data.
type Event interface {
	Subject() Subject
}

// Envelope is the wire format for every message the platform produces.
type Envelope struct {
	EventID    uuid.UUID       `json:"eventId"`
	Subject    Subject         `json:"subject"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// Seal wraps an event into an envelope with a fresh id and timestamp. The
// payload is marshaled verbatim; Seal never mutates the event.
func Seal(event Event) (Envelope, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", event.Subject(), err)
	}
	return Envelope{
		EventID:    uuid.New(),
		Subject:    event.Subject(),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}, nil
}

// Open decodes the envelope's data into the payload type registered for its
// subject. Unknown subjects are an error so consumers fail loudly on
// contract drift.
func (e Envelope) Open() (Event, error) {
	factory, ok := payloadFactories[e.Subject]
	if !ok {
		return nil, fmt.Errorf("unknown event subject %q", e.Subject)
	}
	payload := factory()
	if err := json.Unmarshal(e.Data, payload); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", e.Subject, err)
	}
	return payload, nil
}

// payloadFactories maps every subject to a constructor for its payload
// type. One entry per subject; totality is enforced by tests.
var payloadFactories = map[Subject]func() Event{
	SubjectUserCreated:                 func() Event { return &UserCreated{} },
	SubjectUserUpdated:                 func() Event { return &UserUpdated{} },
	SubjectCourseCreated:               func() Event { return &CourseCreated{} },
	SubjectCourseUpdated:               func() Event { return &CourseUpdated{} },
	SubjectChallengeCreated:            func() Event { return &ChallengeCreated{} },
	SubjectChallengeUpdated:            func() Event { return &ChallengeUpdated{} },
	SubjectLevelCreated:                func() Event { return &LevelCreated{} },
	SubjectLevelUpdated:                func() Event { return &LevelUpdated{} },
	SubjectIslandCreated:               func() Event { return &IslandCreated{} },
	SubjectIslandUpdated:               func() Event { return &IslandUpdated{} },
	SubjectIslandTemplateCreated:       func() Event { return &IslandTemplateCreated{} },
	SubjectIslandTemplateUpdated:       func() Event { return &IslandTemplateUpdated{} },
	SubjectSlideUpdated:                func() Event { return &SlideUpdated{} },
	SubjectItemTemplateCreated:         func() Event { return &ItemTemplateCreated{} },
	SubjectItemTemplateUpdated:         func() Event { return &ItemTemplateUpdated{} },
	SubjectCourseItemTemplateCreated:   func() Event { return &CourseItemTemplateCreated{} },
	SubjectCourseItemTemplateUpdated:   func() Event { return &CourseItemTemplateUpdated{} },
	SubjectPrerequisiteIslandCreated:   func() Event { return &PrerequisiteIslandCreated{} },
	SubjectPrerequisiteIslandDeleted:   func() Event { return &PrerequisiteIslandDeleted{} },
	SubjectUserCourseCreated:           func() Event { return &UserCourseCreated{} },
	SubjectUserCourseUpdated:           func() Event { return &UserCourseUpdated{} },
	SubjectUserCourseInventoryCreation: func() Event { return &UserCourseInventoryCreation{} },
	SubjectAttemptCreated:              func() Event { return &AttemptCreated{} },
	SubjectAttemptUpdated:              func() Event { return &AttemptUpdated{} },
}

// Subjects returns every known subject in stable order.
func Subjects() []Subject {
	return []Subject{
		SubjectUserCreated,
		SubjectUserUpdated,
		SubjectCourseCreated,
		SubjectCourseUpdated,
		SubjectChallengeCreated,
		SubjectChallengeUpdated,
		SubjectLevelCreated,
		SubjectLevelUpdated,
		SubjectIslandCreated,
		SubjectIslandUpdated,
		SubjectIslandTemplateCreated,
		SubjectIslandTemplateUpdated,
		SubjectSlideUpdated,
		SubjectItemTemplateCreated,
		SubjectItemTemplateUpdated,
		SubjectCourseItemTemplateCreated,
		SubjectCourseItemTemplateUpdated,
		SubjectPrerequisiteIslandCreated,
		SubjectPrerequisiteIslandDeleted,
		SubjectUserCourseCreated,
		SubjectUserCourseUpdated,
		SubjectUserCourseInventoryCreation,
		SubjectAttemptCreated,
		SubjectAttemptUpdated,
	}
}
