package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEverySubjectHasPayload(t *testing.T) {
	subjects := Subjects()
	if len(subjects) != len(payloadFactories) {
		t.Fatalf("Subjects() lists %d subjects, factory table has %d", len(subjects), len(payloadFactories))
	}

	seen := make(map[Subject]bool)
	for _, subject := range subjects {
		factory, ok := payloadFactories[subject]
		if !ok {
			t.Errorf("subject %s has no payload factory", subject)
			continue
		}
		payload := factory()
		if payload.Subject() != subject {
			t.Errorf("payload for %s reports subject %s", subject, payload.Subject())
		}
		if seen[subject] {
			t.Errorf("subject %s listed twice", subject)
		}
		seen[subject] = true
	}
}

func TestEverySubjectHasTopic(t *testing.T) {
	for _, subject := range Subjects() {
		if TopicFor(subject) == "" {
			t.Errorf("subject %s has no topic", subject)
		}
	}
	if TopicFor(Subject("nope")) != "" {
		t.Error("unknown subject should map to empty topic")
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	created := UserCourseCreated{
		ID:               uuid.New(),
		StudentID:        uuid.New(),
		CourseID:         uuid.New(),
		Point:            0,
		CompletionStatus: CompletionNotStarted,
		CreatedAt:        time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	env, err := Seal(created)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if env.Subject != SubjectUserCourseCreated {
		t.Fatalf("envelope subject = %s", env.Subject)
	}
	if env.EventID == uuid.Nil {
		t.Fatal("expected a fresh event id")
	}

	opened, err := env.Open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, ok := opened.(*UserCourseCreated)
	if !ok {
		t.Fatalf("opened payload has type %T", opened)
	}
	if *got != created {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", *got, created)
	}
}

func TestEnrollmentWireFormat(t *testing.T) {
	id := uuid.MustParse("6f1c1f9e-0000-4000-8000-000000000001")
	student := uuid.MustParse("6f1c1f9e-0000-4000-8000-000000000002")
	course := uuid.MustParse("6f1c1f9e-0000-4000-8000-000000000003")

	data, err := json.Marshal(UserCourseCreated{
		ID:               id,
		StudentID:        student,
		CourseID:         course,
		Point:            0,
		CompletionStatus: CompletionNotStarted,
		CreatedAt:        time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"id", "studentId", "courseId", "point", "completionStatus", "createdAt"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("wire payload missing %q; got %v", key, fields)
		}
	}
	if fields["completionStatus"] != "NotStarted" {
		t.Errorf("completionStatus = %v, want NotStarted", fields["completionStatus"])
	}
	if fields["point"] != float64(0) {
		t.Errorf("point = %v, want 0", fields["point"])
	}
}

func TestUpdatedPayloadOmitsUntouchedFields(t *testing.T) {
	status := CourseStatusApproved
	data, err := json.Marshal(CourseUpdated{
		ID:        uuid.New(),
		Status:    &status,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := fields["name"]; ok {
		t.Error("untouched name should be omitted, not null")
	}
	if _, ok := fields["isDeleted"]; ok {
		t.Error("untouched isDeleted should be omitted, not null")
	}
	if fields["status"] != "Approved" {
		t.Errorf("status = %v", fields["status"])
	}
}

func TestOpenUnknownSubjectFails(t *testing.T) {
	env := Envelope{Subject: Subject("mystery:event"), Data: json.RawMessage(`{}`)}
	if _, err := env.Open(); err == nil {
		t.Fatal("expected error for unknown subject")
	}
}
