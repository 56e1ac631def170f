// Package codeproblem owns coding exercises and their judged attempts.
// Problems hang off challenges authored in course-mgmt; the challenge rows
// here are projections fed by events.
package codeproblem

import (
	"time"

	"github.com/google/uuid"
)

// TestCase is one input/expected-output pair of a problem.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

// CodeProblem is a coding exercise attached to a challenge.
type CodeProblem struct {
	ID          uuid.UUID  `json:"id"`
	ChallengeID uuid.UUID  `json:"challengeId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StarterCode string     `json:"starterCode,omitempty"`
	TestCases   []TestCase `json:"testCases"`
	GoldReward  int        `json:"goldReward"`
	PointReward int        `json:"pointReward"`
	IsDeleted   bool       `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Attempt is one judged submission against a problem.
type Attempt struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	CodeProblemID uuid.UUID `json:"codeProblemId"`
	Code          string    `json:"code"`
	Answer        string    `json:"answer,omitempty"`
	Gold          int       `json:"gold"`
	Point         int       `json:"point"`
	Progress      float64   `json:"progress"`
	Finished      bool      `json:"finished"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ChallengeProjection mirrors the challenges authored in course-mgmt so
// problems can only attach to challenges that exist.
type ChallengeProjection struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"courseId"`
	TeacherID uuid.UUID `json:"teacherId"`
	IsDeleted bool      `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}
