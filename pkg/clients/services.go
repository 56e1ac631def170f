package clients

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"questify/pkg/events"
)

// UserSummary is the auth service's public user shape.
type UserSummary struct {
	ID        uuid.UUID         `json:"id"`
	Gmail     string            `json:"gmail"`
	Role      events.Role       `json:"role"`
	Status    events.UserStatus `json:"status"`
	FirstName string            `json:"firstName,omitempty"`
	LastName  string            `json:"lastName,omitempty"`
}

// UsersClient calls the auth service.
type UsersClient struct {
	baseClient
}

// NewUsersClient points at the auth service's base URL.
func NewUsersClient(baseURL string, logger *slog.Logger) *UsersClient {
	return &UsersClient{newBaseClient(baseURL, "/api/users", logger)}
}

// GetUser fetches one user by id.
func (c *UsersClient) GetUser(ctx context.Context, id uuid.UUID) (*UserSummary, error) {
	var user UserSummary
	if err := c.get(ctx, "/"+id.String(), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CourseSummary is the course-mgmt service's public course shape.
type CourseSummary struct {
	ID        uuid.UUID           `json:"id"`
	TeacherID uuid.UUID           `json:"teacherId"`
	Name      string              `json:"name"`
	Status    events.CourseStatus `json:"status"`
	Price     float64             `json:"price"`
	CreatedAt time.Time           `json:"createdAt"`
}

// CourseMgmtClient calls the course-management service.
type CourseMgmtClient struct {
	baseClient
}

// NewCourseMgmtClient points at the course-mgmt service's base URL.
func NewCourseMgmtClient(baseURL string, logger *slog.Logger) *CourseMgmtClient {
	return &CourseMgmtClient{newBaseClient(baseURL, "/api/course-mgmt", logger)}
}

// GetCourse fetches one course by id.
func (c *CourseMgmtClient) GetCourse(ctx context.Context, id uuid.UUID) (*CourseSummary, error) {
	var course CourseSummary
	if err := c.get(ctx, "/courses/"+id.String(), &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// EnrollmentSummary is the learning service's public enrollment shape.
type EnrollmentSummary struct {
	ID               uuid.UUID               `json:"id"`
	StudentID        uuid.UUID               `json:"studentId"`
	CourseID         uuid.UUID               `json:"courseId"`
	Point            int                     `json:"point"`
	CompletionStatus events.CompletionStatus `json:"completionStatus"`
}

// CourseLearningClient calls the course-learning service.
type CourseLearningClient struct {
	baseClient
}

// NewCourseLearningClient points at the learning service's base URL.
func NewCourseLearningClient(baseURL string, logger *slog.Logger) *CourseLearningClient {
	return &CourseLearningClient{newBaseClient(baseURL, "/api/course-learning", logger)}
}

// GetEnrollment fetches one enrollment by id.
func (c *CourseLearningClient) GetEnrollment(ctx context.Context, id uuid.UUID) (*EnrollmentSummary, error) {
	var enrollment EnrollmentSummary
	if err := c.get(ctx, "/enrollments/"+id.String(), &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// GetEnrollmentByStudentAndCourse fetches a student's enrollment in a
// course. Peer services use this to gate per-course actions.
func (c *CourseLearningClient) GetEnrollmentByStudentAndCourse(ctx context.Context, courseID, studentID uuid.UUID) (*EnrollmentSummary, error) {
	var enrollment EnrollmentSummary
	if err := c.get(ctx, "/courses/"+courseID.String()+"/enrollments/"+studentID.String(), &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}
