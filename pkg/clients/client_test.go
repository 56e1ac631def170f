package clients

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/platform/httpjson"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetCourseHitsFixedPrefix(t *testing.T) {
	courseID := uuid.New()
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		httpjson.Write(w, http.StatusOK, CourseSummary{
			ID:     courseID,
			Name:   "Data Structures",
			Status: events.CourseStatusApproved,
		})
	}))
	defer server.Close()

	client := NewCourseMgmtClient(server.URL, testLogger())
	course, err := client.GetCourse(context.Background(), courseID)
	require.NoError(t, err)
	assert.Equal(t, "/api/course-mgmt/courses/"+courseID.String(), gotPath)
	assert.Equal(t, "Data Structures", course.Name)
	assert.Equal(t, events.CourseStatusApproved, course.Status)
}

func TestGetEnrollmentByStudentAndCourse(t *testing.T) {
	courseID, studentID := uuid.New(), uuid.New()
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		httpjson.Write(w, http.StatusOK, EnrollmentSummary{
			StudentID:        studentID,
			CourseID:         courseID,
			CompletionStatus: events.CompletionInProgress,
		})
	}))
	defer server.Close()

	client := NewCourseLearningClient(server.URL, testLogger())
	enrollment, err := client.GetEnrollmentByStudentAndCourse(context.Background(), courseID, studentID)
	require.NoError(t, err)
	assert.Equal(t, "/api/course-learning/courses/"+courseID.String()+"/enrollments/"+studentID.String(), gotPath)
	assert.Equal(t, studentID, enrollment.StudentID)
}

func TestNon2xxSurfacesPeerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpjson.WriteError(w, apperrors.NotFound())
	}))
	defer server.Close()

	client := NewUsersClient(server.URL, testLogger())
	_, err := client.GetUser(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	assert.Equal(t, "Not Found", err.Error())
}

func TestTransportErrorReturnedUnchanged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force connection refused

	client := NewCourseLearningClient(server.URL, testLogger())
	_, err := client.GetEnrollment(context.Background(), uuid.New())
	require.Error(t, err)
	assert.False(t, apperrors.Is(err, apperrors.CodeInternal), "transport errors must not be rewrapped")
}

func TestMalformedErrorBodyStillMapsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewUsersClient(server.URL, testLogger())
	_, err := client.GetUser(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
}
