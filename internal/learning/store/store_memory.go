package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"questify/internal/learning"
	"questify/pkg/apperrors"
)

type pairKey struct {
	a uuid.UUID
	b uuid.UUID
}

// Memory is an in-memory Store used by unit tests and local development.
type Memory struct {
	mu          sync.RWMutex
	userCourses map[uuid.UUID]learning.UserCourse
	inventories map[pairKey]learning.Inventory
	courses     map[uuid.UUID]learning.CourseProjection
	islands     map[uuid.UUID]learning.IslandProjection
	users       map[uuid.UUID]learning.UserProjection
}

func NewMemory() *Memory {
	return &Memory{
		userCourses: make(map[uuid.UUID]learning.UserCourse),
		inventories: make(map[pairKey]learning.Inventory),
		courses:     make(map[uuid.UUID]learning.CourseProjection),
		islands:     make(map[uuid.UUID]learning.IslandProjection),
		users:       make(map[uuid.UUID]learning.UserProjection),
	}
}

func (m *Memory) CreateUserCourse(_ context.Context, uc learning.UserCourse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.userCourses {
		if existing.StudentID == uc.StudentID && existing.CourseID == uc.CourseID {
			return apperrors.BadRequest("Already enrolled in this course")
		}
	}
	m.userCourses[uc.ID] = uc
	return nil
}

func (m *Memory) UpdateUserCourse(_ context.Context, uc learning.UserCourse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.userCourses[uc.ID]; !ok {
		return apperrors.NotFound()
	}
	m.userCourses[uc.ID] = uc
	return nil
}

func (m *Memory) UserCourseByID(_ context.Context, id uuid.UUID) (learning.UserCourse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	uc, ok := m.userCourses[id]
	if !ok {
		return learning.UserCourse{}, apperrors.NotFound()
	}
	return uc, nil
}

func (m *Memory) UserCourseByStudentAndCourse(_ context.Context, studentID, courseID uuid.UUID) (learning.UserCourse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, uc := range m.userCourses {
		if uc.StudentID == studentID && uc.CourseID == courseID {
			return uc, nil
		}
	}
	return learning.UserCourse{}, apperrors.NotFound()
}

func (m *Memory) ListUserCoursesByStudent(_ context.Context, studentID uuid.UUID) ([]learning.UserCourse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []learning.UserCourse
	for _, uc := range m.userCourses {
		if uc.StudentID == studentID {
			out = append(out, uc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) CreateInventory(_ context.Context, inv learning.Inventory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey{inv.UserID, inv.CourseID}
	if _, ok := m.inventories[key]; ok {
		return apperrors.BadRequest("Inventory already exists")
	}
	m.inventories[key] = inv
	return nil
}

func (m *Memory) UpdateInventory(_ context.Context, inv learning.Inventory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey{inv.UserID, inv.CourseID}
	if _, ok := m.inventories[key]; !ok {
		return apperrors.NotFound()
	}
	m.inventories[key] = inv
	return nil
}

func (m *Memory) InventoryByUserAndCourse(_ context.Context, userID, courseID uuid.UUID) (learning.Inventory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.inventories[pairKey{userID, courseID}]
	if !ok {
		return learning.Inventory{}, apperrors.NotFound()
	}
	return inv, nil
}

func (m *Memory) UpsertCourseProjection(_ context.Context, c learning.CourseProjection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[c.ID] = c
	return nil
}

func (m *Memory) CourseProjectionByID(_ context.Context, id uuid.UUID) (learning.CourseProjection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[id]
	if !ok {
		return learning.CourseProjection{}, apperrors.NotFound()
	}
	return c, nil
}

func (m *Memory) UpsertIslandProjection(_ context.Context, i learning.IslandProjection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.islands[i.ID] = i
	return nil
}

func (m *Memory) IslandProjectionByID(_ context.Context, id uuid.UUID) (learning.IslandProjection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.islands[id]
	if !ok {
		return learning.IslandProjection{}, apperrors.NotFound()
	}
	return i, nil
}

func (m *Memory) UpsertUserProjection(_ context.Context, u learning.UserProjection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *Memory) UserProjectionByID(_ context.Context, id uuid.UUID) (learning.UserProjection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return learning.UserProjection{}, apperrors.NotFound()
	}
	return u, nil
}
