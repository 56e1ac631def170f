package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"questify/internal/coursemgmt"
	"questify/pkg/apperrors"
)

type prereqKey struct {
	islandID       uuid.UUID
	prerequisiteID uuid.UUID
}

type courseItemKey struct {
	courseID       uuid.UUID
	itemTemplateID uuid.UUID
}

// Memory keeps everything in maps behind one lock.
type Memory struct {
	mu              sync.RWMutex
	courses         map[uuid.UUID]coursemgmt.Course
	islandTemplates map[uuid.UUID]coursemgmt.IslandTemplate
	islands         map[uuid.UUID]coursemgmt.Island
	prerequisites   map[prereqKey]coursemgmt.PrerequisiteIsland
	levels          map[uuid.UUID]coursemgmt.Level
	challenges      map[uuid.UUID]coursemgmt.Challenge
	slides          map[uuid.UUID]coursemgmt.Slide
	itemTemplates   map[uuid.UUID]coursemgmt.ItemTemplate
	courseItems     map[courseItemKey]coursemgmt.CourseItemTemplate
}

func NewMemory() *Memory {
	return &Memory{
		courses:         make(map[uuid.UUID]coursemgmt.Course),
		islandTemplates: make(map[uuid.UUID]coursemgmt.IslandTemplate),
		islands:         make(map[uuid.UUID]coursemgmt.Island),
		prerequisites:   make(map[prereqKey]coursemgmt.PrerequisiteIsland),
		levels:          make(map[uuid.UUID]coursemgmt.Level),
		challenges:      make(map[uuid.UUID]coursemgmt.Challenge),
		slides:          make(map[uuid.UUID]coursemgmt.Slide),
		itemTemplates:   make(map[uuid.UUID]coursemgmt.ItemTemplate),
		courseItems:     make(map[courseItemKey]coursemgmt.CourseItemTemplate),
	}
}

func (m *Memory) CreateCourse(_ context.Context, course coursemgmt.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[course.ID] = course
	return nil
}

func (m *Memory) UpdateCourse(_ context.Context, course coursemgmt.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[course.ID]; !ok {
		return apperrors.NotFound()
	}
	m.courses[course.ID] = course
	return nil
}

func (m *Memory) CourseByID(_ context.Context, id uuid.UUID) (coursemgmt.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	course, ok := m.courses[id]
	if !ok || course.IsDeleted {
		return coursemgmt.Course{}, apperrors.NotFound()
	}
	return course, nil
}

func (m *Memory) ListCourses(_ context.Context) ([]coursemgmt.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var courses []coursemgmt.Course
	for _, course := range m.courses {
		if !course.IsDeleted {
			courses = append(courses, course)
		}
	}
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].CreatedAt.Before(courses[j].CreatedAt)
	})
	return courses, nil
}

func (m *Memory) CreateIslandTemplate(_ context.Context, tpl coursemgmt.IslandTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.islandTemplates[tpl.ID] = tpl
	return nil
}

func (m *Memory) UpdateIslandTemplate(_ context.Context, tpl coursemgmt.IslandTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.islandTemplates[tpl.ID]; !ok {
		return apperrors.NotFound()
	}
	m.islandTemplates[tpl.ID] = tpl
	return nil
}

func (m *Memory) IslandTemplateByID(_ context.Context, id uuid.UUID) (coursemgmt.IslandTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tpl, ok := m.islandTemplates[id]
	if !ok || tpl.IsDeleted {
		return coursemgmt.IslandTemplate{}, apperrors.NotFound()
	}
	return tpl, nil
}

func (m *Memory) ListIslandTemplates(_ context.Context) ([]coursemgmt.IslandTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var templates []coursemgmt.IslandTemplate
	for _, tpl := range m.islandTemplates {
		if !tpl.IsDeleted {
			templates = append(templates, tpl)
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].CreatedAt.Before(templates[j].CreatedAt)
	})
	return templates, nil
}

func (m *Memory) CreateIsland(_ context.Context, island coursemgmt.Island) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.islands[island.ID] = island
	return nil
}

func (m *Memory) UpdateIsland(_ context.Context, island coursemgmt.Island) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.islands[island.ID]; !ok {
		return apperrors.NotFound()
	}
	m.islands[island.ID] = island
	return nil
}

func (m *Memory) IslandByID(_ context.Context, id uuid.UUID) (coursemgmt.Island, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	island, ok := m.islands[id]
	if !ok || island.IsDeleted {
		return coursemgmt.Island{}, apperrors.NotFound()
	}
	return island, nil
}

func (m *Memory) ListIslands(_ context.Context, courseID uuid.UUID) ([]coursemgmt.Island, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var islands []coursemgmt.Island
	for _, island := range m.islands {
		if island.CourseID == courseID && !island.IsDeleted {
			islands = append(islands, island)
		}
	}
	sort.Slice(islands, func(i, j int) bool {
		return islands[i].Position < islands[j].Position
	})
	return islands, nil
}

func (m *Memory) CreatePrerequisite(_ context.Context, link coursemgmt.PrerequisiteIsland) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prerequisites[prereqKey{link.IslandID, link.PrerequisiteIslandID}] = link
	return nil
}

func (m *Memory) DeletePrerequisite(_ context.Context, islandID, prerequisiteID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := prereqKey{islandID, prerequisiteID}
	if _, ok := m.prerequisites[key]; !ok {
		return apperrors.NotFound()
	}
	delete(m.prerequisites, key)
	return nil
}

func (m *Memory) ListPrerequisites(_ context.Context, islandID uuid.UUID) ([]coursemgmt.PrerequisiteIsland, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var links []coursemgmt.PrerequisiteIsland
	for _, link := range m.prerequisites {
		if link.IslandID == islandID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.Before(links[j].CreatedAt)
	})
	return links, nil
}

func (m *Memory) CreateLevel(_ context.Context, level coursemgmt.Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[level.ID] = level
	return nil
}

func (m *Memory) UpdateLevel(_ context.Context, level coursemgmt.Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.levels[level.ID]; !ok {
		return apperrors.NotFound()
	}
	m.levels[level.ID] = level
	return nil
}

func (m *Memory) LevelByID(_ context.Context, id uuid.UUID) (coursemgmt.Level, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	level, ok := m.levels[id]
	if !ok || level.IsDeleted {
		return coursemgmt.Level{}, apperrors.NotFound()
	}
	return level, nil
}

func (m *Memory) ListLevels(_ context.Context, islandID uuid.UUID) ([]coursemgmt.Level, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var levels []coursemgmt.Level
	for _, level := range m.levels {
		if level.IslandID == islandID && !level.IsDeleted {
			levels = append(levels, level)
		}
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Position < levels[j].Position
	})
	return levels, nil
}

func (m *Memory) CreateChallenge(_ context.Context, challenge coursemgmt.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challenges[challenge.ID] = challenge
	return nil
}

func (m *Memory) UpdateChallenge(_ context.Context, challenge coursemgmt.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.challenges[challenge.ID]; !ok {
		return apperrors.NotFound()
	}
	m.challenges[challenge.ID] = challenge
	return nil
}

func (m *Memory) ChallengeByID(_ context.Context, id uuid.UUID) (coursemgmt.Challenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	challenge, ok := m.challenges[id]
	if !ok || challenge.IsDeleted {
		return coursemgmt.Challenge{}, apperrors.NotFound()
	}
	return challenge, nil
}

func (m *Memory) UpsertSlide(_ context.Context, slide coursemgmt.Slide) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slides[slide.ID] = slide
	return nil
}

func (m *Memory) SlideByID(_ context.Context, id uuid.UUID) (coursemgmt.Slide, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slide, ok := m.slides[id]
	if !ok || slide.IsDeleted {
		return coursemgmt.Slide{}, apperrors.NotFound()
	}
	return slide, nil
}

func (m *Memory) ListSlides(_ context.Context, challengeID uuid.UUID) ([]coursemgmt.Slide, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var slides []coursemgmt.Slide
	for _, slide := range m.slides {
		if slide.ChallengeID == challengeID && !slide.IsDeleted {
			slides = append(slides, slide)
		}
	}
	sort.Slice(slides, func(i, j int) bool {
		return slides[i].Index < slides[j].Index
	})
	return slides, nil
}

func (m *Memory) CreateItemTemplate(_ context.Context, tpl coursemgmt.ItemTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itemTemplates[tpl.ID] = tpl
	return nil
}

func (m *Memory) UpdateItemTemplate(_ context.Context, tpl coursemgmt.ItemTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.itemTemplates[tpl.ID]; !ok {
		return apperrors.NotFound()
	}
	m.itemTemplates[tpl.ID] = tpl
	return nil
}

func (m *Memory) ItemTemplateByID(_ context.Context, id uuid.UUID) (coursemgmt.ItemTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tpl, ok := m.itemTemplates[id]
	if !ok || tpl.IsDeleted {
		return coursemgmt.ItemTemplate{}, apperrors.NotFound()
	}
	return tpl, nil
}

func (m *Memory) ListItemTemplates(_ context.Context) ([]coursemgmt.ItemTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var templates []coursemgmt.ItemTemplate
	for _, tpl := range m.itemTemplates {
		if !tpl.IsDeleted {
			templates = append(templates, tpl)
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].CreatedAt.Before(templates[j].CreatedAt)
	})
	return templates, nil
}

func (m *Memory) UpsertCourseItemTemplate(_ context.Context, link coursemgmt.CourseItemTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courseItems[courseItemKey{link.CourseID, link.ItemTemplateID}] = link
	return nil
}

func (m *Memory) ListCourseItemTemplates(_ context.Context, courseID uuid.UUID) ([]coursemgmt.CourseItemTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var links []coursemgmt.CourseItemTemplate
	for _, link := range m.courseItems {
		if link.CourseID == courseID && !link.IsDeleted {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.Before(links[j].CreatedAt)
	})
	return links, nil
}
