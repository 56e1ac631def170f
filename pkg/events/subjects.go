// Package events is the shared messaging contract between Questify services.
// Each event kind has exactly one Subject and one payload type; the mapping
// is closed and covered by TestEverySubjectHasPayload. Payloads use the
// camelCase field names the platform has always put on the wire.
package events

// Subject is the fixed name identifying an event kind.
type Subject string

const (
	SubjectUserCreated Subject = "user:created"
	SubjectUserUpdated Subject = "user:updated"

	SubjectCourseCreated Subject = "course:created"
	SubjectCourseUpdated Subject = "course:updated"

	SubjectChallengeCreated Subject = "challenge:created"
	SubjectChallengeUpdated Subject = "challenge:updated"

	SubjectLevelCreated Subject = "level:created"
	SubjectLevelUpdated Subject = "level:updated"

	SubjectIslandCreated Subject = "island:created"
	SubjectIslandUpdated Subject = "island:updated"

	SubjectIslandTemplateCreated Subject = "island-template:created"
	SubjectIslandTemplateUpdated Subject = "island-template:updated"

	SubjectSlideUpdated Subject = "slide:updated"

	SubjectItemTemplateCreated Subject = "item-template:created"
	SubjectItemTemplateUpdated Subject = "item-template:updated"

	SubjectCourseItemTemplateCreated Subject = "course-item-template:created"
	SubjectCourseItemTemplateUpdated Subject = "course-item-template:updated"

	SubjectPrerequisiteIslandCreated Subject = "prerequisite-island:created"
	SubjectPrerequisiteIslandDeleted Subject = "prerequisite-island:deleted"

	SubjectUserCourseCreated Subject = "user-course:created"
	SubjectUserCourseUpdated Subject = "user-course:updated"

	SubjectUserCourseInventoryCreation Subject = "user-course-inventory:creation"

	SubjectAttemptCreated Subject = "attempt:created"
	SubjectAttemptUpdated Subject = "attempt:updated"
)

// Kafka topics, one per producing service.
const (
	TopicUsers          = "questify.users"
	TopicCourseMgmt     = "questify.course-mgmt"
	TopicCourseLearning = "questify.course-learning"
	TopicCodeProblem    = "questify.code-problem"
)

// subjectTopics routes each subject to the topic its owning service
// produces on.
var subjectTopics = map[Subject]string{
	SubjectUserCreated: TopicUsers,
	SubjectUserUpdated: TopicUsers,

	SubjectCourseCreated:             TopicCourseMgmt,
	SubjectCourseUpdated:             TopicCourseMgmt,
	SubjectChallengeCreated:          TopicCourseMgmt,
	SubjectChallengeUpdated:          TopicCourseMgmt,
	SubjectLevelCreated:              TopicCourseMgmt,
	SubjectLevelUpdated:              TopicCourseMgmt,
	SubjectIslandCreated:             TopicCourseMgmt,
	SubjectIslandUpdated:             TopicCourseMgmt,
	SubjectIslandTemplateCreated:     TopicCourseMgmt,
	SubjectIslandTemplateUpdated:     TopicCourseMgmt,
	SubjectSlideUpdated:              TopicCourseMgmt,
	SubjectItemTemplateCreated:       TopicCourseMgmt,
	SubjectItemTemplateUpdated:       TopicCourseMgmt,
	SubjectCourseItemTemplateCreated: TopicCourseMgmt,
	SubjectCourseItemTemplateUpdated: TopicCourseMgmt,
	SubjectPrerequisiteIslandCreated: TopicCourseMgmt,
	SubjectPrerequisiteIslandDeleted: TopicCourseMgmt,

	SubjectUserCourseCreated:           TopicCourseLearning,
	SubjectUserCourseUpdated:           TopicCourseLearning,
	SubjectUserCourseInventoryCreation: TopicCourseLearning,

	SubjectAttemptCreated: TopicCodeProblem,
	SubjectAttemptUpdated: TopicCodeProblem,
}

// TopicFor returns the Kafka topic a subject is produced on. The empty
// string means the subject is unknown.
func TopicFor(subject Subject) string {
	return subjectTopics[subject]
}

// Topics returns every topic the platform produces on, for bootstrap.
func Topics() []string {
	return []string{TopicUsers, TopicCourseMgmt, TopicCourseLearning, TopicCodeProblem}
}
