package timetable

// Lesson is one scheduled class: who teaches it, what is taught and who
// attends. A lesson is owned by exactly one grid cell at a time; relocations
// transfer the pointer, they never duplicate the lesson.
type Lesson struct {
	Instructor   Instructor
	Category     LessonCategory
	Participants []Client
}

// NewLesson constructs a lesson for the given group.
func NewLesson(instructor Instructor, category LessonCategory, participants []Client) *Lesson {
	return &Lesson{Instructor: instructor, Category: category, Participants: participants}
}

// Headcount returns the number of participants.
func (l *Lesson) Headcount() int {
	if l == nil {
		return 0
	}
	return len(l.Participants)
}
