package timetable

// CategorySet is an immutable membership set over lesson categories.
type CategorySet map[LessonCategory]struct{}

// NewCategorySet builds a set from the given categories.
func NewCategorySet(categories []LessonCategory) CategorySet {
	set := make(CategorySet, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s CategorySet) Has(c LessonCategory) bool {
	_, ok := s[c]
	return ok
}

// Ordinals returns the member ordinals in ascending order.
func (s CategorySet) Ordinals() []int {
	out := make([]int, 0, len(s))
	for i := 0; i < CategoryCount; i++ {
		if s.Has(LessonCategory(i)) {
			out = append(out, i)
		}
	}
	return out
}

// Client is a studio member together with the categories they signed up for.
// Treated as immutable after construction.
type Client struct {
	ID     int
	Wanted CategorySet
}

// NewClient constructs a client from questionnaire data.
func NewClient(id int, wanted []LessonCategory) Client {
	return Client{ID: id, Wanted: NewCategorySet(wanted)}
}

// Instructor is a staff member together with the categories they are
// qualified to teach. Treated as immutable after construction.
type Instructor struct {
	ID        int
	Qualified CategorySet
}

// NewInstructor constructs an instructor from roster data.
func NewInstructor(id int, qualified []LessonCategory) Instructor {
	return Instructor{ID: id, Qualified: NewCategorySet(qualified)}
}
