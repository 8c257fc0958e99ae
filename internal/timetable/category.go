package timetable

import "fmt"

// LessonCategory identifies one of the group-lesson types offered by the
// studio. The numeric values are shared with the client intake questionnaire
// and must never be renumbered.
type LessonCategory int

const (
	CategoryCelluliteKiller LessonCategory = 0
	CategoryZumba           LessonCategory = 1
	CategoryZumbaAdvanced   LessonCategory = 2
	CategoryFitness         LessonCategory = 3
	CategoryCrossFit        LessonCategory = 4
	CategoryBrazilianButt   LessonCategory = 5
	CategoryPilates         LessonCategory = 6
	CategoryCityPump        LessonCategory = 7
	CategoryStretching      LessonCategory = 8
	CategoryYoga            LessonCategory = 9
)

// CategoryCount is the number of known lesson categories.
const CategoryCount = 10

var categoryNames = [CategoryCount]string{
	"CELLULITE_KILLER",
	"ZUMBA",
	"ZUMBA_ADVANCED",
	"FITNESS",
	"CROSSFIT",
	"BRAZILIAN_BUTT",
	"PILATES",
	"CITY_PUMP",
	"STRETCHING",
	"YOGA",
}

// String returns the questionnaire label for the category.
func (c LessonCategory) String() string {
	if !c.Valid() {
		return fmt.Sprintf("UNKNOWN(%d)", int(c))
	}
	return categoryNames[c]
}

// Valid reports whether the category is one of the known ordinals.
func (c LessonCategory) Valid() bool {
	return c >= 0 && c < CategoryCount
}

// CategoryFromOrdinal maps a questionnaire ordinal onto a LessonCategory.
// Unknown ordinals are a data error and are never silently dropped.
func CategoryFromOrdinal(ordinal int) (LessonCategory, error) {
	c := LessonCategory(ordinal)
	if !c.Valid() {
		return 0, fmt.Errorf("%w: ordinal %d", ErrUnknownCategory, ordinal)
	}
	return c, nil
}

// Categories returns all known categories in ordinal order.
func Categories() []LessonCategory {
	out := make([]LessonCategory, CategoryCount)
	for i := range out {
		out[i] = LessonCategory(i)
	}
	return out
}
