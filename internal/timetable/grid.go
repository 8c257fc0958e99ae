package timetable

import "fmt"

// Cell addresses one (classroom, day, slot) coordinate in the grid.
type Cell struct {
	Classroom int `json:"classroom"`
	Day       int `json:"day"`
	Slot      int `json:"slot"`
}

// Grid is the 3-D assignment table holding at most one lesson per cell.
// Cells are stored classroom-major, so linear index i covers the same
// (day, slot) position in every classroom at stride days*slots.
type Grid struct {
	classrooms int
	days       int
	slots      int
	cells      []*Lesson
}

// NewGrid allocates an empty grid with the given dimensions.
func NewGrid(classrooms, days, slots int) *Grid {
	return &Grid{
		classrooms: classrooms,
		days:       days,
		slots:      slots,
		cells:      make([]*Lesson, classrooms*days*slots),
	}
}

// Classrooms returns the classroom dimension.
func (g *Grid) Classrooms() int { return g.classrooms }

// Days returns the day dimension.
func (g *Grid) Days() int { return g.days }

// Slots returns the per-day slot dimension.
func (g *Grid) Slots() int { return g.slots }

// Capacity returns the total number of cells.
func (g *Grid) Capacity() int { return len(g.cells) }

// Index converts a cell coordinate to its linear index.
func (g *Grid) Index(c Cell) int {
	return (c.Classroom*g.days+c.Day)*g.slots + c.Slot
}

// CellOf converts a linear index back to a cell coordinate.
func (g *Grid) CellOf(i int) Cell {
	return Cell{
		Classroom: i / (g.days * g.slots),
		Day:       (i / g.slots) % g.days,
		Slot:      i % g.slots,
	}
}

// WeekPosition returns the linear time-of-week position of index i, shared
// by all classrooms. Instructor conflicts at seeding time are checked at
// this granularity only.
func (g *Grid) WeekPosition(i int) int {
	return i % (g.days * g.slots)
}

// At returns the lesson in the given cell, nil when free.
func (g *Grid) At(c Cell) *Lesson {
	return g.cells[g.Index(c)]
}

// AtIndex returns the lesson at the linear index, nil when free.
func (g *Grid) AtIndex(i int) *Lesson {
	return g.cells[i]
}

// Put places a lesson at the linear index. The cell must be free.
func (g *Grid) Put(i int, lesson *Lesson) error {
	if g.cells[i] != nil {
		return fmt.Errorf("cell %v already occupied", g.CellOf(i))
	}
	g.cells[i] = lesson
	return nil
}

// Relocate transfers the lesson at from into the free cell at to.
func (g *Grid) Relocate(from, to int) error {
	if g.cells[from] == nil {
		return fmt.Errorf("cell %v is empty", g.CellOf(from))
	}
	if g.cells[to] != nil {
		return fmt.Errorf("cell %v already occupied", g.CellOf(to))
	}
	g.cells[to] = g.cells[from]
	g.cells[from] = nil
	return nil
}

// OccupiedCount returns the number of occupied cells.
func (g *Grid) OccupiedCount() int {
	n := 0
	for _, l := range g.cells {
		if l != nil {
			n++
		}
	}
	return n
}

// Occupied returns the linear indices of all occupied cells in order.
func (g *Grid) Occupied() []int {
	var out []int
	for i, l := range g.cells {
		if l != nil {
			out = append(out, i)
		}
	}
	return out
}

// Free returns the linear indices of all free cells in order.
func (g *Grid) Free() []int {
	var out []int
	for i, l := range g.cells {
		if l == nil {
			out = append(out, i)
		}
	}
	return out
}

// Clone copies the cell table. Lessons themselves are not copied: they are
// immutable during search, so a clone diverges from its origin only in which
// cell holds which lesson.
func (g *Grid) Clone() *Grid {
	cells := make([]*Lesson, len(g.cells))
	copy(cells, g.cells)
	return &Grid{classrooms: g.classrooms, days: g.days, slots: g.slots, cells: cells}
}
