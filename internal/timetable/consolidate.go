package timetable

import "sort"

// dayRecord captures one instructor's footprint on one classroom-day: the
// slots they occupy and the slots still free that day.
type dayRecord struct {
	day      int
	occupied []int
	free     []int
}

// Consolidate repacks every instructor's lessons onto fewer distinct days,
// per classroom, by draining sparsely occupied days into days with enough
// free capacity. Lesson identity and participant assignment never change;
// only day/slot coordinates move. The scan restarts whenever a move lands,
// and the pass runs to a fixpoint over all instructors.
func Consolidate(g *Grid) {
	for changed := true; changed; {
		changed = false
		for c := 0; c < g.Classrooms(); c++ {
			for _, id := range instructorsIn(g, c) {
				for consolidateInstructor(g, c, id) {
					changed = true
				}
			}
		}
	}
}

// consolidateInstructor performs at most one drain for the instructor in the
// classroom and reports whether anything moved. Draining the smaller side is
// preferred; each successful drain empties a whole day for the instructor,
// so repeated calls terminate.
func consolidateInstructor(g *Grid, classroom, instructorID int) bool {
	records := dayRecords(g, classroom, instructorID)
	if len(records) < 2 {
		return false
	}
	sort.SliceStable(records, func(i, j int) bool {
		return len(records[i].occupied) < len(records[j].occupied)
	})

	for i := 0; i < len(records)-1; i++ {
		for j := i + 1; j < len(records); j++ {
			if len(records[i].occupied) <= len(records[j].free) {
				drain(g, classroom, records[i], records[j])
				return true
			}
			if len(records[j].occupied) <= len(records[i].free) {
				drain(g, classroom, records[j], records[i])
				return true
			}
		}
	}
	return false
}

// drain relocates every lesson of the source day into free slots of the
// target day.
func drain(g *Grid, classroom int, src, dst dayRecord) {
	for k, slot := range src.occupied {
		from := g.Index(Cell{Classroom: classroom, Day: src.day, Slot: slot})
		to := g.Index(Cell{Classroom: classroom, Day: dst.day, Slot: dst.free[k]})
		// Relocate cannot fail here: src slots are occupied and dst free
		// slots were counted before any move.
		_ = g.Relocate(from, to)
	}
}

// dayRecords collects, per day, the instructor's occupied slots and the free
// slots of that classroom-day. Days without any of the instructor's lessons
// are skipped.
func dayRecords(g *Grid, classroom, instructorID int) []dayRecord {
	var records []dayRecord
	for d := 0; d < g.Days(); d++ {
		rec := dayRecord{day: d}
		for s := 0; s < g.Slots(); s++ {
			lesson := g.At(Cell{Classroom: classroom, Day: d, Slot: s})
			switch {
			case lesson == nil:
				rec.free = append(rec.free, s)
			case lesson.Instructor.ID == instructorID:
				rec.occupied = append(rec.occupied, s)
			}
		}
		if len(rec.occupied) > 0 {
			records = append(records, rec)
		}
	}
	return records
}

// instructorsIn lists the distinct instructor IDs teaching in the classroom,
// in ascending order for deterministic iteration.
func instructorsIn(g *Grid, classroom int) []int {
	seen := make(map[int]struct{})
	for d := 0; d < g.Days(); d++ {
		for s := 0; s < g.Slots(); s++ {
			if lesson := g.At(Cell{Classroom: classroom, Day: d, Slot: s}); lesson != nil {
				seen[lesson.Instructor.ID] = struct{}{}
			}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
