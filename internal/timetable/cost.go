package timetable

// instructorDay keys per-instructor presence accounting.
type instructorDay struct {
	instructor int
	day        int
}

// classroomDay keys per-classroom rental accounting.
type classroomDay struct {
	classroom int
	day       int
}

// Cost evaluates the net operating revenue of a grid: ticket income minus
// instructor hours, instructor presence bonuses and classroom rental days.
// Pure and deterministic; derivable from grid contents and config alone.
func Cost(g *Grid, cfg Config) float64 {
	participants := 0
	hours := 0
	presence := make(map[instructorDay]struct{})
	rented := make(map[classroomDay]struct{})

	for c := 0; c < g.Classrooms(); c++ {
		for d := 0; d < g.Days(); d++ {
			for s := 0; s < g.Slots(); s++ {
				lesson := g.At(Cell{Classroom: c, Day: d, Slot: s})
				if lesson == nil {
					continue
				}
				participants += lesson.Headcount()
				hours++
				presence[instructorDay{instructor: lesson.Instructor.ID, day: d}] = struct{}{}
				rented[classroomDay{classroom: c, day: d}] = struct{}{}
			}
		}
	}

	return cfg.TicketPrice*float64(participants) -
		cfg.HourlyPay*float64(hours) -
		cfg.PresenceBonus*float64(len(presence)) -
		cfg.RentalCost*float64(len(rented))
}
