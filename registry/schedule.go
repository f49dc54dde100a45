package registry

import (
	"fmt"
	"io"
)

// PlanEntry is one course occurrence in the weekly schedule.
type PlanEntry struct {
	Course  *Course
	Start   float64
	End     float64
	Prereqs []string // resolved prerequisite names; unresolvable ids omitted
}

// DaySchedule groups the entries of one weekday.
type DaySchedule struct {
	Weekday int
	Entries []PlanEntry
}

// WeeklyPlan projects the course store onto weekdays 1..7. It is computed
// on demand from current state, never cached. Courses appear in store
// order within each day; a course with two sessions on the same day
// appears twice.
func (r *Registry) WeeklyPlan() []DaySchedule {
	plan := make([]DaySchedule, 7)
	for day := 1; day <= 7; day++ {
		plan[day-1].Weekday = day
		for _, c := range r.courses {
			for _, s := range c.Sessions {
				if s.Weekday != day {
					continue
				}
				plan[day-1].Entries = append(plan[day-1].Entries, PlanEntry{
					Course:  c,
					Start:   s.Start,
					End:     s.End(),
					Prereqs: r.prereqNames(c),
				})
			}
		}
	}
	return plan
}

func (r *Registry) prereqNames(c *Course) []string {
	var names []string
	for _, id := range c.Prereqs {
		if p, ok := r.courseByID[id]; ok {
			names = append(names, p.Name)
		}
	}
	return names
}

// WritePlanning renders the weekly schedule report. It is regenerated in
// full on every save; the file is write-only output, never parsed back.
func (r *Registry) WritePlanning(w io.Writer) error {
	rule := "********************************************************************************"
	for _, day := range r.WeeklyPlan() {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Courses on: %s\n", DayName(day.Weekday))
		fmt.Fprintln(w, rule)
		for _, e := range day.Entries {
			fmt.Fprintf(w, "ID: %d - Course: %s\n", e.Course.ID, e.Course.Name)
			fmt.Fprintln(w, "Participants:")
			fmt.Fprintln(w, "Trainers:")
			writeRoster(w, e.Course, true)
			fmt.Fprintln(w, "Students:")
			writeRoster(w, e.Course, false)
			fmt.Fprintf(w, "From: %.2f - To %.2f\n", e.Start, e.End)
			if len(e.Prereqs) > 0 {
				fmt.Fprint(w, "Prerequisites:")
				for _, name := range e.Prereqs {
					fmt.Fprintf(w, " %s", name)
				}
				fmt.Fprint(w, "\n\n")
			} else {
				fmt.Fprint(w, "Prerequisites: none\n\n")
			}
		}
	}
	return nil
}

func writeRoster(w io.Writer, c *Course, trainer bool) {
	for _, p := range c.Enrolled {
		if p.Trainer == trainer {
			fmt.Fprintf(w, "%2d %s %s\n", p.ID, p.LastName, p.FirstName)
		}
	}
}
