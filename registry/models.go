package registry

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Person is a registered trainer or student. Courses holds the ids of the
// courses the person is enrolled in, oldest first, no duplicates.
type Person struct {
	ID        int
	LastName  string `validate:"required"`
	FirstName string `validate:"required"`
	Trainer   bool
	Courses   []int

	// Student fields.
	Discount    bool
	DiscountPct int `validate:"min=0,max=100"`

	// Trainer fields. Weekdays the trainer is unavailable, 1=Monday.
	DaysOff []int `validate:"unique,dive,min=1,max=7"`
}

// Session is one weekly occurrence of a course. Start and Hours are decimal
// hours (8.5 means 08:30).
type Session struct {
	Weekday int     `validate:"min=1,max=7"`
	Start   float64 `validate:"gte=6,lte=18"`
	Hours   float64 `validate:"gte=1,lte=8"`
}

// Course is a training offering. Enrolled is the course-side view of the
// enrollment relation; Registry keeps it consistent with each person's
// Courses list. Prereqs may reference course ids that no longer exist.
type Course struct {
	ID       int
	Name     string  `validate:"required"`
	Price    float64 `validate:"gte=0"`
	Sessions []Session
	Prereqs  []int
	Enrolled []*Person
}

var validate = validator.New()

// NewPerson allocates a person with empty role-specific fields. The id is
// assigned by Registry.AddPerson.
func NewPerson(lastName, firstName string, trainer bool) *Person {
	return &Person{LastName: lastName, FirstName: firstName, Trainer: trainer}
}

// NewCourse allocates a course with no sessions, prerequisites or
// participants. The id is assigned by Registry.AddCourse.
func NewCourse(name string, price float64) *Course {
	return &Course{Name: name, Price: price}
}

// NewSession builds a session and rejects out-of-range fields.
func NewSession(weekday int, start, hours float64) (Session, error) {
	s := Session{Weekday: weekday, Start: start, Hours: hours}
	if err := validate.Struct(s); err != nil {
		return Session{}, fmt.Errorf("invalid session: %w", err)
	}
	return s, nil
}

// Validate checks field ranges. Sessions are validated one by one so the
// error names the offending session.
func (c *Course) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("course %q: %w", c.Name, err)
	}
	for i, s := range c.Sessions {
		if err := validate.Struct(s); err != nil {
			return fmt.Errorf("course %q session %d: %w", c.Name, i+1, err)
		}
	}
	return nil
}

func (p *Person) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("person %s %s: %w", p.LastName, p.FirstName, err)
	}
	return nil
}

// Role returns "trainer" or "student" for display.
func (p *Person) Role() string {
	if p.Trainer {
		return "trainer"
	}
	return "student"
}

// EnrolledIn reports whether the person's course list contains id.
func (p *Person) EnrolledIn(id int) bool {
	for _, c := range p.Courses {
		if c == id {
			return true
		}
	}
	return false
}

// End returns the decimal hour at which the session finishes.
func (s Session) End() float64 { return s.Start + s.Hours }

var dayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayName maps a weekday number 1..7 to its English name.
func DayName(weekday int) string {
	if weekday < 1 || weekday > 7 {
		return fmt.Sprintf("day %d", weekday)
	}
	return dayNames[weekday]
}
