package registry

import (
	"fmt"
	"sort"
)

// Registry owns the person and course stores and the enrollment relation
// between them. All mutation goes through its methods; callers holding a
// *Registry never touch the internal slices directly.
//
// The registry is not safe for concurrent use. It is built for a single
// interactive session; callers that share one across goroutines must
// serialize access themselves.
type Registry struct {
	people  []*Person // most recently inserted first
	courses []*Course // most recently inserted first

	personByID map[int]*Person
	courseByID map[int]*Course
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		personByID: make(map[int]*Person),
		courseByID: make(map[int]*Course),
	}
}

// nextID allocates max surviving id + 1, or 1 for an empty store.
// Deriving it from the newest record alone would reuse an id once that
// record is deleted; scanning all survivors keeps ids unique for the
// process lifetime.
func nextPersonID(byID map[int]*Person) int {
	max := 0
	for id := range byID {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func nextCourseID(byID map[int]*Course) int {
	max := 0
	for id := range byID {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// AddPerson validates p, assigns its id and prepends it to the store.
func (r *Registry) AddPerson(p *Person) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.ID = nextPersonID(r.personByID)
	r.people = append([]*Person{p}, r.people...)
	r.personByID[p.ID] = p
	return nil
}

// AddCourse validates c, rejects duplicate names, assigns the id and
// prepends the course to the store.
func (r *Registry) AddCourse(c *Course) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := r.FindCourse(c.Name); err == nil {
		return fmt.Errorf("course %q: %w", c.Name, ErrAlreadyExists)
	}
	c.ID = nextCourseID(r.courseByID)
	r.courses = append([]*Course{c}, r.courses...)
	r.courseByID[c.ID] = c
	return nil
}

// Person looks up a person by id.
func (r *Registry) Person(id int) (*Person, error) {
	p, ok := r.personByID[id]
	if !ok {
		return nil, fmt.Errorf("person %d: %w", id, ErrNotFound)
	}
	return p, nil
}

// Course looks up a course by id.
func (r *Registry) Course(id int) (*Course, error) {
	c, ok := r.courseByID[id]
	if !ok {
		return nil, fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	return c, nil
}

// FindPerson returns the person matching last name, first name and role
// exactly. Used to detect duplicates before an insert.
func (r *Registry) FindPerson(lastName, firstName string, trainer bool) (*Person, error) {
	for _, p := range r.people {
		if p.LastName == lastName && p.FirstName == firstName && p.Trainer == trainer {
			return p, nil
		}
	}
	return nil, fmt.Errorf("person %s %s: %w", lastName, firstName, ErrNotFound)
}

// FindCourse returns the course with the given name.
func (r *Registry) FindCourse(name string) (*Course, error) {
	for _, c := range r.courses {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("course %q: %w", name, ErrNotFound)
}

// People returns the person store in display order, most recently
// inserted first.
func (r *Registry) People() []*Person {
	out := make([]*Person, len(r.people))
	copy(out, r.people)
	return out
}

// Courses returns the course store in display order.
func (r *Registry) Courses() []*Course {
	out := make([]*Course, len(r.courses))
	copy(out, r.courses)
	return out
}

// Enroll adds the person to the course roster and the course id to the
// person's list. Both sides are updated in this one call so the
// bidirectional invariant holds after it returns.
func (r *Registry) Enroll(courseID, personID int) error {
	c, err := r.Course(courseID)
	if err != nil {
		return err
	}
	p, err := r.Person(personID)
	if err != nil {
		return err
	}
	for _, e := range c.Enrolled {
		if e.ID == personID {
			return fmt.Errorf("person %d in course %q: %w", personID, c.Name, ErrAlreadyEnrolled)
		}
	}
	c.Enrolled = append([]*Person{p}, c.Enrolled...)
	p.Courses = append(p.Courses, courseID)
	return nil
}

// Unenroll removes the person from the course roster and the course id
// from the person's list.
func (r *Registry) Unenroll(courseID, personID int) error {
	c, err := r.Course(courseID)
	if err != nil {
		return err
	}
	if !removeFromRoster(c, personID) {
		return fmt.Errorf("person %d in course %q: %w", personID, c.Name, ErrNotFound)
	}
	if p, err := r.Person(personID); err == nil {
		p.Courses = removeID(p.Courses, courseID)
	}
	return nil
}

// DeletePerson removes the person from every course roster, then from the
// person store.
func (r *Registry) DeletePerson(id int) error {
	p, err := r.Person(id)
	if err != nil {
		return err
	}
	for _, c := range r.courses {
		removeFromRoster(c, id)
	}
	for i, q := range r.people {
		if q.ID == id {
			r.people = append(r.people[:i], r.people[i+1:]...)
			break
		}
	}
	delete(r.personByID, id)
	p.Courses = nil
	return nil
}

// DeleteCourse removes the course from the store, then strips its id from
// every person's enrolled-course list.
func (r *Registry) DeleteCourse(id int) error {
	if _, err := r.Course(id); err != nil {
		return err
	}
	for i, c := range r.courses {
		if c.ID == id {
			r.courses = append(r.courses[:i], r.courses[i+1:]...)
			break
		}
	}
	delete(r.courseByID, id)
	for _, p := range r.people {
		p.Courses = removeID(p.Courses, id)
	}
	return nil
}

// Roster returns the course participants with the given role, in roster
// order.
func (r *Registry) Roster(courseID int, trainer bool) ([]*Person, error) {
	c, err := r.Course(courseID)
	if err != nil {
		return nil, err
	}
	var out []*Person
	for _, p := range c.Enrolled {
		if p.Trainer == trainer {
			out = append(out, p)
		}
	}
	return out, nil
}

// Orphans returns prerequisite ids that resolve to no course, sorted.
// The planning projection silently omits them; this makes the gap
// visible to callers that care.
func (r *Registry) Orphans() []int {
	seen := make(map[int]bool)
	var out []int
	for _, c := range r.courses {
		for _, id := range c.Prereqs {
			if _, ok := r.courseByID[id]; !ok && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	sort.Ints(out)
	return out
}

// rebuildEnrollment re-derives every course roster from the person-side
// lists. The course side is never persisted; the loader calls this after
// parsing both files. Course ids that resolve to no course are dropped
// from the person's list.
func (r *Registry) rebuildEnrollment() {
	for _, c := range r.courses {
		c.Enrolled = nil
	}
	for _, p := range r.people {
		kept := p.Courses[:0]
		for _, id := range p.Courses {
			c, ok := r.courseByID[id]
			if !ok {
				continue
			}
			kept = append(kept, id)
			c.Enrolled = append([]*Person{p}, c.Enrolled...)
		}
		p.Courses = kept
	}
}

func removeFromRoster(c *Course, personID int) bool {
	for i, p := range c.Enrolled {
		if p.ID == personID {
			c.Enrolled = append(c.Enrolled[:i], c.Enrolled[i+1:]...)
			return true
		}
	}
	return false
}

func removeID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
