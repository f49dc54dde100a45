package registry

import (
	"errors"
	"testing"
)

func addPerson(t *testing.T, r *Registry, last, first string, trainer bool) *Person {
	t.Helper()
	p := NewPerson(last, first, trainer)
	if err := r.AddPerson(p); err != nil {
		t.Fatalf("add person %s: %v", last, err)
	}
	return p
}

func addCourse(t *testing.T, r *Registry, name string, price float64) *Course {
	t.Helper()
	c := NewCourse(name, price)
	if err := r.AddCourse(c); err != nil {
		t.Fatalf("add course %s: %v", name, err)
	}
	return c
}

// checkInvariant verifies the bidirectional enrollment invariant:
// personId in course.Enrolled <=> courseId in person.Courses.
func checkInvariant(t *testing.T, r *Registry) {
	t.Helper()
	for _, c := range r.Courses() {
		for _, p := range c.Enrolled {
			if !p.EnrolledIn(c.ID) {
				t.Fatalf("course %d lists person %d, but person does not list the course", c.ID, p.ID)
			}
		}
	}
	for _, p := range r.People() {
		for _, id := range p.Courses {
			c, err := r.Course(id)
			if err != nil {
				t.Fatalf("person %d lists missing course %d", p.ID, id)
			}
			found := false
			for _, e := range c.Enrolled {
				if e.ID == p.ID {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("person %d lists course %d, but the roster does not contain them", p.ID, id)
			}
		}
	}
}

func TestIDAssignment(t *testing.T) {
	r := New()
	p1 := addPerson(t, r, "Dupont", "Jean", false)
	if p1.ID != 1 {
		t.Fatalf("first person: want id 1, got %d", p1.ID)
	}
	p2 := addPerson(t, r, "Martin", "Alice", true)
	if p2.ID != 2 {
		t.Fatalf("second person: want id 2, got %d", p2.ID)
	}
	c1 := addCourse(t, r, "Algo", 100)
	if c1.ID != 1 {
		t.Fatalf("first course: want id 1, got %d", c1.ID)
	}
}

// Allocation is max surviving id + 1, even when the store order is not
// monotone after a reload of hand-edited files.
func TestIDAllocationOverSurvivors(t *testing.T) {
	high := NewPerson("Old", "Timer", false)
	high.ID = 5
	low := NewPerson("New", "Comer", false)
	low.ID = 2
	r := build([]*Person{high, low}, nil)

	p := addPerson(t, r, "Next", "Up", false)
	if p.ID != 6 {
		t.Fatalf("want id 6 (max survivor 5 + 1), got %d", p.ID)
	}
}

func TestListOrderNewestFirst(t *testing.T) {
	r := New()
	addPerson(t, r, "Dupont", "Jean", false)
	addPerson(t, r, "Martin", "Alice", true)
	people := r.People()
	if len(people) != 2 || people[0].LastName != "Martin" || people[1].LastName != "Dupont" {
		t.Fatalf("want most recently inserted first, got %v, %v", people[0].LastName, people[1].LastName)
	}
}

func TestDuplicateCourseNameRejected(t *testing.T) {
	r := New()
	addCourse(t, r, "Algo", 100)

	dup := NewCourse("Algo", 250)
	err := r.AddCourse(dup)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
	if len(r.Courses()) != 1 {
		t.Fatalf("store size changed on rejected insert: %d", len(r.Courses()))
	}
}

func TestEnrollUnenrollInvariant(t *testing.T) {
	r := New()
	p := addPerson(t, r, "Dupont", "Jean", false)
	c1 := addCourse(t, r, "Algo", 100)
	c2 := addCourse(t, r, "Databases", 150)

	if err := r.Enroll(c1.ID, p.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	checkInvariant(t, r)
	if err := r.Enroll(c2.ID, p.ID); err != nil {
		t.Fatalf("enroll second: %v", err)
	}
	checkInvariant(t, r)

	if err := r.Enroll(c1.ID, p.ID); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("want ErrAlreadyEnrolled, got %v", err)
	}
	checkInvariant(t, r)
	if len(p.Courses) != 2 {
		t.Fatalf("duplicate enroll mutated the person list: %v", p.Courses)
	}

	if err := r.Unenroll(c1.ID, p.ID); err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	checkInvariant(t, r)
	if p.EnrolledIn(c1.ID) {
		t.Fatalf("course id still on person after unenroll")
	}

	if err := r.Unenroll(c1.ID, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound on repeated unenroll, got %v", err)
	}
}

func TestCascadeDeletePerson(t *testing.T) {
	r := New()
	p := addPerson(t, r, "Dupont", "Jean", false)
	other := addPerson(t, r, "Martin", "Alice", true)
	c1 := addCourse(t, r, "Algo", 100)
	c2 := addCourse(t, r, "Databases", 150)

	for _, id := range []int{c1.ID, c2.ID} {
		if err := r.Enroll(id, p.ID); err != nil {
			t.Fatalf("enroll: %v", err)
		}
		if err := r.Enroll(id, other.ID); err != nil {
			t.Fatalf("enroll: %v", err)
		}
	}

	if err := r.DeletePerson(p.ID); err != nil {
		t.Fatalf("delete person: %v", err)
	}
	if _, err := r.Person(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("person still in store: %v", err)
	}
	for _, c := range r.Courses() {
		for _, e := range c.Enrolled {
			if e.ID == p.ID {
				t.Fatalf("course %d still references deleted person", c.ID)
			}
		}
	}
	checkInvariant(t, r)

	if err := r.DeletePerson(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound on second delete, got %v", err)
	}
}

func TestCascadeDeleteCourse(t *testing.T) {
	r := New()
	p1 := addPerson(t, r, "Dupont", "Jean", false)
	p2 := addPerson(t, r, "Martin", "Alice", true)
	c := addCourse(t, r, "Algo", 100)
	keep := addCourse(t, r, "Databases", 150)

	for _, pid := range []int{p1.ID, p2.ID} {
		if err := r.Enroll(c.ID, pid); err != nil {
			t.Fatalf("enroll: %v", err)
		}
		if err := r.Enroll(keep.ID, pid); err != nil {
			t.Fatalf("enroll: %v", err)
		}
	}

	if err := r.DeleteCourse(c.ID); err != nil {
		t.Fatalf("delete course: %v", err)
	}
	if _, err := r.Course(c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("course still in store: %v", err)
	}
	for _, p := range r.People() {
		if p.EnrolledIn(c.ID) {
			t.Fatalf("person %d still references deleted course", p.ID)
		}
		if !p.EnrolledIn(keep.ID) {
			t.Fatalf("person %d lost an unrelated enrollment", p.ID)
		}
	}
	checkInvariant(t, r)
}

func TestEnrollThenDeleteScenario(t *testing.T) {
	r := New()
	p := addPerson(t, r, "Dupont", "Jean", false)
	c := addCourse(t, r, "Algo", 100)

	if err := r.Enroll(c.ID, p.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := r.Unenroll(c.ID, p.ID); err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	if err := r.DeletePerson(p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	course, _ := r.Course(c.ID)
	if len(course.Enrolled) != 0 {
		t.Fatalf("roster not empty after unenroll and delete")
	}
	if _, err := r.Person(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("person store still contains the deleted person")
	}
}

func TestRosterByRole(t *testing.T) {
	r := New()
	student := addPerson(t, r, "Dupont", "Jean", false)
	trainer := addPerson(t, r, "Martin", "Alice", true)
	c := addCourse(t, r, "Algo", 100)

	for _, pid := range []int{student.ID, trainer.ID} {
		if err := r.Enroll(c.ID, pid); err != nil {
			t.Fatalf("enroll: %v", err)
		}
	}

	trainers, err := r.Roster(c.ID, true)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(trainers) != 1 || trainers[0].ID != trainer.ID {
		t.Fatalf("want only the trainer, got %d people", len(trainers))
	}
	students, _ := r.Roster(c.ID, false)
	if len(students) != 1 || students[0].ID != student.ID {
		t.Fatalf("want only the student, got %d people", len(students))
	}
	if _, err := r.Roster(99, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing course, got %v", err)
	}
}

func TestFindPerson(t *testing.T) {
	r := New()
	addPerson(t, r, "Dupont", "Jean", false)

	if _, err := r.FindPerson("Dupont", "Jean", false); err != nil {
		t.Fatalf("find: %v", err)
	}
	// Same name, different role: no match.
	if _, err := r.FindPerson("Dupont", "Jean", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for role mismatch, got %v", err)
	}
}

func TestSessionValidation(t *testing.T) {
	if _, err := NewSession(1, 8, 2); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}
	bad := []struct {
		day          int
		start, hours float64
	}{
		{0, 8, 2},
		{8, 8, 2},
		{1, 5, 2},
		{1, 19, 2},
		{1, 8, 0.5},
		{1, 8, 9},
	}
	for _, tc := range bad {
		if _, err := NewSession(tc.day, tc.start, tc.hours); err == nil {
			t.Fatalf("session (%d, %v, %v) should be rejected", tc.day, tc.start, tc.hours)
		}
	}
}

func TestPersonValidation(t *testing.T) {
	r := New()
	p := NewPerson("Dupont", "Jean", false)
	p.DiscountPct = 150
	if err := r.AddPerson(p); err == nil {
		t.Fatalf("discount over 100 should be rejected")
	}
	if len(r.People()) != 0 {
		t.Fatalf("rejected insert mutated the store")
	}

	tr := NewPerson("Martin", "Alice", true)
	tr.DaysOff = []int{1, 1}
	if err := r.AddPerson(tr); err == nil {
		t.Fatalf("duplicate day off should be rejected")
	}
}

func TestOrphans(t *testing.T) {
	r := New()
	c := addCourse(t, r, "Advanced", 200)
	c.Prereqs = []int{42, 7}

	orphans := r.Orphans()
	if len(orphans) != 2 || orphans[0] != 7 || orphans[1] != 42 {
		t.Fatalf("want sorted orphans [7 42], got %v", orphans)
	}

	base := addCourse(t, r, "Basics", 50)
	c.Prereqs = append(c.Prereqs, base.ID)
	orphans = r.Orphans()
	if len(orphans) != 2 {
		t.Fatalf("resolved prerequisite reported as orphan: %v", orphans)
	}
}
