package registry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Flat-record codec. One record per line, whitespace-separated fields:
//
//	person: id last first trainerFlag nCourses courseIds... tail
//	  student tail: discountFlag [pct]
//	  trainer tail: nDaysOff days...
//	course: id nPrereqs prereqIds... nSessions (weekday start hours)... price name
//
// The course name runs to the end of the line and may contain spaces.
// Person names may not; the input boundary enforces that.

// fields walks the tokens of one record line and remembers how far it got,
// so the course name can be taken as the untokenized remainder.
type fields struct {
	line string
	pos  int
}

func (f *fields) next() (string, error) {
	for f.pos < len(f.line) && (f.line[f.pos] == ' ' || f.line[f.pos] == '\t') {
		f.pos++
	}
	if f.pos >= len(f.line) {
		return "", io.ErrUnexpectedEOF
	}
	start := f.pos
	for f.pos < len(f.line) && f.line[f.pos] != ' ' && f.line[f.pos] != '\t' {
		f.pos++
	}
	return f.line[start:f.pos], nil
}

func (f *fields) nextInt() (int, error) {
	tok, err := f.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("integer field: %w", err)
	}
	return n, nil
}

func (f *fields) nextFloat() (float64, error) {
	tok, err := f.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("float field: %w", err)
	}
	return v, nil
}

func (f *fields) rest() string { return strings.TrimSpace(f.line[f.pos:]) }

func (f *fields) nextCount(what string, limit int) (int, error) {
	n, err := f.nextInt()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > limit {
		return 0, fmt.Errorf("%s count %d out of range", what, n)
	}
	return n, nil
}

// Counts above these bounds mean the record is garbage, not a big store.
const (
	maxListLen = 10000
	maxDays    = 7
)

func parsePerson(line string) (*Person, error) {
	f := &fields{line: line}
	id, err := f.nextInt()
	if err != nil {
		return nil, err
	}
	last, err := f.next()
	if err != nil {
		return nil, err
	}
	first, err := f.next()
	if err != nil {
		return nil, err
	}
	role, err := f.nextInt()
	if err != nil {
		return nil, err
	}
	if role != 0 && role != 1 {
		return nil, fmt.Errorf("role flag %d out of range", role)
	}
	p := NewPerson(last, first, role == 1)
	p.ID = id
	n, err := f.nextCount("course", maxListLen)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		cid, err := f.nextInt()
		if err != nil {
			return nil, err
		}
		p.Courses = append(p.Courses, cid)
	}
	if p.Trainer {
		nd, err := f.nextCount("day-off", maxDays)
		if err != nil {
			return nil, err
		}
		for i := 0; i < nd; i++ {
			d, err := f.nextInt()
			if err != nil {
				return nil, err
			}
			p.DaysOff = append(p.DaysOff, d)
		}
	} else {
		flag, err := f.nextInt()
		if err != nil {
			return nil, err
		}
		if flag == 1 {
			p.Discount = true
			if p.DiscountPct, err = f.nextInt(); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func parseCourse(line string) (*Course, error) {
	f := &fields{line: line}
	id, err := f.nextInt()
	if err != nil {
		return nil, err
	}
	np, err := f.nextCount("prerequisite", maxListLen)
	if err != nil {
		return nil, err
	}
	var prereqs []int
	for i := 0; i < np; i++ {
		pid, err := f.nextInt()
		if err != nil {
			return nil, err
		}
		prereqs = append(prereqs, pid)
	}
	ns, err := f.nextCount("session", maxListLen)
	if err != nil {
		return nil, err
	}
	var sessions []Session
	for i := 0; i < ns; i++ {
		var s Session
		if s.Weekday, err = f.nextInt(); err != nil {
			return nil, err
		}
		if s.Start, err = f.nextFloat(); err != nil {
			return nil, err
		}
		if s.Hours, err = f.nextFloat(); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	price, err := f.nextFloat()
	if err != nil {
		return nil, err
	}
	name := f.rest()
	if name == "" {
		return nil, fmt.Errorf("missing course name")
	}
	c := NewCourse(name, price)
	c.ID = id
	c.Prereqs = prereqs
	c.Sessions = sessions
	return c, nil
}

func writePerson(w io.Writer, p *Person) error {
	role := 0
	if p.Trainer {
		role = 1
	}
	if _, err := fmt.Fprintf(w, "%02d %-24s %-24s %d %d", p.ID, p.LastName, p.FirstName, role, len(p.Courses)); err != nil {
		return err
	}
	for _, id := range p.Courses {
		if _, err := fmt.Fprintf(w, " %d", id); err != nil {
			return err
		}
	}
	if p.Trainer {
		if _, err := fmt.Fprintf(w, " %d", len(p.DaysOff)); err != nil {
			return err
		}
		for _, d := range p.DaysOff {
			if _, err := fmt.Fprintf(w, " %d", d); err != nil {
				return err
			}
		}
	} else {
		flag := 0
		if p.Discount {
			flag = 1
		}
		if _, err := fmt.Fprintf(w, " %d", flag); err != nil {
			return err
		}
		if p.Discount {
			if _, err := fmt.Fprintf(w, " %d", p.DiscountPct); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeCourse(w io.Writer, c *Course) error {
	if _, err := fmt.Fprintf(w, "%02d %d", c.ID, len(c.Prereqs)); err != nil {
		return err
	}
	for _, id := range c.Prereqs {
		if _, err := fmt.Fprintf(w, " %d", id); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, " %d", len(c.Sessions)); err != nil {
		return err
	}
	for _, s := range c.Sessions {
		if _, err := fmt.Fprintf(w, " %d %.2f %.2f", s.Weekday, s.Start, s.Hours); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, " %.2f %s\n", c.Price, c.Name)
	return err
}

// LoadPeople parses person records until EOF or the first malformed line.
// On a malformed line it returns the records parsed so far together with a
// *CorruptRecordError naming the line.
func LoadPeople(rd io.Reader, path string) ([]*Person, error) {
	var people []*Person
	sc := bufio.NewScanner(rd)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		p, err := parsePerson(text)
		if err != nil {
			return people, &CorruptRecordError{Path: path, Line: line, Err: err}
		}
		people = append(people, p)
	}
	if err := sc.Err(); err != nil {
		return people, fmt.Errorf("read %s: %w", path, err)
	}
	return people, nil
}

// LoadCourses parses course records with the same contract as LoadPeople.
func LoadCourses(rd io.Reader, path string) ([]*Course, error) {
	var courses []*Course
	sc := bufio.NewScanner(rd)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		c, err := parseCourse(text)
		if err != nil {
			return courses, &CorruptRecordError{Path: path, Line: line, Err: err}
		}
		courses = append(courses, c)
	}
	if err := sc.Err(); err != nil {
		return courses, fmt.Errorf("read %s: %w", path, err)
	}
	return courses, nil
}

// build inserts loaded records preserving their persisted ids. Records
// arrive in file order (oldest first); prepending restores the in-memory
// display order.
func build(people []*Person, courses []*Course) *Registry {
	r := New()
	for _, p := range people {
		r.people = append([]*Person{p}, r.people...)
		r.personByID[p.ID] = p
	}
	for _, c := range courses {
		r.courses = append([]*Course{c}, r.courses...)
		r.courseByID[c.ID] = c
	}
	r.rebuildEnrollment()
	return r
}

// Load reads both data files and rebuilds the registry, re-deriving every
// course roster from the person-side lists. Missing files are a first run,
// not an error. A corrupt record yields the registry built from everything
// before it plus the *CorruptRecordError.
func Load(cfg Config) (*Registry, error) {
	people, perr := loadPeopleFile(cfg.PeopleFile)
	if perr != nil {
		if _, ok := perr.(*CorruptRecordError); !ok {
			return nil, perr
		}
	}
	courses, cerr := loadCoursesFile(cfg.CoursesFile)
	if cerr != nil {
		if _, ok := cerr.(*CorruptRecordError); !ok {
			return nil, cerr
		}
	}
	r := build(people, courses)
	if perr != nil {
		return r, perr
	}
	return r, cerr
}

func loadPeopleFile(path string) ([]*Person, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return LoadPeople(f, path)
}

func loadCoursesFile(path string) ([]*Course, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return LoadCourses(f, path)
}

// SavePeople writes the person store, oldest record first so a reload
// restores the same display order.
func (r *Registry) SavePeople(w io.Writer) error {
	for i := len(r.people) - 1; i >= 0; i-- {
		if err := writePerson(w, r.people[i]); err != nil {
			return err
		}
	}
	return nil
}

// SaveCourses writes the course store, oldest record first.
func (r *Registry) SaveCourses(w io.Writer) error {
	for i := len(r.courses) - 1; i >= 0; i-- {
		if err := writeCourse(w, r.courses[i]); err != nil {
			return err
		}
	}
	return nil
}

// Save rewrites both data files in full and regenerates the planning
// report. There is no incremental mode: last full save wins.
func (r *Registry) Save(cfg Config) error {
	if err := writeFile(cfg.PeopleFile, r.SavePeople); err != nil {
		return err
	}
	if err := writeFile(cfg.CoursesFile, r.SaveCourses); err != nil {
		return err
	}
	return writeFile(cfg.PlanningFile, r.WritePlanning)
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
