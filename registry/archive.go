package registry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ExportSQLite snapshots the registry into a SQLite database: people,
// courses, sessions, prerequisites and the enrollment join table. The
// archive is a queryable copy for reporting; the flat text files remain
// the source of truth. An existing file at path is replaced.
func ExportSQLite(r *Registry, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create archive dir: %w", err)
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if err := applySchema(db); err != nil {
		return err
	}
	return fillArchive(db, r)
}

func applySchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE people (
            id INTEGER PRIMARY KEY,
            last_name TEXT NOT NULL,
            first_name TEXT NOT NULL,
            trainer BOOLEAN NOT NULL,
            discount BOOLEAN NOT NULL DEFAULT 0,
            discount_pct INTEGER NOT NULL DEFAULT 0
        );`,
		`CREATE TABLE days_off (
            person_id INTEGER NOT NULL REFERENCES people(id),
            weekday INTEGER NOT NULL,
            UNIQUE(person_id, weekday)
        );`,
		`CREATE TABLE courses (
            id INTEGER PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            price REAL NOT NULL
        );`,
		`CREATE TABLE sessions (
            course_id INTEGER NOT NULL REFERENCES courses(id),
            weekday INTEGER NOT NULL,
            start_hour REAL NOT NULL,
            hours REAL NOT NULL
        );`,
		`CREATE TABLE prerequisites (
            course_id INTEGER NOT NULL REFERENCES courses(id),
            prereq_id INTEGER NOT NULL
        );`,
		`CREATE TABLE enrollments (
            course_id INTEGER NOT NULL REFERENCES courses(id),
            person_id INTEGER NOT NULL REFERENCES people(id),
            UNIQUE(course_id, person_id)
        );`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return tx.Commit()
}

// fillArchive inserts every record in one transaction so a failed export
// never leaves a half-written archive behind.
func fillArchive(db *sql.DB, r *Registry) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insPerson, err := tx.Prepare(`INSERT INTO people(id,last_name,first_name,trainer,discount,discount_pct) VALUES(?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer insPerson.Close()
	insDay, err := tx.Prepare(`INSERT INTO days_off(person_id,weekday) VALUES(?,?)`)
	if err != nil {
		return err
	}
	defer insDay.Close()
	insCourse, err := tx.Prepare(`INSERT INTO courses(id,name,price) VALUES(?,?,?)`)
	if err != nil {
		return err
	}
	defer insCourse.Close()
	insSession, err := tx.Prepare(`INSERT INTO sessions(course_id,weekday,start_hour,hours) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer insSession.Close()
	insPrereq, err := tx.Prepare(`INSERT INTO prerequisites(course_id,prereq_id) VALUES(?,?)`)
	if err != nil {
		return err
	}
	defer insPrereq.Close()
	insEnrollment, err := tx.Prepare(`INSERT INTO enrollments(course_id,person_id) VALUES(?,?)`)
	if err != nil {
		return err
	}
	defer insEnrollment.Close()

	for _, p := range r.People() {
		if _, err := insPerson.Exec(p.ID, p.LastName, p.FirstName, p.Trainer, p.Discount, p.DiscountPct); err != nil {
			return fmt.Errorf("archive person %d: %w", p.ID, err)
		}
		for _, d := range p.DaysOff {
			if _, err := insDay.Exec(p.ID, d); err != nil {
				return fmt.Errorf("archive person %d day off: %w", p.ID, err)
			}
		}
	}
	for _, c := range r.Courses() {
		if _, err := insCourse.Exec(c.ID, c.Name, c.Price); err != nil {
			return fmt.Errorf("archive course %d: %w", c.ID, err)
		}
		for _, s := range c.Sessions {
			if _, err := insSession.Exec(c.ID, s.Weekday, s.Start, s.Hours); err != nil {
				return fmt.Errorf("archive course %d session: %w", c.ID, err)
			}
		}
		for _, pid := range c.Prereqs {
			if _, err := insPrereq.Exec(c.ID, pid); err != nil {
				return fmt.Errorf("archive course %d prerequisite: %w", c.ID, err)
			}
		}
		for _, p := range c.Enrolled {
			if _, err := insEnrollment.Exec(c.ID, p.ID); err != nil {
				return fmt.Errorf("archive enrollment %d/%d: %w", c.ID, p.ID, err)
			}
		}
	}
	return tx.Commit()
}
