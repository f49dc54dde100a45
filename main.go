package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"training-registry/registry"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

const configFile = "training.yaml"

func main() {
	_ = godotenv.Load()

	cfg, err := registry.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	reg, err := registry.Load(cfg)
	if err != nil {
		var corrupt *registry.CorruptRecordError
		if errors.As(err, &corrupt) {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", corrupt)
			fmt.Fprintln(os.Stderr, "Continuing with the records loaded before the corrupt one.")
		} else {
			fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
			os.Exit(1)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Training Registry")
	fmt.Println("Available commands:")
	fmt.Println("  People: add person, list people, delete person")
	fmt.Println("  Courses: add course, list courses, delete course")
	fmt.Println("  Enrollment: enroll, unenroll, roster")
	fmt.Println("  Schedule: planning")
	fmt.Println("  System: set password, exit")

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "add person":
			handleAddPerson(scanner, reg)
		case "add course":
			handleAddCourse(scanner, reg)
		case "list people":
			handleListPeople(reg)
		case "list courses":
			handleListCourses(reg)
		case "delete person":
			handleDeletePerson(scanner, reg, cfg)
		case "delete course":
			handleDeleteCourse(scanner, reg, cfg)
		case "enroll":
			handleEnroll(scanner, reg)
		case "unenroll":
			handleUnenroll(scanner, reg)
		case "roster":
			handleRoster(scanner, reg)
		case "planning":
			if err := reg.WritePlanning(os.Stdout); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		case "set password":
			handleSetPassword(cfg)
		case "exit":
			handleExit(scanner, reg, cfg)
			return
		default:
			fmt.Println("Unknown command. Type one of the available commands listed above.")
		}
	}
}

// readPassword reads a masked password from the terminal.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

// authorize asks for the admin password when one has been set. Without a
// credential file every operation is open.
func authorize(cfg registry.Config) bool {
	if !registry.HasPassword(cfg.AuthFile) {
		return true
	}
	password, err := readPassword("Admin password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return false
	}
	if err := registry.VerifyPassword(cfg.AuthFile, password); err != nil {
		fmt.Printf("Authorization failed: %v\n", err)
		return false
	}
	return true
}

func prompt(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func promptInt(sc *bufio.Scanner, label string) (int, bool) {
	text, ok := prompt(sc, label)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		fmt.Printf("Invalid number: %s\n", text)
		return 0, false
	}
	return n, true
}

func promptFloat(sc *bufio.Scanner, label string) (float64, bool) {
	text, ok := prompt(sc, label)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		fmt.Printf("Invalid number: %s\n", text)
		return 0, false
	}
	return v, true
}

func confirm(sc *bufio.Scanner, label string) bool {
	for {
		answer, ok := prompt(sc, label+" (y/n) ")
		if !ok {
			return false
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		fmt.Println("Please answer y or n.")
	}
}

func handleAddPerson(sc *bufio.Scanner, reg *registry.Registry) {
	lastName, ok := prompt(sc, "Last name: ")
	if !ok {
		return
	}
	firstName, ok := prompt(sc, "First name: ")
	if !ok {
		return
	}
	if strings.ContainsAny(lastName+firstName, " \t") {
		fmt.Println("Error: names may not contain spaces")
		return
	}
	role, ok := prompt(sc, "Trainer or student? (t/s) ")
	if !ok {
		return
	}
	role = strings.ToLower(role)
	if role != "t" && role != "trainer" && role != "s" && role != "student" {
		fmt.Printf("Invalid role: %s (t or s)\n", role)
		return
	}
	trainer := role == "t" || role == "trainer"

	if _, err := reg.FindPerson(lastName, firstName, trainer); err == nil {
		fmt.Printf("Note: %s %s is already registered with that role.\n", firstName, lastName)
	}

	p := registry.NewPerson(lastName, firstName, trainer)
	if trainer {
		if confirm(sc, "Does this trainer have unavailable weekdays?") {
			n, ok := promptInt(sc, "How many? ")
			if !ok {
				return
			}
			for i := 0; i < n; i++ {
				day, ok := promptInt(sc, fmt.Sprintf("Unavailable weekday %d (1=Monday .. 7=Sunday): ", i+1))
				if !ok {
					return
				}
				p.DaysOff = append(p.DaysOff, day)
			}
		}
	} else {
		if confirm(sc, "Does this student have a discount?") {
			pct, ok := promptInt(sc, "Discount percentage (0-100): ")
			if !ok {
				return
			}
			p.Discount = pct > 0
			p.DiscountPct = pct
		}
	}

	if !confirm(sc, fmt.Sprintf("Add %s %s %s to the registry?", p.Role(), firstName, lastName)) {
		fmt.Printf("%s %s was NOT added.\n", lastName, firstName)
		return
	}
	if err := reg.AddPerson(p); err != nil {
		fmt.Printf("Error adding person: %v\n", err)
		return
	}
	fmt.Printf("Added %s '%s %s' with ID %d\n", p.Role(), lastName, firstName, p.ID)
}

func handleAddCourse(sc *bufio.Scanner, reg *registry.Registry) {
	name, ok := prompt(sc, "Course name: ")
	if !ok {
		return
	}
	if _, err := reg.FindCourse(name); err == nil {
		fmt.Printf("Error: course %q already exists\n", name)
		return
	}
	price, ok := promptFloat(sc, "Price: ")
	if !ok {
		return
	}
	c := registry.NewCourse(name, price)

	if confirm(sc, "Does this course have prerequisites?") {
		handleListCourses(reg)
		n, ok := promptInt(sc, "How many prerequisites? ")
		if !ok {
			return
		}
		for i := 0; i < n; i++ {
			id, ok := promptInt(sc, fmt.Sprintf("Prerequisite course ID %d: ", i+1))
			if !ok {
				return
			}
			c.Prereqs = append(c.Prereqs, id)
		}
	}

	sessions, ok := promptInt(sc, "How many weekly sessions? ")
	if !ok {
		return
	}
	for i := 0; i < sessions; i++ {
		day, ok := promptInt(sc, fmt.Sprintf("Session %d weekday (1=Monday .. 7=Sunday): ", i+1))
		if !ok {
			return
		}
		start, ok := promptFloat(sc, "Start hour (6-18, e.g. 8.15): ")
		if !ok {
			return
		}
		hours, ok := promptFloat(sc, "Duration in hours (1-8): ")
		if !ok {
			return
		}
		s, err := registry.NewSession(day, start, hours)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		c.Sessions = append(c.Sessions, s)
	}

	if !confirm(sc, fmt.Sprintf("Add course %q with price %.2f to the registry?", name, price)) {
		fmt.Printf("Course %q was NOT added.\n", name)
		return
	}
	if err := reg.AddCourse(c); err != nil {
		fmt.Printf("Error adding course: %v\n", err)
		return
	}
	fmt.Printf("Added course %q with ID %d\n", name, c.ID)
}

func handleListPeople(reg *registry.Registry) {
	people := reg.People()
	if len(people) == 0 {
		fmt.Println("No people registered.")
		return
	}
	fmt.Printf("%-4s %-25s %-25s %-8s %s\n", "ID", "Last name", "First name", "Role", "Courses")
	fmt.Println(strings.Repeat("-", 80))
	for _, p := range people {
		fmt.Printf("%-4d %-25s %-25s %-8s %s\n", p.ID, p.LastName, p.FirstName, p.Role(), intList(p.Courses))
	}
}

func handleListCourses(reg *registry.Registry) {
	courses := reg.Courses()
	if len(courses) == 0 {
		fmt.Println("No courses in the registry.")
		return
	}
	fmt.Printf("%-4s %-40s %8s %s\n", "ID", "Name", "Price", "Enrolled")
	fmt.Println(strings.Repeat("-", 70))
	for _, c := range courses {
		fmt.Printf("%-4d %-40s %8.2f %d\n", c.ID, c.Name, c.Price, len(c.Enrolled))
	}
}

func handleDeletePerson(sc *bufio.Scanner, reg *registry.Registry, cfg registry.Config) {
	handleListPeople(reg)
	id, ok := promptInt(sc, "Person ID to delete: ")
	if !ok {
		return
	}
	p, err := reg.Person(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !authorize(cfg) {
		return
	}
	if !confirm(sc, fmt.Sprintf("Delete %s %s and all their enrollments?", p.LastName, p.FirstName)) {
		fmt.Printf("%s %s was NOT deleted.\n", p.LastName, p.FirstName)
		return
	}
	if err := reg.DeletePerson(id); err != nil {
		fmt.Printf("Error deleting person: %v\n", err)
		return
	}
	fmt.Printf("%s %s was removed from the registry and every course.\n", p.LastName, p.FirstName)
}

func handleDeleteCourse(sc *bufio.Scanner, reg *registry.Registry, cfg registry.Config) {
	handleListCourses(reg)
	id, ok := promptInt(sc, "Course ID to delete: ")
	if !ok {
		return
	}
	c, err := reg.Course(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !authorize(cfg) {
		return
	}
	if !confirm(sc, fmt.Sprintf("Delete course %q and all its enrollments?", c.Name)) {
		fmt.Printf("Course %q was NOT deleted.\n", c.Name)
		return
	}
	if err := reg.DeleteCourse(id); err != nil {
		fmt.Printf("Error deleting course: %v\n", err)
		return
	}
	fmt.Printf("Course %q was removed from the registry and every person's course list.\n", c.Name)
}

func handleEnroll(sc *bufio.Scanner, reg *registry.Registry) {
	handleListCourses(reg)
	courseID, ok := promptInt(sc, "Course ID: ")
	if !ok {
		return
	}
	handleListPeople(reg)
	personID, ok := promptInt(sc, "Person ID: ")
	if !ok {
		return
	}
	c, err := reg.Course(courseID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	p, err := reg.Person(personID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !confirm(sc, fmt.Sprintf("Enroll %s %s in %q?", p.LastName, p.FirstName, c.Name)) {
		fmt.Printf("%s %s was NOT enrolled.\n", p.LastName, p.FirstName)
		return
	}
	if err := reg.Enroll(courseID, personID); err != nil {
		if errors.Is(err, registry.ErrAlreadyEnrolled) {
			fmt.Printf("%s %s is already enrolled in %q.\n", p.LastName, p.FirstName, c.Name)
		} else {
			fmt.Printf("Error: %v\n", err)
		}
		return
	}
	fmt.Printf("%s %s enrolled in %q.\n", p.LastName, p.FirstName, c.Name)
}

func handleUnenroll(sc *bufio.Scanner, reg *registry.Registry) {
	courseID, ok := promptInt(sc, "Course ID: ")
	if !ok {
		return
	}
	personID, ok := promptInt(sc, "Person ID: ")
	if !ok {
		return
	}
	c, err := reg.Course(courseID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	p, err := reg.Person(personID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !confirm(sc, fmt.Sprintf("Remove %s %s from %q?", p.LastName, p.FirstName, c.Name)) {
		fmt.Printf("%s %s was NOT removed.\n", p.LastName, p.FirstName)
		return
	}
	if err := reg.Unenroll(courseID, personID); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("%s %s removed from %q.\n", p.LastName, p.FirstName, c.Name)
}

func handleRoster(sc *bufio.Scanner, reg *registry.Registry) {
	courseID, ok := promptInt(sc, "Course ID: ")
	if !ok {
		return
	}
	c, err := reg.Course(courseID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Participants in %q:\n", c.Name)
	fmt.Println("Trainers:")
	printRoster(reg, courseID, true)
	fmt.Println("Students:")
	printRoster(reg, courseID, false)
}

func printRoster(reg *registry.Registry, courseID int, trainer bool) {
	people, err := reg.Roster(courseID, trainer)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(people) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, p := range people {
		fmt.Printf("  %2d %s %s\n", p.ID, p.LastName, p.FirstName)
	}
}

func handleSetPassword(cfg registry.Config) {
	if registry.HasPassword(cfg.AuthFile) {
		current, err := readPassword("Current admin password: ")
		if err != nil {
			fmt.Printf("Error reading password: %v\n", err)
			return
		}
		if err := registry.VerifyPassword(cfg.AuthFile, current); err != nil {
			fmt.Printf("Authorization failed: %v\n", err)
			return
		}
	}
	password, err := readPassword("New admin password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}
	if err := registry.SetPassword(cfg.AuthFile, password); err != nil {
		fmt.Printf("Error setting password: %v\n", err)
		return
	}
	fmt.Println("Admin password updated.")
}

func handleExit(sc *bufio.Scanner, reg *registry.Registry, cfg registry.Config) {
	if confirm(sc, "Save changes before exiting?") {
		if err := reg.Save(cfg); err != nil {
			fmt.Printf("Error saving: %v\n", err)
			return
		}
		fmt.Println("Changes saved.")
	}
	fmt.Println("Goodbye!")
}

func intList(ids []int) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
