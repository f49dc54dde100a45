package registry

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes the weekly plan to a spreadsheet, one row per course
// occurrence: day, times, course, price, trainers, students, prerequisites.
func ExportXLSX(r *Registry, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Planning"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Day", "From", "To", "ID", "Course", "Price", "Trainers", "Students", "Prerequisites"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for _, day := range r.WeeklyPlan() {
		for _, e := range day.Entries {
			values := []interface{}{
				DayName(day.Weekday),
				e.Start,
				e.End,
				e.Course.ID,
				e.Course.Name,
				e.Course.Price,
				rosterNames(e.Course, true),
				rosterNames(e.Course, false),
				strings.Join(e.Prereqs, ", "),
			}
			for i, v := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func rosterNames(c *Course, trainer bool) string {
	var names []string
	for _, p := range c.Enrolled {
		if p.Trainer == trainer {
			names = append(names, p.LastName+" "+p.FirstName)
		}
	}
	return strings.Join(names, ", ")
}
