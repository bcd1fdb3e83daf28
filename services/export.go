// services/export.go
package services

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/xuri/excelize/v2"
)

// ExportService renders the whole platform state as a spreadsheet for
// offline analysis.
type ExportService struct {
	context.DefaultService

	sqlSvc *SqliteService
}

const EXPORT_SVC = "export_svc"

func (svc ExportService) Id() string {
	return EXPORT_SVC
}

func (svc *ExportService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ExportService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	return nil
}

// BuildWorkbook assembles a workbook with one sheet per table, users
// ordered by XP so the first rows mirror the leaderboard.
func (svc *ExportService) BuildWorkbook() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := svc.writeUsersSheet(f); err != nil {
		return nil, err
	}
	if err := svc.writeCompletionsSheet(f); err != nil {
		return nil, err
	}
	if err := svc.writeAchievementsSheet(f); err != nil {
		return nil, err
	}
	if err := svc.writeQuizAttemptsSheet(f); err != nil {
		return nil, err
	}

	// Drop the default sheet excelize opens with.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func (svc *ExportService) writeUsersSheet(f *excelize.File) error {
	users, err := svc.sqlSvc.AllUsers()
	if err != nil {
		return err
	}

	const sheet = "Users"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"User ID", "Username", "XP", "Level", "Current Course", "Current Module", "Current Lesson", "Joined At"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, u := range users {
		row := []interface{}{u.ID, u.Username, u.XP, u.Level, u.CurrentCourse, u.CurrentModule, u.CurrentLesson, u.JoinedAt.Format(time.RFC3339)}
		if err := f.SetSheetRow(sheet, cell(i), &row); err != nil {
			return err
		}
	}
	return nil
}

func (svc *ExportService) writeCompletionsSheet(f *excelize.File) error {
	completions, err := svc.sqlSvc.AllCompletions()
	if err != nil {
		return err
	}

	const sheet = "Completions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"User ID", "Course", "Module", "Lesson", "Completed At"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, c := range completions {
		row := []interface{}{c.UserID, c.CourseID, c.ModuleID, c.LessonID, c.CompletedAt.Format(time.RFC3339)}
		if err := f.SetSheetRow(sheet, cell(i), &row); err != nil {
			return err
		}
	}
	return nil
}

func (svc *ExportService) writeAchievementsSheet(f *excelize.File) error {
	grants, err := svc.sqlSvc.AllGrants()
	if err != nil {
		return err
	}

	const sheet = "Achievements"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"User ID", "Key", "Name", "Category", "Awarded At"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, g := range grants {
		row := []interface{}{g.UserID, g.Key, g.Name, g.Category, g.AwardedAt.Format(time.RFC3339)}
		if err := f.SetSheetRow(sheet, cell(i), &row); err != nil {
			return err
		}
	}
	return nil
}

func (svc *ExportService) writeQuizAttemptsSheet(f *excelize.File) error {
	attempts, err := svc.sqlSvc.AllQuizAttempts()
	if err != nil {
		return err
	}

	const sheet = "QuizAttempts"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"User ID", "Course", "Module", "Lesson", "Kind", "Score", "Total", "Percent", "Attempted At"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, a := range attempts {
		percent := ""
		if a.Total > 0 {
			percent = fmt.Sprintf("%.1f", float64(a.Score)/float64(a.Total)*100)
		}
		row := []interface{}{a.UserID, a.CourseID, a.ModuleID, a.LessonID, a.Kind, a.Score, a.Total, percent, a.AttemptedAt.Format(time.RFC3339)}
		if err := f.SetSheetRow(sheet, cell(i), &row); err != nil {
			return err
		}
	}
	return nil
}

func cell(rowIdx int) string {
	return "A" + strconv.Itoa(rowIdx+2)
}
