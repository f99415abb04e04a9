package cmd

import (
	"fmt"
	"strings"

	"docportal/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
	labelStyle     = lipgloss.NewStyle().Bold(true)
)

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			return cellStyle
		})
	return t.Render()
}

func renderDocumentTable(docs []*models.Document) string {
	if len(docs) == 0 {
		return "No documents found."
	}
	rows := make([][]string, len(docs))
	for i, d := range docs {
		rows[i] = []string{d.ID, d.Title, d.Category, string(d.Priority), string(d.Status), string(d.EnrichmentStatus), d.CreatedAt.Format("2006-01-02 15:04")}
	}
	return renderTable([]string{"ID", "Title", "Category", "Priority", "Status", "Enrichment", "Created"}, rows)
}

func renderUserTable(users []*models.User) string {
	if len(users) == 0 {
		return "No employees found."
	}
	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{u.ID, u.Name, u.Email, deref(u.Department)}
	}
	return renderTable([]string{"ID", "Name", "Email", "Department"}, rows)
}

func renderAssignmentTable(assignments []models.Assignment) string {
	if len(assignments) == 0 {
		return "No assignments."
	}
	rows := make([][]string, len(assignments))
	for i, a := range assignments {
		rows[i] = []string{a.UserID, a.AssignedAt.Format("2006-01-02 15:04")}
	}
	return renderTable([]string{"User", "Assigned"}, rows)
}

func renderDocument(d *models.Document) string {
	var b strings.Builder
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(label+":"), value)
		}
	}

	field("ID", d.ID)
	field("Title", d.Title)
	field("Category", d.Category)
	field("Description", deref(d.Description))
	field("Priority", string(d.Priority))
	if d.Deadline != nil {
		field("Deadline", d.Deadline.Format("2006-01-02"))
	}
	field("Status", string(d.Status))
	field("File", fmt.Sprintf("%s (%s, %d bytes)", d.FileName, d.FileType, d.FileSize))
	field("Enrichment", string(d.EnrichmentStatus))
	field("Enrichment error", deref(d.EnrichmentError))
	field("Review notes", deref(d.ReviewNotes))
	field("Created", d.CreatedAt.Format("2006-01-02 15:04:05"))
	field("Updated", d.UpdatedAt.Format("2006-01-02 15:04:05"))
	if s := deref(d.Summary); s != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", labelStyle.Render("Summary"), s)
	}
	if s := deref(d.Translation); s != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", labelStyle.Render("Translation"), s)
	}
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
