package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	noDescription = "No description provided"
	notSpecified  = "Not specified"
	dueDateLayout = "Mon Jan 02 2006"
)

var assignmentTemplate = template.Must(template.New("assignment").Parse(`<h2>You have been assigned a new task</h2>
<p><strong>Title:</strong> {{.Title}}</p>
<p><strong>Description:</strong> {{.Description}}</p>
<p><strong>Priority:</strong> {{.Priority}}</p>
<p><strong>Due Date:</strong> {{.DueDate}}</p>
<p><strong>Status:</strong> {{.Status}}</p>
`))

type assignmentView struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
	Status      string
}

// Subject returns the email subject for msg.
func Subject(msg Message) string {
	return "New Task Assigned: " + msg.Title
}

// RenderHTML renders the assignment email body. Optional fields that are
// empty are shown with placeholder text.
func RenderHTML(msg Message) (string, error) {
	view := assignmentView{
		Title:       msg.Title,
		Description: orDefault(msg.Description, noDescription),
		Priority:    orDefault(msg.Priority, notSpecified),
		DueDate:     notSpecified,
		Status:      msg.Status,
	}
	if msg.DueDate != nil {
		view.DueDate = msg.DueDate.UTC().Format(dueDateLayout)
	}

	var buf bytes.Buffer
	if err := assignmentTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render assignment email: %w", err)
	}
	return buf.String(), nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
