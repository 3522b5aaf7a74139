package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// AllocationEvent describes a committed allocation or deallocation
type AllocationEvent struct {
	Action           string // "Allocated" or "Deallocated"
	StudentName      string
	StudentEmail     string
	RollNo           string
	CourseName       string
	CourseCode       string
	ActorRole        string
	ActorEmail       string
	AdminEmail       string
	CoordinatorEmail string
	ProfessorEmail   string
}

var allocationTemplate = template.Must(template.New("allocation").Parse(`<html>
<body>
  <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #333;">Student {{.Action}}</h2>
    <p>Hello,</p>
    <p>The following TA allocation change was recorded.</p>
    <ul>
      <li><strong>Student:</strong> {{.StudentName}} ({{.RollNo}})</li>
      <li><strong>Email:</strong> {{.StudentEmail}}</li>
      <li><strong>Course:</strong> {{.CourseName}}{{if .CourseCode}} ({{.CourseCode}}){{end}}</li>
      <li><strong>{{.Action}} by:</strong> {{.ActorRole}}{{if .ActorEmail}} &lt;{{.ActorEmail}}&gt;{{end}}</li>
    </ul>
  </div>
</body>
</html>`))

// BuildAllocationMessage renders the notification sent to the student, the
// admin, the course coordinator and the professor
func BuildAllocationMessage(evt AllocationEvent) (Message, error) {
	var buf bytes.Buffer
	if err := allocationTemplate.Execute(&buf, evt); err != nil {
		return Message{}, fmt.Errorf("failed to render allocation email: %w", err)
	}
	return Message{
		To:      []string{evt.StudentEmail, evt.AdminEmail, evt.CoordinatorEmail, evt.ProfessorEmail},
		Subject: "Student Allocation Data",
		HTML:    buf.String(),
	}, nil
}
