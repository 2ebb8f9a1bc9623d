// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// AutoGroupedEmailData holds data for the email sent to students placed in a
// group by matchmaking.
type AutoGroupedEmailData struct {
	SiteName     string
	AssignmentID string
	GroupURL     string
	LeaderID     string
	MemberIDs    []string
}

// BuildAutoGroupedEmail creates the auto-grouped email with both HTML and text bodies.
func BuildAutoGroupedEmail(data AutoGroupedEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("You have been placed in a group for %s", data.AssignmentID),
		TextBody: buildAutoGroupedText(data),
		HTMLBody: buildAutoGroupedHTML(data),
	}
}

func buildAutoGroupedText(data AutoGroupedEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("You have been placed in a group for assignment %s.\n\n", data.AssignmentID))
	buf.WriteString(fmt.Sprintf("Group leader: %s\n", data.LeaderID))
	if len(data.MemberIDs) > 0 {
		buf.WriteString(fmt.Sprintf("Members: %s\n", strings.Join(data.MemberIDs, ", ")))
	}
	if data.GroupURL != "" {
		buf.WriteString("\nOpen your group and add your weekly availability:\n")
		buf.WriteString(data.GroupURL + "\n")
	}
	buf.WriteString(fmt.Sprintf("\n%s\n", data.SiteName))
	return buf.String()
}

func buildAutoGroupedHTML(data AutoGroupedEmailData) string {
	tmpl := template.Must(template.New("autogrouped").Parse(autoGroupedHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const autoGroupedHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New Group</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151; line-height: 1.5;">
                You have been placed in a group for assignment <strong>{{.AssignmentID}}</strong>.
              </p>
              <p style="margin: 0 0 8px; font-size: 14px; color: #374151;">Group leader: {{.LeaderID}}</p>
              {{if .MemberIDs}}
              <ul style="margin: 0 0 24px; padding-left: 20px; font-size: 14px; color: #374151;">
                {{range .MemberIDs}}<li>{{.}}</li>{{end}}
              </ul>
              {{end}}
              {{if .GroupURL}}
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.GroupURL}}" style="display: inline-block; padding: 12px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 600; border-radius: 6px;">Add your availability</a>
                  </td>
                </tr>
              </table>
              {{end}}
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
