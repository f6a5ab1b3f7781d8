// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/dalemusser/facetoface/internal/app/system/approvals"
	"github.com/dalemusser/facetoface/internal/app/system/htmlsanitize"
	"github.com/dalemusser/facetoface/internal/domain/models"
)

// NoticeEmailData holds data for request decision e-mails.
type NoticeEmailData struct {
	SiteName     string
	Kind         approvals.NoticeKind
	Name         string
	ActivityName string
	CourseName   string
	When         string
	Reference    string
}

var noticeHeadline = map[approvals.NoticeKind]string{
	approvals.NoticeBooked:     "Your place is booked",
	approvals.NoticeWaitlisted: "You are on the waiting list",
	approvals.NoticeDeclined:   "Your request was declined",
}

var noticeSubject = map[approvals.NoticeKind]string{
	approvals.NoticeBooked:     "Booking confirmation",
	approvals.NoticeWaitlisted: "Waitlisted signup",
	approvals.NoticeDeclined:   "Request declined",
}

// BuildNoticeEmail creates a request decision e-mail with both HTML and
// text bodies.
func BuildNoticeEmail(data NoticeEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("%s: %s", noticeSubject[data.Kind], data.ActivityName),
		TextBody: buildNoticeText(data),
		HTMLBody: buildNoticeHTML(data),
	}
}

// NoticeData turns an approvals notice into template data. Activity and
// course names are stripped of markup.
func NoticeData(siteName string, n approvals.Notice) NoticeEmailData {
	return NoticeEmailData{
		SiteName:     siteName,
		Kind:         n.Kind,
		Name:         n.Name,
		ActivityName: htmlsanitize.StripTags(n.ActivityName),
		CourseName:   htmlsanitize.StripTags(n.CourseName),
		When:         SessionWhen(n.Session),
		Reference:    n.BatchID,
	}
}

// SessionWhen formats the first date of a session for a notice.
func SessionWhen(s models.Session) string {
	if !s.DatetimeKnown || len(s.Dates) == 0 {
		return "Date to be confirmed"
	}
	d := s.Dates[0]
	when := fmt.Sprintf("%s, %s - %s UTC",
		d.TimeStart.UTC().Format("Mon 2 Jan 2006"),
		d.TimeStart.UTC().Format("15:04"),
		d.TimeFinish.UTC().Format("15:04"))
	if n := len(s.Dates); n > 1 {
		when += fmt.Sprintf(" (and %d more %s)", n-1, plural(n-1, "date", "dates"))
	}
	return when
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func buildNoticeText(data NoticeEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hello %s,\n\n", data.Name))
	buf.WriteString(noticeHeadline[data.Kind] + ".\n\n")
	buf.WriteString(fmt.Sprintf("Activity: %s\n", data.ActivityName))
	if data.CourseName != "" {
		buf.WriteString(fmt.Sprintf("Course: %s\n", data.CourseName))
	}
	buf.WriteString(fmt.Sprintf("When: %s\n", data.When))
	if data.Kind == approvals.NoticeWaitlisted {
		buf.WriteString("\nYou will be told if a place becomes available.\n")
	}
	buf.WriteString(fmt.Sprintf("\nReference: %s\n", data.Reference))
	buf.WriteString(fmt.Sprintf("\n%s\n", data.SiteName))
	return buf.String()
}

var noticeHTML = template.Must(template.New("notice").Funcs(template.FuncMap{
	"headline":   func(k approvals.NoticeKind) string { return noticeHeadline[k] },
	"waitlisted": func(k approvals.NoticeKind) bool { return k == approvals.NoticeWaitlisted },
}).Parse(noticeHTMLTemplate))

func buildNoticeHTML(data NoticeEmailData) string {
	var buf bytes.Buffer
	_ = noticeHTML.Execute(&buf, data)
	return buf.String()
}

const noticeHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{headline .Kind}}</title>
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
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hello {{.Name}},</p>
              <p style="margin: 0 0 24px; font-size: 18px; font-weight: 600; color: #1f2937;">{{headline .Kind}}.</p>
              <table role="presentation" cellspacing="0" cellpadding="4" style="font-size: 14px; color: #374151;">
                <tr><td style="color: #6b7280;">Activity</td><td>{{.ActivityName}}</td></tr>
                {{if .CourseName}}<tr><td style="color: #6b7280;">Course</td><td>{{.CourseName}}</td></tr>{{end}}
                <tr><td style="color: #6b7280;">When</td><td>{{.When}}</td></tr>
              </table>
              {{if waitlisted .Kind}}<p style="margin: 24px 0 0; font-size: 14px; color: #6b7280;">You will be told if a place becomes available.</p>{{end}}
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">Reference {{.Reference}}</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
