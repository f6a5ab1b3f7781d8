// internal/domain/models/facetoface.go
package models

import "time"

// ModuleFacetoface is the module name stored on course modules that point
// at a facetoface activity.
const ModuleFacetoface = "facetoface"

// Course is the container a facetoface activity belongs to.
type Course struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullname"`
	ShortName string `json:"shortname"`
}

// Facetoface is a training activity definition. It owns one or more sessions.
type Facetoface struct {
	ID           int64  `json:"id"`
	CourseID     int64  `json:"course"`
	Name         string `json:"name"`
	Intro        string `json:"intro"`
	ApprovalReqd bool   `json:"approvalreqd"`
}

// CourseModule binds an activity instance to its course. Its ID scopes
// audit events.
type CourseModule struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"course"`
	Module     string `json:"module"`
	InstanceID int64  `json:"instance"`
}

// Session is one scheduled occurrence of a facetoface activity.
type Session struct {
	ID            int64         `json:"id"`
	FacetofaceID  int64         `json:"facetoface"`
	Capacity      int           `json:"capacity"`
	AllowOverbook bool          `json:"allowoverbook"`
	DatetimeKnown bool          `json:"datetimeknown"`
	Duration      time.Duration `json:"duration"`
	Details       string        `json:"details"`
	TimeCreated   time.Time     `json:"timecreated"`

	Dates []SessionDate `json:"dates"`
}

// SessionDate is one start/finish pair of a session's schedule.
type SessionDate struct {
	TimeStart  time.Time `json:"timestart"`
	TimeFinish time.Time `json:"timefinish"`
}

// Signup is a user's row for a session together with its current status.
type Signup struct {
	ID         int64        `json:"id"`
	SessionID  int64        `json:"sessionid"`
	UserID     int64        `json:"userid"`
	FirstName  string       `json:"firstname"`
	LastName   string       `json:"lastname"`
	Email      string       `json:"email"`
	StatusCode SignupStatus `json:"statuscode"`
	// StatusTime is when the current status was recorded (time requested
	// for pending requests, time cancelled for cancellations).
	StatusTime time.Time `json:"statustime"`
}

// FullName mirrors how user names are displayed across the site.
func (s Signup) FullName() string {
	return joinName(s.FirstName, s.LastName)
}

// SessionSummary is a session row for the activity's session list.
type SessionSummary struct {
	Session
	Booked     int
	Waitlisted int
	Requests   int
}

// ActivityListing is one activity on the landing page.
type ActivityListing struct {
	Facetoface
	CourseName string
	Sessions   int
}
