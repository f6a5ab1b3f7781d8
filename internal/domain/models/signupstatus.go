// internal/domain/models/signupstatus.go
package models

// SignupStatus is the status code of a facetoface signup.
//
// Codes are ordered: everything at or above StatusBooked counts against a
// session's capacity.
type SignupStatus int

const (
	StatusUserCancelled     SignupStatus = 10
	StatusSessionCancelled  SignupStatus = 20
	StatusDeclined          SignupStatus = 30
	StatusRequested         SignupStatus = 40
	StatusApproved          SignupStatus = 50
	StatusWaitlisted        SignupStatus = 60
	StatusBooked            SignupStatus = 70
	StatusNoShow            SignupStatus = 80
	StatusPartiallyAttended SignupStatus = 90
	StatusFullyAttended     SignupStatus = 100
)

var statusNames = map[SignupStatus]string{
	StatusUserCancelled:     "user_cancelled",
	StatusSessionCancelled:  "session_cancelled",
	StatusDeclined:          "declined",
	StatusRequested:         "requested",
	StatusApproved:          "approved",
	StatusWaitlisted:        "waitlisted",
	StatusBooked:            "booked",
	StatusNoShow:            "no_show",
	StatusPartiallyAttended: "partially_attended",
	StatusFullyAttended:     "fully_attended",
}

func (s SignupStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

// AttendeeStatuses are the statuses listed as session attendees.
var AttendeeStatuses = []SignupStatus{
	StatusWaitlisted,
	StatusBooked,
	StatusNoShow,
	StatusPartiallyAttended,
	StatusFullyAttended,
}
