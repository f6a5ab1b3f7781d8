// internal/app/store/facetoface/store.go
package facetofacestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/facetoface/internal/app/system/txn"
	"github.com/dalemusser/facetoface/internal/domain/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store reads facetoface activities, sessions and signups and records
// signup status transitions.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetSession loads a session and its dates ordered by start time.
func (s *Store) GetSession(ctx context.Context, id int64) (*models.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM facetoface_sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err != nil {
		return nil, notFound(err)
	}

	dates, err := s.sessionDates(ctx, `sessionid = ?`, id)
	if err != nil {
		return nil, err
	}
	sess.Dates = dates[id]
	return sess, nil
}

const sessionColumns = `id, facetoface, capacity, allowoverbook, datetimeknown, duration, details, timecreated`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession reads the sessionColumns of row followed by any extra columns.
func scanSession(row rowScanner, extra ...any) (*models.Session, error) {
	var (
		sess                      models.Session
		overbook, known           int
		durationSecs, createdUnix int64
	)
	dest := append([]any{&sess.ID, &sess.FacetofaceID, &sess.Capacity, &overbook, &known, &durationSecs, &sess.Details, &createdUnix}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	sess.AllowOverbook = overbook != 0
	sess.DatetimeKnown = known != 0
	sess.Duration = time.Duration(durationSecs) * time.Second
	sess.TimeCreated = unixTime(createdUnix)
	return &sess, nil
}

// sessionDates loads the dates of every session matching where, grouped by
// session ID and ordered by start time.
func (s *Store) sessionDates(ctx context.Context, where string, args ...any) (map[int64][]models.SessionDate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sessionid, timestart, timefinish FROM facetoface_sessions_dates
		WHERE `+where+` ORDER BY sessionid, timestart`, args...)
	if err != nil {
		return nil, fmt.Errorf("query session dates: %w", err)
	}
	defer rows.Close()

	dates := make(map[int64][]models.SessionDate)
	for rows.Next() {
		var sessionID, start, finish int64
		if err := rows.Scan(&sessionID, &start, &finish); err != nil {
			return nil, fmt.Errorf("scan session date: %w", err)
		}
		dates[sessionID] = append(dates[sessionID], models.SessionDate{TimeStart: unixTime(start), TimeFinish: unixTime(finish)})
	}
	return dates, rows.Err()
}

// GetFacetoface loads an activity by ID.
func (s *Store) GetFacetoface(ctx context.Context, id int64) (*models.Facetoface, error) {
	var (
		f        models.Facetoface
		approval int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, course, name, intro, approvalreqd FROM facetoface WHERE id = ?`, id).
		Scan(&f.ID, &f.CourseID, &f.Name, &f.Intro, &approval)
	if err != nil {
		return nil, notFound(err)
	}
	f.ApprovalReqd = approval != 0
	return &f, nil
}

// GetCourse loads a course by ID.
func (s *Store) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	var c models.Course
	err := s.db.QueryRowContext(ctx, `SELECT id, fullname, shortname FROM course WHERE id = ?`, id).
		Scan(&c.ID, &c.FullName, &c.ShortName)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// GetCourseModule loads the course module binding a facetoface activity to
// the given course.
func (s *Store) GetCourseModule(ctx context.Context, facetofaceID, courseID int64) (*models.CourseModule, error) {
	var cm models.CourseModule
	err := s.db.QueryRowContext(ctx, `
		SELECT id, course, module, instance FROM course_modules
		WHERE module = ? AND instance = ? AND course = ?`, models.ModuleFacetoface, facetofaceID, courseID).
		Scan(&cm.ID, &cm.CourseID, &cm.Module, &cm.InstanceID)
	if err != nil {
		return nil, notFound(err)
	}
	return &cm, nil
}

const signupSelect = `
	SELECT su.id, su.sessionid, su.userid, u.firstname, u.lastname, u.email, ss.statuscode, ss.timecreated
	FROM facetoface_signups su
	JOIN facetoface_signups_status ss ON ss.signupid = su.id AND ss.superceded = 0
	JOIN users u ON u.id = su.userid
	WHERE su.sessionid = ?`

// GetRequests returns the pending requests of a session, oldest first.
func (s *Store) GetRequests(ctx context.Context, sessionID int64) ([]models.Signup, error) {
	return s.signupsWithStatus(ctx, sessionID, []models.SignupStatus{models.StatusRequested},
		"ss.timecreated, u.lastname, u.firstname")
}

// GetAttendees returns the signups of a session that hold a place:
// waitlisted, booked or attended in any way.
func (s *Store) GetAttendees(ctx context.Context, sessionID int64) ([]models.Signup, error) {
	return s.signupsWithStatus(ctx, sessionID, models.AttendeeStatuses,
		"u.lastname, u.firstname")
}

// GetCancellations returns the signups a user cancelled, most recent first.
func (s *Store) GetCancellations(ctx context.Context, sessionID int64) ([]models.Signup, error) {
	return s.signupsWithStatus(ctx, sessionID, []models.SignupStatus{models.StatusUserCancelled},
		"ss.timecreated DESC, u.lastname")
}

func (s *Store) signupsWithStatus(ctx context.Context, sessionID int64, statuses []models.SignupStatus, order string) ([]models.Signup, error) {
	args := make([]any, 0, len(statuses)+1)
	args = append(args, sessionID)
	marks := make([]string, len(statuses))
	for i, st := range statuses {
		marks[i] = "?"
		args = append(args, int(st))
	}
	query := signupSelect + ` AND ss.statuscode IN (` + strings.Join(marks, ", ") + `) ORDER BY ` + order

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query signups: %w", err)
	}
	defer rows.Close()

	var out []models.Signup
	for rows.Next() {
		var (
			su     models.Signup
			code   int
			atUnix int64
		)
		if err := rows.Scan(&su.ID, &su.SessionID, &su.UserID, &su.FirstName, &su.LastName, &su.Email, &code, &atUnix); err != nil {
			return nil, fmt.Errorf("scan signup: %w", err)
		}
		su.StatusCode = models.SignupStatus(code)
		su.StatusTime = unixTime(atUnix)
		out = append(out, su)
	}
	return out, rows.Err()
}

// ListSessions returns every session of an activity with its booking
// counts, earliest first. Sessions without dates sort last.
func (s *Store) ListSessions(ctx context.Context, facetofaceID int64) ([]models.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.facetoface, s.capacity, s.allowoverbook, s.datetimeknown, s.duration, s.details, s.timecreated,
		       SUM(CASE WHEN ss.statuscode >= ? THEN 1 ELSE 0 END),
		       SUM(CASE WHEN ss.statuscode = ? THEN 1 ELSE 0 END),
		       SUM(CASE WHEN ss.statuscode = ? THEN 1 ELSE 0 END),
		       (SELECT MIN(d.timestart) FROM facetoface_sessions_dates d WHERE d.sessionid = s.id) AS firststart
		FROM facetoface_sessions s
		LEFT JOIN facetoface_signups su ON su.sessionid = s.id
		LEFT JOIN facetoface_signups_status ss ON ss.signupid = su.id AND ss.superceded = 0
		WHERE s.facetoface = ?
		GROUP BY s.id
		ORDER BY firststart IS NULL, firststart, s.id`,
		int(models.StatusBooked), int(models.StatusWaitlisted), int(models.StatusRequested), facetofaceID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []models.SessionSummary
	for rows.Next() {
		var booked, waitlisted, requests, first sql.NullInt64
		sess, err := scanSession(rows, &booked, &waitlisted, &requests, &first)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, models.SessionSummary{
			Session:    *sess,
			Booked:     int(booked.Int64),
			Waitlisted: int(waitlisted.Int64),
			Requests:   int(requests.Int64),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	dates, err := s.sessionDates(ctx,
		`sessionid IN (SELECT id FROM facetoface_sessions WHERE facetoface = ?)`, facetofaceID)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Session.Dates = dates[out[i].Session.ID]
	}
	return out, nil
}

// ListActivities returns every activity with its course name and session
// count, ordered by course then activity name.
func (s *Store) ListActivities(ctx context.Context) ([]models.ActivityListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.course, f.name, f.intro, f.approvalreqd, c.fullname,
		       (SELECT COUNT(*) FROM facetoface_sessions s WHERE s.facetoface = f.id)
		FROM facetoface f
		JOIN course c ON c.id = f.course
		ORDER BY c.fullname, f.name, f.id`)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var out []models.ActivityListing
	for rows.Next() {
		var (
			a        models.ActivityListing
			approval int
		)
		if err := rows.Scan(&a.ID, &a.CourseID, &a.Name, &a.Intro, &approval, &a.CourseName, &a.Sessions); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.ApprovalReqd = approval != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateSignupStatus supersedes the current status of a signup and records
// the new one. Both writes happen in a single transaction.
func (s *Store) UpdateSignupStatus(ctx context.Context, signupID int64, status models.SignupStatus, actorID int64, note string) error {
	return txn.Run(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE facetoface_signups_status SET superceded = 1
			WHERE signupid = ? AND superceded = 0`, signupID); err != nil {
			return fmt.Errorf("supersede status: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO facetoface_signups_status (signupid, statuscode, superceded, note, createdby, timecreated)
			VALUES (?, ?, 0, ?, ?, ?)`,
			signupID, int(status), note, actorID, time.Now().Unix()); err != nil {
			return fmt.Errorf("insert status: %w", err)
		}
		return nil
	})
}

// ErrSessionFull is returned by ApproveSignup when the session has no free
// place and does not allow overbooking. Nothing is written.
var ErrSessionFull = errors.New("session full")

// ApproveSignup records the approval of a request and its outcome in one
// transaction. The user is booked while the session has a free place and
// waitlisted once it is full if it allows overbooking. The approved status is
// kept in the history as a superseded row.
func (s *Store) ApproveSignup(ctx context.Context, sess *models.Session, signupID, actorID int64, note string) (models.SignupStatus, error) {
	var final models.SignupStatus
	err := txn.Run(ctx, s.db, func(tx *sql.Tx) error {
		var booked int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM facetoface_signups su
			JOIN facetoface_signups_status ss ON ss.signupid = su.id AND ss.superceded = 0
			WHERE su.sessionid = ? AND ss.statuscode >= ?`, sess.ID, int(models.StatusBooked)).Scan(&booked); err != nil {
			return fmt.Errorf("count booked: %w", err)
		}
		switch {
		case booked < sess.Capacity:
			final = models.StatusBooked
		case sess.AllowOverbook:
			final = models.StatusWaitlisted
		default:
			return ErrSessionFull
		}

		now := time.Now().Unix()
		if _, err := tx.ExecContext(ctx, `
			UPDATE facetoface_signups_status SET superceded = 1
			WHERE signupid = ? AND superceded = 0`, signupID); err != nil {
			return fmt.Errorf("supersede status: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO facetoface_signups_status (signupid, statuscode, superceded, note, createdby, timecreated)
			VALUES (?, ?, 1, ?, ?, ?), (?, ?, 0, ?, ?, ?)`,
			signupID, int(models.StatusApproved), note, actorID, now,
			signupID, int(final), note, actorID, now); err != nil {
			return fmt.Errorf("insert status: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return final, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func unixTime(secs int64) time.Time {
	if secs == 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}
