package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/facetoface/internal/app/system/authutil"
	"github.com/dalemusser/facetoface/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *sql.DB
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *sql.DB {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, query string, args ...any) int64 {
	f.t.Helper()
	res, err := f.db.ExecContext(ctx, query, args...)
	if err != nil {
		f.t.Fatalf("fixture insert failed: %v\n%s", err, query)
	}
	id, err := res.LastInsertId()
	if err != nil {
		f.t.Fatalf("fixture insert id: %v", err)
	}
	return id
}

// CreateUser creates an active test user with the given site role.
func (f *Fixtures) CreateUser(ctx context.Context, firstName, lastName, role string) models.User {
	f.t.Helper()
	return f.createUser(ctx, firstName, lastName, role, "")
}

// CreateUserWithPassword creates an active user with a hashed password, for
// login tests.
func (f *Fixtures) CreateUserWithPassword(ctx context.Context, firstName, lastName, role, password string) models.User {
	f.t.Helper()
	hash, err := authutil.HashPassword(password)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	return f.createUser(ctx, firstName, lastName, role, hash)
}

func (f *Fixtures) createUser(ctx context.Context, firstName, lastName, role, hash string) models.User {
	f.t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	u := models.User{
		Username:     lowerJoin(firstName, lastName),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        lowerJoin(firstName, lastName) + "@example.com",
		Role:         role,
		Status:       models.UserActive,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	u.ID = f.insert(ctx, `
		INSERT INTO users (username, firstname, lastname, email, role, status, password_hash, timecreated, timemodified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.FirstName, u.LastName, u.Email, u.Role, u.Status, u.PasswordHash, now.Unix(), now.Unix())
	return u
}

// SuspendUser marks a user as suspended.
func (f *Fixtures) SuspendUser(ctx context.Context, userID int64) {
	f.t.Helper()
	if _, err := f.db.ExecContext(ctx, `UPDATE users SET status = ? WHERE id = ?`, models.UserSuspended, userID); err != nil {
		f.t.Fatalf("suspend user: %v", err)
	}
}

// GrantCapability assigns a capability to a user. A nil contextUserID makes
// the grant site wide.
func (f *Fixtures) GrantCapability(ctx context.Context, userID int64, capability string, contextUserID *int64) {
	f.t.Helper()
	f.insert(ctx, `INSERT INTO capability_assignments (userid, capability, context_userid) VALUES (?, ?, ?)`,
		userID, capability, contextUserID)
}

// Activity groups the records a facetoface activity needs.
type Activity struct {
	Course       models.Course
	Facetoface   models.Facetoface
	CourseModule models.CourseModule
}

// CreateActivity creates a course, a facetoface activity in it and the
// course module that binds them.
func (f *Fixtures) CreateActivity(ctx context.Context, courseName, activityName string) Activity {
	f.t.Helper()

	var a Activity
	a.Course = models.Course{FullName: courseName, ShortName: courseName}
	a.Course.ID = f.insert(ctx, `INSERT INTO course (fullname, shortname) VALUES (?, ?)`,
		a.Course.FullName, a.Course.ShortName)

	a.Facetoface = models.Facetoface{CourseID: a.Course.ID, Name: activityName, ApprovalReqd: true}
	a.Facetoface.ID = f.insert(ctx, `INSERT INTO facetoface (course, name, approvalreqd) VALUES (?, ?, 1)`,
		a.Course.ID, activityName)

	a.CourseModule = models.CourseModule{CourseID: a.Course.ID, Module: models.ModuleFacetoface, InstanceID: a.Facetoface.ID}
	a.CourseModule.ID = f.insert(ctx, `INSERT INTO course_modules (course, module, instance) VALUES (?, ?, ?)`,
		a.Course.ID, models.ModuleFacetoface, a.Facetoface.ID)
	return a
}

// CreateSession creates a session of the activity starting at start and
// lasting one hour.
func (f *Fixtures) CreateSession(ctx context.Context, facetofaceID int64, capacity int, allowOverbook bool, start time.Time) models.Session {
	f.t.Helper()

	s := models.Session{
		FacetofaceID:  facetofaceID,
		Capacity:      capacity,
		AllowOverbook: allowOverbook,
		DatetimeKnown: true,
		Duration:      time.Hour,
		TimeCreated:   time.Now().UTC().Truncate(time.Second),
	}
	s.ID = f.insert(ctx, `
		INSERT INTO facetoface_sessions (facetoface, capacity, allowoverbook, datetimeknown, duration, timecreated)
		VALUES (?, ?, ?, 1, ?, ?)`,
		facetofaceID, capacity, boolInt(allowOverbook), int64(time.Hour/time.Second), s.TimeCreated.Unix())

	d := models.SessionDate{TimeStart: start.UTC().Truncate(time.Second), TimeFinish: start.Add(time.Hour).UTC().Truncate(time.Second)}
	f.insert(ctx, `INSERT INTO facetoface_sessions_dates (sessionid, timestart, timefinish) VALUES (?, ?, ?)`,
		s.ID, d.TimeStart.Unix(), d.TimeFinish.Unix())
	s.Dates = []models.SessionDate{d}
	return s
}

// CreateSignup signs a user up for a session with the given current status
// recorded at the given time. It returns the signup ID.
func (f *Fixtures) CreateSignup(ctx context.Context, sessionID, userID int64, status models.SignupStatus, at time.Time) int64 {
	f.t.Helper()

	signupID := f.insert(ctx, `INSERT INTO facetoface_signups (sessionid, userid) VALUES (?, ?)`, sessionID, userID)
	f.insert(ctx, `
		INSERT INTO facetoface_signups_status (signupid, statuscode, superceded, createdby, timecreated)
		VALUES (?, ?, 0, ?, ?)`,
		signupID, int(status), userID, at.Unix())
	return signupID
}

// CurrentStatus returns the non-superceded status code of a user's signup.
func (f *Fixtures) CurrentStatus(ctx context.Context, sessionID, userID int64) models.SignupStatus {
	f.t.Helper()

	var code int
	err := f.db.QueryRowContext(ctx, `
		SELECT ss.statuscode
		FROM facetoface_signups s
		JOIN facetoface_signups_status ss ON ss.signupid = s.id AND ss.superceded = 0
		WHERE s.sessionid = ? AND s.userid = ?`, sessionID, userID).Scan(&code)
	if err != nil {
		f.t.Fatalf("current status for user %d: %v", userID, err)
	}
	return models.SignupStatus(code)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func lowerJoin(a, b string) string {
	return strings.ToLower(strings.ReplaceAll(a+"."+b, " ", ""))
}
