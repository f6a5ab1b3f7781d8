package facetofacestore_test

import (
	"testing"
	"time"

	facetofacestore "github.com/dalemusser/facetoface/internal/app/store/facetoface"
	"github.com/dalemusser/facetoface/internal/domain/models"
	"github.com/dalemusser/facetoface/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetSession(t *testing.T) {
	db := testutil.SetupTestSQL(t)
	fx := testutil.NewFixtures(t, db)
	store := facetofacestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	act := fx.CreateActivity(ctx, "Safety 101", "Fire drill")
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	created := fx.CreateSession(ctx, act.Facetoface.ID, 12, true, start)

	got, err := store.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, act.Facetoface.ID, got.FacetofaceID)
	assert.Equal(t, 12, got.Capacity)
	assert.True(t, got.AllowOverbook)
	assert.Equal(t, time.Hour, got.Duration)
	require.Len(t, got.Dates, 1)
	assert.True(t, got.Dates[0].TimeStart.Equal(start))
}

func TestStore_NotFound(t *testing.T) {
	db := testutil.SetupTestSQL(t)
	store := facetofacestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetSession(ctx, 999)
	assert.ErrorIs(t, err, facetofacestore.ErrNotFound)

	_, err = store.GetFacetoface(ctx, 999)
	assert.ErrorIs(t, err, facetofacestore.ErrNotFound)

	_, err = store.GetCourse(ctx, 999)
	assert.ErrorIs(t, err, facetofacestore.ErrNotFound)

	_, err = store.GetCourseModule(ctx, 999, 999)
	assert.ErrorIs(t, err, facetofacestore.ErrNotFound)
}

func TestStore_GetCourseModule_WrongCourse(t *testing.T) {
	db := testutil.SetupTestSQL(t)
	fx := testutil.NewFixtures(t, db)
	store := facetofacestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	act := fx.CreateActivity(ctx, "Safety 101", "Fire drill")
	other := fx.CreateActivity(ctx, "Other", "Other activity")

	cm, err := store.GetCourseModule(ctx, act.Facetoface.ID, act.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, act.CourseModule.ID, cm.ID)

	_, err = store.GetCourseModule(ctx, act.Facetoface.ID, other.Course.ID)
	assert.ErrorIs(t, err, facetofacestore.ErrNotFound)
}

func TestStore_SignupLists(t *testing.T) {
	db := testutil.SetupTestSQL(t)
	fx := testutil.NewFixtures(t, db)
	store := facetofacestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	act := fx.CreateActivity(ctx, "Safety 101", "Fire drill")
	sess := fx.CreateSession(ctx, act.Facetoface.ID, 10, false, time.Now().Add(48*time.Hour))

	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	late := fx.CreateUser(ctx, "Zed", "Late", models.RoleUser)
	early := fx.CreateUser(ctx, "Amy", "Early", models.RoleUser)
	booked := fx.CreateUser(ctx, "Bob", "Booked", models.RoleUser)
	waiting := fx.CreateUser(ctx, "Wes", "Waiting", models.RoleUser)
	gone := fx.CreateUser(ctx, "Cat", "Cancelled", models.RoleUser)
	declined := fx.CreateUser(ctx, "Dan", "Declined", models.RoleUser)

	fx.CreateSignup(ctx, sess.ID, late.ID, models.StatusRequested, base.Add(time.Hour))
	fx.CreateSignup(ctx, sess.ID, early.ID, models.StatusRequested, base)
	fx.CreateSignup(ctx, sess.ID, booked.ID, models.StatusBooked, base)
	fx.CreateSignup(ctx, sess.ID, waiting.ID, models.StatusWaitlisted, base)
	fx.CreateSignup(ctx, sess.ID, gone.ID, models.StatusUserCancelled, base)
	fx.CreateSignup(ctx, sess.ID, declined.ID, models.StatusDeclined, base)

	requests, err := store.GetRequests(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, early.ID, requests[0].UserID)
	assert.Equal(t, late.ID, requests[1].UserID)
	assert.Equal(t, "Amy Early", requests[0].FullName())
	assert.True(t, requests[0].StatusTime.Equal(base))

	attendees, err := store.GetAttendees(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, attendees, 2)
	assert.Equal(t, booked.ID, attendees[0].UserID)
	assert.Equal(t, waiting.ID, attendees[1].UserID)

	cancellations, err := store.GetCancellations(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, cancellations, 1)
	assert.Equal(t, gone.ID, cancellations[0].UserID)
}

func TestStore_UpdateSignupStatus_SupersedesPrevious(t *testing.T) {
	db := testutil.SetupTestSQL(t)
	fx := testutil.NewFixtures(t, db)
	store := facetofacestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	act := fx.CreateActivity(ctx, "Safety 101", "Fire drill")
	sess := fx.CreateSession(ctx, act.Facetoface.ID, 10, false, time.Now())
	u := fx.CreateUser(ctx, "Amy", "Early", models.RoleUser)
	signupID := fx.CreateSignup(ctx, sess.ID, u.ID, models.StatusRequested, time.Now())

	require.NoError(t, store.UpdateSignupStatus(ctx, signupID, models.StatusApproved, 1, ""))
	require.NoError(t, store.UpdateSignupStatus(ctx, signupID, models.StatusBooked, 1, "approved"))

	assert.Equal(t, models.StatusBooked, fx.CurrentStatus(ctx, sess.ID, u.ID))

	var rows, current int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*), SUM(CASE WHEN superceded = 0 THEN 1 ELSE 0 END) FROM facetoface_signups_status WHERE signupid = ?`,
		signupID).Scan(&rows, &current))
	assert.Equal(t, 3, rows)
	assert.Equal(t, 1, current)

	requests, err := store.GetRequests(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestStore_ApproveSignup(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		overbook bool
		want     models.SignupStatus
		wantErr  error
	}{
		{"free place books", 2, false, models.StatusBooked, nil},
		{"full with overbook waitlists", 1, true, models.StatusWaitlisted, nil},
		{"full without overbook refuses", 1, false, models.StatusRequested, facetofacestore.ErrSessionFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestSQL(t)
			fx := testutil.NewFixtures(t, db)
			store := facetofacestore.New(db)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			act := fx.CreateActivity(ctx, "Safety 101", "Fire drill")
			sess := fx.CreateSession(ctx, act.Facetoface.ID, tt.capacity, tt.overbook, time.Now().Add(time.Hour))
			holder := fx.CreateUser(ctx, "Bob", "Booked", models.RoleUser)
			amy := fx.CreateUser(ctx, "Amy", "Early", models.RoleUser)
			fx.CreateSignup(ctx, sess.ID, holder.ID, models.StatusBooked, time.Now())
			signupID := fx.CreateSignup(ctx, sess.ID, amy.ID, models.StatusRequested, time.Now())

			loaded, err := store.GetSession(ctx, sess.ID)
			require.NoError(t, err)

			got, err := store.ApproveSignup(ctx, loaded, signupID, 1, "")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.want, fx.CurrentStatus(ctx, sess.ID, amy.ID))

			var history []int
			rows, err := db.QueryContext(ctx,
				`SELECT statuscode FROM facetoface_signups_status WHERE signupid = ? ORDER BY id`, signupID)
			require.NoError(t, err)
			for rows.Next() {
				var code int
				require.NoError(t, rows.Scan(&code))
				history = append(history, code)
			}
			require.NoError(t, rows.Err())
			rows.Close()

			if tt.wantErr != nil {
				assert.Equal(t, []int{int(models.StatusRequested)}, history)
				requests, err := store.GetRequests(ctx, sess.ID)
				require.NoError(t, err)
				require.Len(t, requests, 1)
				assert.Equal(t, amy.ID, requests[0].UserID)
				return
			}
			assert.Equal(t, []int{int(models.StatusRequested), int(models.StatusApproved), int(tt.want)}, history)
		})
	}
}

func TestStore_ListSessions(t *testing.T) {
	db := testutil.SetupTestSQL(t)
	fx := testutil.NewFixtures(t, db)
	store := facetofacestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	act := fx.CreateActivity(ctx, "Safety 101", "Fire drill")
	now := time.Now().UTC()
	later := fx.CreateSession(ctx, act.Facetoface.ID, 5, false, now.Add(72*time.Hour))
	sooner := fx.CreateSession(ctx, act.Facetoface.ID, 5, false, now.Add(24*time.Hour))

	a := fx.CreateUser(ctx, "Amy", "A", models.RoleUser)
	b := fx.CreateUser(ctx, "Bob", "B", models.RoleUser)
	c := fx.CreateUser(ctx, "Cat", "C", models.RoleUser)
	fx.CreateSignup(ctx, sooner.ID, a.ID, models.StatusBooked, now)
	fx.CreateSignup(ctx, sooner.ID, b.ID, models.StatusRequested, now)
	fx.CreateSignup(ctx, sooner.ID, c.ID, models.StatusWaitlisted, now)

	list, err := store.ListSessions(ctx, act.Facetoface.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, sooner.ID, list[0].ID)
	require.Len(t, list[0].Dates, 1)
	assert.True(t, list[0].Dates[0].TimeStart.Equal(now.Add(24*time.Hour).Truncate(time.Second)))
	assert.Equal(t, 1, list[0].Booked)
	assert.Equal(t, 1, list[0].Waitlisted)
	assert.Equal(t, 1, list[0].Requests)

	assert.Equal(t, later.ID, list[1].ID)
	require.Len(t, list[1].Dates, 1)
	assert.True(t, list[1].Dates[0].TimeStart.Equal(now.Add(72*time.Hour).Truncate(time.Second)))
	assert.Zero(t, list[1].Booked)
	assert.Zero(t, list[1].Requests)
}

func TestStore_ListActivities(t *testing.T) {
	db := testutil.SetupTestSQL(t)
	fx := testutil.NewFixtures(t, db)
	store := facetofacestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	zoo := fx.CreateActivity(ctx, "Zoology", "Handling")
	art := fx.CreateActivity(ctx, "Art", "Glazing")
	fx.CreateSession(ctx, zoo.Facetoface.ID, 5, false, time.Now().Add(time.Hour))
	fx.CreateSession(ctx, zoo.Facetoface.ID, 5, false, time.Now().Add(2*time.Hour))

	list, err := store.ListActivities(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, art.Facetoface.ID, list[0].ID)
	assert.Equal(t, "Art", list[0].CourseName)
	assert.Zero(t, list[0].Sessions)

	assert.Equal(t, zoo.Facetoface.ID, list[1].ID)
	assert.Equal(t, 2, list[1].Sessions)
	assert.True(t, list[1].ApprovalReqd)
}
