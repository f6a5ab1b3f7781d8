// Package approvals applies an approver's decisions to the pending requests
// of a face-to-face session.
package approvals

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dalemusser/facetoface/internal/app/policy/approvalpolicy"
	facetofacestore "github.com/dalemusser/facetoface/internal/app/store/facetoface"
	"github.com/dalemusser/facetoface/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the data access the service needs. facetofacestore.Store
// implements it.
type Store interface {
	GetSession(ctx context.Context, id int64) (*models.Session, error)
	GetFacetoface(ctx context.Context, id int64) (*models.Facetoface, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	GetRequests(ctx context.Context, sessionID int64) ([]models.Signup, error)
	ApproveSignup(ctx context.Context, session *models.Session, signupID, actorID int64, note string) (models.SignupStatus, error)
	UpdateSignupStatus(ctx context.Context, signupID int64, status models.SignupStatus, actorID int64, note string) error
}

// Policy decides whether a viewer may approve a user's request.
type Policy interface {
	CanApprove(ctx context.Context, viewer approvalpolicy.Viewer, targetUserID int64) (bool, error)
}

// Notifier tells a requester what happened to their request.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// NoticeKind says which message a requester receives.
type NoticeKind string

const (
	NoticeBooked     NoticeKind = "booked"
	NoticeWaitlisted NoticeKind = "waitlisted"
	NoticeDeclined   NoticeKind = "declined"
)

// Notice is one message to a requester.
type Notice struct {
	Kind         NoticeKind
	BatchID      string
	UserID       int64
	Name         string
	Email        string
	ActivityName string
	CourseName   string
	Session      models.Session
}

// Result summarises one ApproveRequests call. Slices hold user IDs.
type Result struct {
	BatchID    string
	Declined   []int64
	Booked     []int64
	Waitlisted []int64
	// Full holds users whose approval was refused because the session was
	// full and does not allow overbooking. Their requests stay pending.
	Full []int64
	// Skipped holds users whose decision was ignored: not a pending request
	// of the session, or not approvable by the viewer.
	Skipped []int64
}

// Changed is the number of requests whose status changed.
func (r Result) Changed() int {
	return len(r.Declined) + len(r.Booked) + len(r.Waitlisted)
}

// Service applies approval decisions.
type Service struct {
	store    Store
	policy   Policy
	notifier Notifier
	log      *zap.Logger
}

// New creates a Service. notifier may be nil, in which case no notices are
// sent.
func New(store Store, policy Policy, notifier Notifier, log *zap.Logger) *Service {
	return &Service{store: store, policy: policy, notifier: notifier, log: log}
}

// ApproveRequests applies decisions (keyed by requesting user ID) to the
// pending requests of sessionID on behalf of viewer.
//
// Each request is committed on its own; approving one writes the approved
// status and the booking outcome together. On error the returned Result
// lists the changes committed before the failure.
func (s *Service) ApproveRequests(ctx context.Context, viewer approvalpolicy.Viewer, sessionID int64, decisions models.Decisions) (Result, error) {
	res := Result{BatchID: uuid.NewString()}

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return res, fmt.Errorf("load session %d: %w", sessionID, err)
	}
	requests, err := s.store.GetRequests(ctx, sessionID)
	if err != nil {
		return res, fmt.Errorf("load requests: %w", err)
	}
	pending := make(map[int64]models.Signup, len(requests))
	for _, req := range requests {
		pending[req.UserID] = req
	}

	var names noticeNames
	if s.notifier != nil && decisions.Actionable() {
		names = s.loadNames(ctx, session)
	}

	userIDs := make([]int64, 0, len(decisions))
	for id := range decisions {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	for _, userID := range userIDs {
		decision := decisions[userID]
		if decision == models.DecisionDefer {
			continue
		}
		req, ok := pending[userID]
		if !ok {
			res.Skipped = append(res.Skipped, userID)
			continue
		}

		switch decision {
		case models.DecisionDecline:
			if err := s.store.UpdateSignupStatus(ctx, req.ID, models.StatusDeclined, viewer.ID, ""); err != nil {
				return res, fmt.Errorf("decline user %d: %w", userID, err)
			}
			res.Declined = append(res.Declined, userID)
			s.notify(ctx, NoticeDeclined, res.BatchID, req, session, names)

		case models.DecisionApprove:
			can, err := s.policy.CanApprove(ctx, viewer, userID)
			if err != nil {
				return res, err
			}
			if !can {
				s.log.Warn("approval skipped: viewer lacks capability",
					zap.Int64("viewer_id", viewer.ID),
					zap.Int64("user_id", userID),
					zap.Int64("session_id", sessionID))
				res.Skipped = append(res.Skipped, userID)
				continue
			}

			final, err := s.store.ApproveSignup(ctx, session, req.ID, viewer.ID, "")
			switch {
			case errors.Is(err, facetofacestore.ErrSessionFull):
				res.Full = append(res.Full, userID)
			case err != nil:
				return res, fmt.Errorf("approve user %d: %w", userID, err)
			case final == models.StatusWaitlisted:
				res.Waitlisted = append(res.Waitlisted, userID)
				s.notify(ctx, NoticeWaitlisted, res.BatchID, req, session, names)
			default:
				res.Booked = append(res.Booked, userID)
				s.notify(ctx, NoticeBooked, res.BatchID, req, session, names)
			}
		}
	}

	s.log.Info("session requests processed",
		zap.String("batch_id", res.BatchID),
		zap.Int64("session_id", sessionID),
		zap.Int64("viewer_id", viewer.ID),
		zap.Int("declined", len(res.Declined)),
		zap.Int("booked", len(res.Booked)),
		zap.Int("waitlisted", len(res.Waitlisted)),
		zap.Int("full", len(res.Full)),
		zap.Int("skipped", len(res.Skipped)))

	return res, nil
}

type noticeNames struct {
	activity string
	course   string
}

func (s *Service) loadNames(ctx context.Context, session *models.Session) noticeNames {
	var n noticeNames
	f, err := s.store.GetFacetoface(ctx, session.FacetofaceID)
	if err != nil {
		s.log.Warn("notice: load activity", zap.Int64("facetoface_id", session.FacetofaceID), zap.Error(err))
		return n
	}
	n.activity = f.Name
	if c, err := s.store.GetCourse(ctx, f.CourseID); err == nil {
		n.course = c.FullName
	} else {
		s.log.Warn("notice: load course", zap.Int64("course_id", f.CourseID), zap.Error(err))
	}
	return n
}

func (s *Service) notify(ctx context.Context, kind NoticeKind, batchID string, req models.Signup, session *models.Session, names noticeNames) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, Notice{
		Kind:         kind,
		BatchID:      batchID,
		UserID:       req.UserID,
		Name:         req.FullName(),
		Email:        req.Email,
		ActivityName: names.activity,
		CourseName:   names.course,
		Session:      *session,
	})
	if err != nil {
		s.log.Warn("notice not sent",
			zap.String("kind", string(kind)),
			zap.Int64("user_id", req.UserID),
			zap.Error(err))
	}
}
