// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth       = "auth"
	CategoryFacetoface = "facetoface"
)

// Auth event types
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedUserDisabled  = "login_failed_user_disabled"
	EventLogout                   = "logout"
)

// Facetoface event types
const (
	EventApproveRequests = "approve_requests"
	EventAttendeesViewed = "attendees_viewed"
)

// Event represents an audit event.
//
// Facetoface events are keyed by the course module (ContextInstanceID) and
// the session (ObjectID in ObjectTable).
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who
	UserID  *int64 `bson:"user_id,omitempty"`  // affected user
	ActorID *int64 `bson:"actor_id,omitempty"` // who performed the action

	// Where
	CourseID          int64  `bson:"course_id,omitempty"`
	ContextInstanceID int64  `bson:"context_instance_id,omitempty"`
	ObjectTable       string `bson:"object_table,omitempty"`
	ObjectID          int64  `bson:"object_id,omitempty"`

	// Request
	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty"`
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Query by time range (most recent first)
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
		},
		// Query by course module, then session
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "context_instance_id", Value: 1},
				{Key: "object_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// GetBySession retrieves the most recent facetoface events for one session
// of a course module, newest first.
func (s *Store) GetBySession(ctx context.Context, courseModuleID, sessionID int64, limit int64) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	query := bson.M{
		"category":            CategoryFacetoface,
		"context_instance_id": courseModuleID,
		"object_id":           sessionID,
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
