package domain

import (
	"time"
)

// User represents a registered account.
type User struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	IsAdmin      bool      `json:"is_admin,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SafeProfile returns the public projection of a user.
func (u *User) SafeProfile() map[string]interface{} {
	return map[string]interface{}{
		"user_id":      u.UserID,
		"display_name": u.DisplayName,
		"avatar_url":   u.AvatarURL,
		"bio":          u.Bio,
		"created_at":   u.CreatedAt,
	}
}

// Problem represents a challenge in the catalog.
type Problem struct {
	ProblemID           string    `json:"problem_id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	DetailedDescription string    `json:"detailed_description,omitempty"`
	Category            string    `json:"category"`
	Difficulty          int       `json:"difficulty"`
	Constraints         string    `json:"constraints,omitempty"`
	SourceURL           string    `json:"source_url,omitempty"`
	SourcePlatform      string    `json:"source_platform,omitempty"`
	CreatedBy           string    `json:"created_by,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Solution represents a community solution write-up.
type Solution struct {
	SolutionID string    `json:"solution_id"`
	ProblemID  string    `json:"problem_id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	IsPublic   bool      `json:"is_public"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Comment represents a threaded comment on a solution.
type Comment struct {
	CommentID  string    `json:"comment_id"`
	SolutionID string    `json:"solution_id"`
	UserID     string    `json:"user_id"`
	ParentID   string    `json:"parent_id,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Vote represents a single user's vote on a solution. Value is +1 or -1.
type Vote struct {
	VoteID     string    `json:"vote_id"`
	SolutionID string    `json:"solution_id"`
	UserID     string    `json:"user_id"`
	Value      int       `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

// VoteSummary aggregates votes for a solution.
type VoteSummary struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
	Total     int `json:"total"`
	Count     int `json:"count"`
}

// Session represents one solving workspace for a (user, problem) pair.
type Session struct {
	SessionID string    `json:"session_id"`
	ProblemID string    `json:"problem_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents a single message in a session transcript.
// Messages are immutable once created; the only mutation is deletion.
type Message struct {
	MessageID string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Fragment represents a typed piece of content extracted from assistant
// output and accumulated in a workspace. Kind and SourceMessageID are fixed
// at creation; Title and Body may be edited by the user, and on a
// successful materialization the image fragment's Body is rewritten to a
// short prompt description and Payload is filled.
//
// SourceMessageID is a weak back-reference for traceability only: deleting
// the source message never deletes the fragment.
type Fragment struct {
	FragmentID      string               `json:"fragment_id"`
	SessionID       string               `json:"session_id"`
	Kind            FragmentKind         `json:"kind"`
	Title           string               `json:"title,omitempty"`
	Body            string               `json:"body"`
	SourceMessageID string               `json:"source_message_id,omitempty"`
	State           MaterializationState `json:"state,omitempty"`
	// Payload holds the materialized image: a base64 string or remote URL.
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Materialized reports whether an image fragment carries a payload.
func (f *Fragment) Materialized() bool {
	return f.State == MaterializationReady && f.Payload != ""
}

// GeneratedImage is one output of the image generation collaborator.
type GeneratedImage struct {
	ID           string `json:"id"`
	B64          string `json:"b64,omitempty"`
	URL          string `json:"url,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
	Seed         int64  `json:"seed,omitempty"`
}

// Event is a workspace notification pushed to connected clients.
type Event struct {
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	Ts        int64       `json:"ts"`
	Data      interface{} `json:"data,omitempty"`
}
