package domain

// ChatTurnRequest is the request body for one chat turn.
type ChatTurnRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
	// UseSearch enriches the prompt with web search results.
	UseSearch bool `json:"use_search,omitempty"`
}

// ChatTurnResponse carries the outcome of one chat turn.
type ChatTurnResponse struct {
	SessionID   string     `json:"session_id"`
	Turn        TurnState  `json:"turn"`
	UserMessage *Message   `json:"user_message"`
	Reply       *Message   `json:"reply"`
	Fragments   []Fragment `json:"fragments,omitempty"`
}

// GenerateImageRequest is the request body for the image passthrough.
type GenerateImageRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	NumOutputs     int    `json:"num_outputs,omitempty"`
}

// GenerateImageResponse carries generated images.
type GenerateImageResponse struct {
	Images []GeneratedImage `json:"images"`
}

// GenerateSolutionRequest asks for a structured write-up from a workspace.
type GenerateSolutionRequest struct {
	SessionID string `json:"session_id"`
}

// GenerateSolutionResponse carries the generated write-up.
type GenerateSolutionResponse struct {
	Solution string `json:"solution"`
	Status   string `json:"status"`
}

// SignupRequest creates an account.
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// SigninRequest authenticates an account.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a signed token and the account it belongs to.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// VoteRequest casts, changes, or removes (value 0) a vote.
type VoteRequest struct {
	SolutionID string `json:"solution_id"`
	Value      int    `json:"value"`
}

// FragmentPatch is a partial update for a fragment. Nil fields are left
// untouched.
type FragmentPatch struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

// ProblemFilter narrows problem list queries.
type ProblemFilter struct {
	Category   string
	Difficulty int
	Limit      int
	Offset     int
}

// SolutionFilter narrows solution list queries.
type SolutionFilter struct {
	ProblemID string
	UserID    string
	// RequesterID is the authenticated caller; non-public solutions are
	// only visible when RequesterID matches the solution owner.
	RequesterID string
	Limit       int
	Offset      int
}

// CommentFilter narrows comment list queries.
type CommentFilter struct {
	SolutionID string
	UserID     string
	ParentID   string
	TopLevel   bool
	Limit      int
	Offset     int
}
