// Package domain defines the core domain models for the SolveSphere backend.
package domain

// Role represents the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// FragmentKind represents the type of an extracted content fragment.
type FragmentKind string

const (
	FragmentFormula  FragmentKind = "formula"
	FragmentTable    FragmentKind = "table"
	FragmentResearch FragmentKind = "research"
	FragmentDiagram  FragmentKind = "diagram"
	FragmentImage    FragmentKind = "image"
	FragmentNote     FragmentKind = "note"
)

// ValidFragmentKind reports whether k is one of the known kinds.
func ValidFragmentKind(k FragmentKind) bool {
	switch k {
	case FragmentFormula, FragmentTable, FragmentResearch, FragmentDiagram, FragmentImage, FragmentNote:
		return true
	}
	return false
}

// MaterializationState tracks the lifecycle of an image fragment.
// Non-image fragments are created complete and never transition.
type MaterializationState string

const (
	MaterializationNone    MaterializationState = ""
	MaterializationPending MaterializationState = "pending"
	MaterializationReady   MaterializationState = "ready"
	MaterializationFailed  MaterializationState = "failed"
)

// TurnState represents the state of a chat turn.
type TurnState string

const (
	TurnComposing     TurnState = "composing"
	TurnSent          TurnState = "sent"
	TurnAwaitingReply TurnState = "awaiting_reply"
	TurnReplyReceived TurnState = "reply_received"
	TurnErrored       TurnState = "errored"
)

// EventType represents the type of a workspace notification event.
type EventType string

const (
	EventFragmentAdded   EventType = "fragment_added"
	EventFragmentUpdated EventType = "fragment_updated"
	EventFragmentRemoved EventType = "fragment_removed"
	EventMessageAdded    EventType = "message_added"
)
