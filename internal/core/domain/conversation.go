package domain

// Turn roles used across conversation format variants.
const (
	RoleSystem    = "system"
	RoleHuman     = "human"
	RoleAssistant = "assistant"
)

// Turn is a single role-tagged message within a conversation example.
type Turn struct {
	// Role is one of the Role* constants. Format variants map it to
	// their own vocabulary on serialisation (e.g. "gpt" for assistant).
	Role string

	// Text is the message content.
	Text string
}

// ConversationExample is the training-data unit: an ordered sequence of
// turns plus provenance linking back to the source question.
type ConversationExample struct {
	// ID is the unique identifier for the example.
	ID string

	// SurveyID identifies the source survey document.
	SurveyID string

	// QuestionID identifies the source question. Every example traces
	// back to exactly one question for auditability.
	QuestionID string

	// Turns is the ordered conversation.
	Turns []Turn

	// Metadata holds optional provenance fields. Nil when metadata
	// preservation is disabled.
	Metadata map[string]string
}

// TurnText returns the text of the first turn with the given role, or
// an empty string if no such turn exists.
func (e ConversationExample) TurnText(role string) string {
	for _, t := range e.Turns {
		if t.Role == role {
			return t.Text
		}
	}
	return ""
}
