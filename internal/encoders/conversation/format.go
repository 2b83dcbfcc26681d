package conversation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
)

// Format identifies a conversation wire format.
type Format string

const (
	// FormatShareGPT emits {"conversations":[{"from","value"},...]}.
	FormatShareGPT Format = "sharegpt"

	// FormatChatML emits {"messages":[{"role","content"},...]}.
	FormatChatML Format = "chatml"
)

// ParseFormat resolves a user-supplied format name. An empty name
// selects the default ShareGPT format.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "", FormatShareGPT:
		return FormatShareGPT, nil
	case FormatChatML:
		return FormatChatML, nil
	default:
		return "", fmt.Errorf("%w: unknown conversation format %q (expected %q or %q)",
			domain.ErrInvalidInput, name, FormatShareGPT, FormatChatML)
	}
}

type sharegptTurn struct {
	From  string `json:"from"`
	Value string `json:"value"`
}

type sharegptExample struct {
	Conversations []sharegptTurn    `json:"conversations"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type chatmlTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatmlExample struct {
	Messages []chatmlTurn      `json:"messages"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// sharegptRole maps canonical roles to the ShareGPT "from" vocabulary.
var sharegptRole = map[string]string{
	domain.RoleSystem:    "system",
	domain.RoleHuman:     "human",
	domain.RoleAssistant: "gpt",
}

var sharegptRoleBack = map[string]string{
	"system": domain.RoleSystem,
	"human":  domain.RoleHuman,
	"gpt":    domain.RoleAssistant,
}

// chatmlRole maps canonical roles to the ChatML vocabulary.
var chatmlRole = map[string]string{
	domain.RoleSystem:    "system",
	domain.RoleHuman:     "user",
	domain.RoleAssistant: "assistant",
}

var chatmlRoleBack = map[string]string{
	"system":    domain.RoleSystem,
	"user":      domain.RoleHuman,
	"assistant": domain.RoleAssistant,
}

// MarshalExample serialises one example in the given wire format.
func MarshalExample(f Format, ex *domain.ConversationExample) ([]byte, error) {
	if ex == nil {
		return nil, domain.ErrInvalidInput
	}

	switch f {
	case FormatShareGPT:
		w := sharegptExample{Metadata: ex.Metadata}
		for _, t := range ex.Turns {
			from, ok := sharegptRole[t.Role]
			if !ok {
				return nil, fmt.Errorf("%w: unknown turn role %q", domain.ErrInvalidInput, t.Role)
			}
			w.Conversations = append(w.Conversations, sharegptTurn{From: from, Value: t.Text})
		}
		return json.Marshal(w)

	case FormatChatML:
		w := chatmlExample{Metadata: ex.Metadata}
		for _, t := range ex.Turns {
			role, ok := chatmlRole[t.Role]
			if !ok {
				return nil, fmt.Errorf("%w: unknown turn role %q", domain.ErrInvalidInput, t.Role)
			}
			w.Messages = append(w.Messages, chatmlTurn{Role: role, Content: t.Text})
		}
		return json.Marshal(w)

	default:
		return nil, fmt.Errorf("%w: unknown conversation format %q", domain.ErrInvalidInput, f)
	}
}

// UnmarshalExample parses one serialised example. Provenance fields are
// restored from metadata when present.
func UnmarshalExample(f Format, data []byte) (*domain.ConversationExample, error) {
	ex := &domain.ConversationExample{}

	switch f {
	case FormatShareGPT:
		var w sharegptExample
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
		}
		for _, t := range w.Conversations {
			role, ok := sharegptRoleBack[t.From]
			if !ok {
				return nil, fmt.Errorf("%w: unknown turn role %q", domain.ErrParse, t.From)
			}
			ex.Turns = append(ex.Turns, domain.Turn{Role: role, Text: t.Value})
		}
		ex.Metadata = w.Metadata

	case FormatChatML:
		var w chatmlExample
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
		}
		for _, t := range w.Messages {
			role, ok := chatmlRoleBack[t.Role]
			if !ok {
				return nil, fmt.Errorf("%w: unknown turn role %q", domain.ErrParse, t.Role)
			}
			ex.Turns = append(ex.Turns, domain.Turn{Role: role, Text: t.Content})
		}
		ex.Metadata = w.Metadata

	default:
		return nil, fmt.Errorf("%w: unknown conversation format %q", domain.ErrInvalidInput, f)
	}

	if ex.Metadata != nil {
		ex.SurveyID = ex.Metadata["survey_id"]
		ex.QuestionID = ex.Metadata["question_id"]
	}

	return ex, nil
}

// DecodeQuestion recovers the question material embedded in an example:
// the prompt label, response options, and the XML section. It is the
// round-trip inverse of Encode for the fields an example carries.
func DecodeQuestion(ex *domain.ConversationExample) domain.Question {
	if ex == nil {
		return domain.Question{}
	}

	label, options := DecodePrompt(ex.TurnText(domain.RoleHuman))
	q := domain.Question{
		ID:       ex.QuestionID,
		SurveyID: ex.SurveyID,
		Label:    label,
		Options:  options,
		Section:  ex.TurnText(domain.RoleAssistant),
	}

	if ex.Metadata != nil {
		q.Parent = ex.Metadata["parent"]
	}

	return q
}
