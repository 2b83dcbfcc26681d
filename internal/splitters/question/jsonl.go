package question

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
)

// questionRecord is the JSONL layout of one extracted question.
type questionRecord struct {
	ID       string   `json:"id"`
	SurveyID string   `json:"survey_id"`
	Parent   string   `json:"parent,omitempty"`
	Index    int      `json:"index,omitempty"`
	Label    string   `json:"label"`
	Options  []string `json:"options,omitempty"`
	Section  string   `json:"section,omitempty"`
}

// WriteJSONL writes questions as newline-delimited JSON, one per line.
func WriteJSONL(w io.Writer, questions []domain.Question) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, q := range questions {
		rec := questionRecord{
			ID:       q.ID,
			SurveyID: q.SurveyID,
			Parent:   q.Parent,
			Index:    q.Index,
			Label:    q.Label,
			Options:  q.Options,
			Section:  q.Section,
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadJSONL parses a question file written by WriteJSONL.
func ReadJSONL(r io.Reader) ([]domain.Question, error) {
	var questions []domain.Question

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}

		var rec questionRecord
		if err := json.Unmarshal(text, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", line, domain.ErrParse, err)
		}

		questions = append(questions, domain.Question{
			ID:       rec.ID,
			SurveyID: rec.SurveyID,
			Parent:   rec.Parent,
			Index:    rec.Index,
			Label:    rec.Label,
			Options:  rec.Options,
			Section:  rec.Section,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	return questions, nil
}
