package conversation

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
)

// maxLineBytes bounds a single JSONL record. Survey sections are large
// but a single example should never approach this.
const maxLineBytes = 16 * 1024 * 1024

// WriteJSONL writes examples as newline-delimited JSON, one example per
// line.
func WriteJSONL(w io.Writer, f Format, examples []*domain.ConversationExample) error {
	bw := bufio.NewWriter(w)
	for _, ex := range examples {
		data, err := MarshalExample(f, ex)
		if err != nil {
			return err
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteArray writes examples as a single indented JSON array.
func WriteArray(w io.Writer, f Format, examples []*domain.ConversationExample) error {
	raw := make([]json.RawMessage, 0, len(examples))
	for _, ex := range examples {
		data, err := MarshalExample(f, ex)
		if err != nil {
			return err
		}
		raw = append(raw, data)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

// ReadDataset parses a dataset stream in either layout: a JSON array or
// newline-delimited JSON. The layout is detected from the first
// non-whitespace byte.
func ReadDataset(r io.Reader, f Format) ([]*domain.ConversationExample, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		return readArray(trimmed, f)
	}
	return readJSONL(data, f)
}

func readArray(data []byte, f Format) ([]*domain.ConversationExample, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	examples := make([]*domain.ConversationExample, 0, len(raw))
	for i, item := range raw {
		ex, err := UnmarshalExample(f, item)
		if err != nil {
			return nil, fmt.Errorf("example %d: %w", i, err)
		}
		examples = append(examples, ex)
	}
	return examples, nil
}

func readJSONL(data []byte, f Format) ([]*domain.ConversationExample, error) {
	var examples []*domain.ConversationExample

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		ex, err := UnmarshalExample(f, text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		examples = append(examples, ex)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	return examples, nil
}
