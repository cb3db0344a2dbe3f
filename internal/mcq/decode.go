package mcq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// decodeValidator names rejections raised while decoding an entry.
const decodeValidator = "decode"

// entryFields is one raw entry of the "questions" array. Fields stay raw so
// each can be decoded tolerantly.
type entryFields struct {
	Question    json.RawMessage `json:"question"`
	Options     json.RawMessage `json:"options"`
	Correct     json.RawMessage `json:"correct_answer"`
	Explanation json.RawMessage `json:"explanation"`
}

// decodeEntry turns one raw entry into a normalized Candidate. It fails only
// when the entry is not an object or a field has the wrong JSON type; the
// semantic checks belong to the validators.
func decodeEntry(raw json.RawMessage) (*Candidate, *ValidationError) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, decodeError("entry is not an object")
	}

	var f entryFields
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, decodeError(fmt.Sprintf("entry does not decode: %v", err))
	}

	prompt, err := decodeText(f.Question)
	if err != nil {
		return nil, decodeError("question " + err.Error())
	}
	correct, err := decodeText(f.Correct)
	if err != nil {
		return nil, decodeError("correct_answer " + err.Error())
	}
	explanation, err := decodeText(f.Explanation)
	if err != nil {
		return nil, decodeError("explanation " + err.Error())
	}
	options, err := decodeOptions(f.Options)
	if err != nil {
		return nil, decodeError("options " + err.Error())
	}

	c := &Candidate{
		Prompt:      prompt,
		Options:     options,
		Correct:     Label(correct),
		Explanation: explanation,
	}
	c.normalize()
	return c, nil
}

func decodeError(msg string) *ValidationError {
	return &ValidationError{Validator: decodeValidator, Message: msg}
}

// decodeText accepts a JSON string. Absent or null yields "".
func decodeText(raw json.RawMessage) (string, error) {
	if isAbsent(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("must be a string")
	}
	return s, nil
}

func isAbsent(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// decodeOptions reads options either as an object of label → text or as an
// array of texts labelled A, B, C, ... in order. The object form is read as
// a token stream so that key order and duplicate labels survive.
func decodeOptions(raw json.RawMessage) ([]Option, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	t := bytes.TrimSpace(raw)
	switch t[0] {
	case '{':
		return decodeOptionObject(t)
	case '[':
		var texts []json.RawMessage
		if err := json.Unmarshal(t, &texts); err != nil {
			return nil, fmt.Errorf("array does not decode: %v", err)
		}
		out := make([]Option, len(texts))
		for i, rt := range texts {
			text, err := decodeText(rt)
			if err != nil {
				return nil, fmt.Errorf("entry %d %v", i+1, err)
			}
			out[i] = Option{Label: letterLabel(i), Text: text}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be an object or an array")
	}
}

func decodeOptionObject(raw []byte) ([]Option, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}

	var out []Option
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}
		text, err := decodeText(val)
		if err != nil {
			return nil, fmt.Errorf("%q %v", key, err)
		}
		out = append(out, Option{Label: Label(key), Text: text})
	}
	if _, err := dec.Token(); err != nil && err != io.EOF { // closing brace
		return nil, err
	}
	return out, nil
}

// letterLabel returns "A" for 0, "B" for 1, and so on, continuing with
// "A1", "B1", ... past Z.
func letterLabel(i int) Label {
	if i < 26 {
		return Label(rune('A' + i))
	}
	return Label(fmt.Sprintf("%c%d", rune('A'+i%26), i/26))
}
