package ingest

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"

	"github.com/PratikDhanave/event-ingest-service/internal/models"
)

// replacementChar substitutes invalid UTF-8 sequences in request bodies.
var replacementChar = []byte("\uFFFD")

// DecodeBatch parses body as a JSON array. Elements are kept as raw JSON so
// their content and key order reach storage untouched, except that invalid
// UTF-8 sequences are replaced with U+FFFD.
func DecodeBatch(body []byte) (models.EventBatch, error) {
	trimmed := bytes.TrimSpace(body)
	if !utf8.Valid(trimmed) {
		trimmed = bytes.ToValidUTF8(trimmed, replacementChar)
	}
	if len(trimmed) == 0 {
		return nil, invalidInput("empty body", nil)
	}
	if !json.Valid(trimmed) {
		return nil, invalidInput("malformed JSON", nil)
	}
	if trimmed[0] != '[' {
		return nil, invalidInput("top-level value is not an array", nil)
	}

	var batch models.EventBatch
	if err := json.Unmarshal(trimmed, &batch); err != nil {
		return nil, invalidInput("decode array", err)
	}
	return batch, nil
}

// EncodeBatch renders batch as a compact JSON array. HTML characters are not
// escaped, so the text matches what the client sent modulo whitespace.
func EncodeBatch(batch models.EventBatch) ([]byte, error) {
	if batch == nil {
		batch = models.EventBatch{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(batch); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
