package models

import "encoding/json"

// EventBatch is the POST /api/saveEvents payload: an ordered JSON array whose
// elements are kept verbatim. No schema is enforced on individual events.
type EventBatch []json.RawMessage

// Len reports the number of events in the batch.
func (b EventBatch) Len() int {
	return len(b)
}
