package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// CandidateTitle is one spreadsheet row keyed by canonical field name. Only
// mapped columns are present; a missing key means the column was not mapped.
type CandidateTitle map[string]string

// UnmarshalJSON accepts the scalar cell values a reviewed batch may carry.
// Numbers keep their literal text ("12.50" stays "12.50"), booleans become
// "true"/"false" and null drops the key. Objects and arrays are rejected.
func (c *CandidateTitle) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		*c = nil
		return nil
	}

	out := make(CandidateTitle, len(raw))
	for key, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			out[key] = val
		case json.Number:
			out[key] = val.String()
		case bool:
			out[key] = strconv.FormatBool(val)
		default:
			return fmt.Errorf("field %q: expected a scalar value", key)
		}
	}
	*c = out
	return nil
}

// SyncResult summarises a confirm run. Every candidate lands in exactly one of
// the three buckets.
type SyncResult struct {
	Inserted int      `json:"inserted"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors"`
}

// SyncPreviewRequest asks for a sheet range to be fetched and mapped.
type SyncPreviewRequest struct {
	SheetID string            `json:"sheetId" binding:"required"`
	Range   string            `json:"range" binding:"required"`
	Mapping map[string]string `json:"mapping" binding:"required,min=1"`
}

// SyncPreviewResponse carries mapped candidates back for review.
type SyncPreviewResponse struct {
	Titles        []CandidateTitle `json:"titles"`
	Count         int              `json:"count"`
	UnknownFields []string         `json:"unknownFields,omitempty"`
}

// SyncConfirmRequest carries the reviewed candidates to persist.
type SyncConfirmRequest struct {
	Titles  []CandidateTitle `json:"titles" binding:"required"`
	SheetID string           `json:"sheetId"`
	Range   string           `json:"range"`
}

// SyncRun is the persisted history of a confirm.
type SyncRun struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StartedBy   string    `gorm:"type:varchar(64)" json:"started_by"`
	SheetID     string    `gorm:"type:varchar(256)" json:"sheet_id"`
	SheetRange  string    `gorm:"type:varchar(128)" json:"sheet_range"`
	Candidates  int       `gorm:"not null;default:0" json:"candidates"`
	Inserted    int       `gorm:"not null;default:0" json:"inserted"`
	Updated     int       `gorm:"not null;default:0" json:"updated"`
	ErrorCount  int       `gorm:"not null;default:0" json:"error_count"`
	ErrorsJSON  string    `gorm:"type:jsonb" json:"-"`
	Errors      []string  `gorm:"-" json:"errors,omitempty"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// SyncJob is the status document kept in Redis for an asynchronous confirm.
type SyncJob struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Error     string      `json:"error,omitempty"`
	Result    *SyncResult `json:"result,omitempty"`
}

// Sync job statuses.
const (
	SyncJobPending    = "pending"
	SyncJobProcessing = "processing"
	SyncJobDone       = "done"
	SyncJobFailed     = "failed"
)

// TitleSyncCompletedEvent is published to SNS after a confirm finishes.
type TitleSyncCompletedEvent struct {
	EventType  string    `json:"event_type"`
	RunID      string    `json:"run_id"`
	StartedBy  string    `json:"started_by"`
	Inserted   int       `json:"inserted"`
	Updated    int       `json:"updated"`
	ErrorCount int       `json:"error_count"`
	Timestamp  time.Time `json:"timestamp"`
}
