package snapshot

import (
	"context"
	"errors"
	"time"

	"medmind/internal/triage"
)

// ErrNoSnapshot is returned when no snapshot exists for the requested key.
var ErrNoSnapshot = errors.New("no snapshot recorded")

// Snapshot is the material a report is rendered from: the patient profile,
// the transcript and the diagnosis as produced for one conversation. Saving
// under the same session id overwrites (last writer wins).
type Snapshot struct {
	ID          string        `json:"id"`
	SessionID   string        `json:"session_id"`
	PatientName string        `json:"patient_name"`
	Age         int           `json:"age"`
	Gender      string        `json:"gender"`
	Language    string        `json:"language"`
	Transcript  []triage.Turn `json:"transcript"`
	Diagnosis   string        `json:"diagnosis"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Store persists and retrieves report snapshots keyed by session id.
// Latest serves report requests that carry no session id, preserving the
// single-latest-snapshot behavior of id-less conversations.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Get(ctx context.Context, sessionID string) (Snapshot, error)
	Latest(ctx context.Context) (Snapshot, error)
	Close() error
}
