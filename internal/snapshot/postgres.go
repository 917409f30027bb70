package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medmind/internal/triage"
)

// PostgresStore persists report snapshots in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS triage_snapshots (
			session_id TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			patient_name TEXT NOT NULL,
			age INT NOT NULL,
			gender TEXT NOT NULL,
			language TEXT NOT NULL,
			transcript JSONB NOT NULL,
			diagnosis TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_triage_snapshots_created ON triage_snapshots (created_at);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	transcript, err := json.Marshal(snap.Transcript)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO triage_snapshots (session_id, id, patient_name, age, gender, language, transcript, diagnosis, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (session_id) DO UPDATE SET
			id = EXCLUDED.id,
			patient_name = EXCLUDED.patient_name,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			language = EXCLUDED.language,
			transcript = EXCLUDED.transcript,
			diagnosis = EXCLUDED.diagnosis,
			created_at = EXCLUDED.created_at`,
		snap.SessionID,
		snap.ID,
		snap.PatientName,
		snap.Age,
		snap.Gender,
		snap.Language,
		transcript,
		snap.Diagnosis,
		snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, sessionID string) (Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT session_id, id, patient_name, age, gender, language, transcript, diagnosis, created_at
		 FROM triage_snapshots WHERE session_id = $1`,
		sessionID,
	)
	return scanSnapshot(row)
}

func (s *PostgresStore) Latest(ctx context.Context) (Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT session_id, id, patient_name, age, gender, language, transcript, diagnosis, created_at
		 FROM triage_snapshots ORDER BY created_at DESC LIMIT 1`,
	)
	return scanSnapshot(row)
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var snap Snapshot
	var transcript []byte
	err := row.Scan(&snap.SessionID, &snap.ID, &snap.PatientName, &snap.Age, &snap.Gender,
		&snap.Language, &transcript, &snap.Diagnosis, &snap.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := json.Unmarshal(transcript, &snap.Transcript); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal transcript: %w", err)
	}
	if snap.Transcript == nil {
		snap.Transcript = []triage.Turn{}
	}
	return snap, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
