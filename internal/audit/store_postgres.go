package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	id "worldvault/pkg/domain"
)

// PostgresStore persists audit events in an append-only table. A BIGSERIAL
// sequence column defines insertion order so export stays call-ordered even
// when wall clocks collide.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL audit store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens a connection pool for the audit store.
func OpenPostgres(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open audit postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping audit postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the audit table when absent. No ALTER path: the table is
// append-only and its shape changes only with a new deployment.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS audit_events (
			seq        BIGSERIAL PRIMARY KEY,
			ts         TIMESTAMPTZ NOT NULL,
			event_type TEXT NOT NULL,
			subject    TEXT NOT NULL DEFAULT '',
			agent      TEXT NOT NULL DEFAULT '',
			jti        TEXT NOT NULL DEFAULT '',
			scope      TEXT NOT NULL DEFAULT '',
			resource   TEXT NOT NULL DEFAULT '',
			decision   TEXT NOT NULL,
			cost       DOUBLE PRECISION NOT NULL DEFAULT 0,
			payment_ref TEXT NOT NULL DEFAULT '',
			details    JSONB
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create audit_events table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	var details []byte
	if event.Details != nil {
		var err error
		details, err = json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
	}

	query := `
		INSERT INTO audit_events (
			ts, event_type, subject, agent, jti,
			scope, resource, decision, cost, payment_ref, details
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.Timestamp,
		string(event.Type),
		event.Subject,
		event.Agent,
		event.TokenID.String(),
		event.Scope,
		event.Resource,
		event.Decision,
		event.Cost,
		event.PaymentRef,
		details,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Event, error) {
	query := `
		SELECT ts, event_type, subject, agent, jti,
		       scope, resource, decision, cost, payment_ref, details
		FROM audit_events
		ORDER BY seq ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event     Event
			eventType string
			tokenID   string
			details   []byte
		)
		err := rows.Scan(
			&event.Timestamp,
			&eventType,
			&event.Subject,
			&event.Agent,
			&tokenID,
			&event.Scope,
			&event.Resource,
			&event.Decision,
			&event.Cost,
			&event.PaymentRef,
			&details,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Type = EventType(eventType)
		event.TokenID = id.TokenID(tokenID)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &event.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
