// Ticket Store의 Postgres 구현
// service 레이어는 이 구조체를 직접 들지 않고 소비자 쪽 인터페이스로 받음

package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itil-bridge/backend/internal/model"
)

// ErrTicketNotFound - 조회 대상 티켓이 없음 (pgx.ErrNoRows를 감싸서 노출)
var ErrTicketNotFound = errors.New("ticket not found")

type Store struct {
	Pool *pgxpool.Pool
}

const ticketColumns = `
	id, ticket_key, kind, project_key, summary, description,
	ci_id, service, severity, status, assignee, alert_type, source,
	escalation_level, escalated_at, created_at, updated_at, resolved_at`

// EnsureSchema - 테이블/시퀀스/인덱스 생성 (이미 있으면 무시)
func (db *Store) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS tickets (
			id TEXT PRIMARY KEY,
			ticket_key TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			project_key TEXT NOT NULL,
			summary TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			ci_id TEXT NOT NULL DEFAULT '',
			service TEXT NOT NULL DEFAULT '',
			severity TEXT NOT NULL DEFAULT 'Medium',
			status TEXT NOT NULL DEFAULT 'Open',
			assignee TEXT NOT NULL DEFAULT '',
			alert_type TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			escalation_level INT NOT NULL DEFAULT 0,
			escalated_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			resolved_at TIMESTAMPTZ
		)
		`,
		`CREATE SEQUENCE IF NOT EXISTS ticket_key_seq`,
		// (source, dest, type) 트리플 중복 금지 - PK가 곧 중복 가드
		`
		CREATE TABLE IF NOT EXISTS ticket_links (
			source_id TEXT NOT NULL REFERENCES tickets(id),
			dest_id TEXT NOT NULL REFERENCES tickets(id),
			link_type TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (source_id, dest_id, link_type)
		)
		`,
		`
		CREATE TABLE IF NOT EXISTS ticket_comments (
			id BIGSERIAL PRIMARY KEY,
			ticket_id TEXT NOT NULL REFERENCES tickets(id),
			author TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`
		CREATE TABLE IF NOT EXISTS sla_policy (
			id INT PRIMARY KEY CHECK (id = 1),
			critical_minutes INT NOT NULL,
			high_minutes INT NOT NULL,
			medium_minutes INT NOT NULL,
			low_minutes INT NOT NULL,
			sweep_interval_minutes INT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS tickets_ci_id_idx ON tickets(ci_id) WHERE ci_id != ''`,
		`CREATE INDEX IF NOT EXISTS tickets_status_idx ON tickets(status)`,
		`CREATE INDEX IF NOT EXISTS tickets_kind_status_idx ON tickets(kind, status)`,
		`CREATE INDEX IF NOT EXISTS tickets_created_at_idx ON tickets(created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// CreateTicket - 티켓 생성. id는 UUID, key는 "<PROJECT>-<seq>".
func (db *Store) CreateTicket(ctx context.Context, input model.CreateTicketInput) (*model.Ticket, error) {
	id := uuid.NewString()

	query := `
		INSERT INTO tickets (
			id, ticket_key, kind, project_key, summary, description,
			ci_id, service, severity, status, alert_type, source
		)
		VALUES (
			$1, $2 || '-' || nextval('ticket_key_seq'), $3, $2, $4, $5,
			$6, $7, $8, $9, $10, $11
		)
		RETURNING ` + ticketColumns

	row := db.Pool.QueryRow(ctx, query,
		id,
		input.ProjectKey,
		input.Kind,
		input.Summary,
		input.Description,
		input.CIID,
		input.Service,
		input.Severity,
		model.StatusOpen,
		input.AlertType,
		input.Source,
	)

	return scanTicket(row)
}

func (db *Store) GetTicket(ctx context.Context, id string) (*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	t, err := scanTicket(db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	return t, err
}

// FindTicketsByCI - CI 기준 티켓 조회. status/kind는 빈 문자열이면 필터 생략.
func (db *Store) FindTicketsByCI(ctx context.Context, ciID, status, kind string) ([]model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE ci_id = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR kind = $3)
		ORDER BY created_at DESC`

	rows, err := db.Pool.Query(ctx, query, ciID, status, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTickets(rows)
}

// FindOpenTickets - 에스컬레이션 스윕 대상 조회 (Open/In Progress 상태의 Incident/Problem)
func (db *Store) FindOpenTickets(ctx context.Context, kinds []string) ([]model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE status IN ($1, $2) AND kind = ANY($3)
		ORDER BY created_at ASC`

	rows, err := db.Pool.Query(ctx, query, model.StatusOpen, model.StatusInProgress, kinds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTickets(rows)
}

// ListTickets - 운영 API용 목록 조회 (필터는 빈 문자열이면 생략)
func (db *Store) ListTickets(ctx context.Context, ciID, status, kind string, limit int) ([]model.Ticket, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE ($1 = '' OR ci_id = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR kind = $3)
		ORDER BY created_at DESC
		LIMIT $4`

	rows, err := db.Pool.Query(ctx, query, ciID, status, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTickets(rows)
}

// FindRecentOpenIncident - 중복 억제용 조회
// 같은 (ci_id, alert_type, summary)의 열린 Incident가 since 이후에 만들어졌으면 반환
func (db *Store) FindRecentOpenIncident(ctx context.Context, ciID, alertType, summary string, since time.Time) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE kind = $1 AND status IN ($2, $3)
		  AND ci_id = $4 AND alert_type = $5 AND summary = $6
		  AND created_at >= $7
		ORDER BY created_at DESC
		LIMIT 1`

	t, err := scanTicket(db.Pool.QueryRow(ctx, query,
		model.KindIncident, model.StatusOpen, model.StatusInProgress,
		ciID, alertType, summary, since))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	return t, err
}

// CreateLink - 링크 생성. 이미 같은 트리플이 있으면 no-op (created=false).
func (db *Store) CreateLink(ctx context.Context, sourceID, destID, linkType string) (bool, error) {
	query := `
		INSERT INTO ticket_links (source_id, dest_id, link_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (source_id, dest_id, link_type) DO NOTHING`

	tag, err := db.Pool.Exec(ctx, query, sourceID, destID, linkType)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListLinks - 티켓이 source인 링크 목록
func (db *Store) ListLinks(ctx context.Context, sourceID string) ([]model.Link, error) {
	query := `
		SELECT source_id, dest_id, link_type, created_at
		FROM ticket_links
		WHERE source_id = $1
		ORDER BY created_at ASC`

	rows, err := db.Pool.Query(ctx, query, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []model.Link
	for rows.Next() {
		var l model.Link
		if err := rows.Scan(&l.SourceID, &l.DestID, &l.Type, &l.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// TransitionTicket - 상태 전이. Resolved/Closed로 가면 resolved_at도 기록.
func (db *Store) TransitionTicket(ctx context.Context, id, status string) error {
	query := `
		UPDATE tickets
		SET status = $2,
		    resolved_at = CASE WHEN $2 IN ($3, $4) THEN NOW() ELSE resolved_at END,
		    updated_at = NOW()
		WHERE id = $1`

	tag, err := db.Pool.Exec(ctx, query, id, status, model.StatusResolved, model.StatusClosed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func (db *Store) AddComment(ctx context.Context, ticketID, author, body string) error {
	query := `INSERT INTO ticket_comments (ticket_id, author, body) VALUES ($1, $2, $3)`
	_, err := db.Pool.Exec(ctx, query, ticketID, author, body)
	return err
}

func (db *Store) UpdateAssignee(ctx context.Context, id, assignee string) error {
	query := `UPDATE tickets SET assignee = $2, updated_at = NOW() WHERE id = $1`

	tag, err := db.Pool.Exec(ctx, query, id, assignee)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// MarkEscalated - 에스컬레이션 마커 기록 (낙관적 가드)
// escalation_level이 기대값과 다르면 다른 스윕이 먼저 처리한 것이므로 false 반환.
// 스윕이 경합해도 상태 전이가 중복되지 않는 것은 이 WHERE 조건이 보장.
func (db *Store) MarkEscalated(ctx context.Context, id string, fromLevel int, at time.Time) (bool, error) {
	query := `
		UPDATE tickets
		SET escalation_level = $2 + 1, escalated_at = $3, updated_at = NOW()
		WHERE id = $1 AND escalation_level = $2`

	tag, err := db.Pool.Exec(ctx, query, id, fromLevel, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var t model.Ticket
	err := row.Scan(
		&t.ID, &t.Key, &t.Kind, &t.ProjectKey, &t.Summary, &t.Description,
		&t.CIID, &t.Service, &t.Severity, &t.Status, &t.Assignee, &t.AlertType, &t.Source,
		&t.EscalationLevel, &t.EscalatedAt, &t.CreatedAt, &t.UpdatedAt, &t.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTickets(rows pgx.Rows) ([]model.Ticket, error) {
	var list []model.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Ticket{}
	}
	return list, nil
}
