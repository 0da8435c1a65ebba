package persistence

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/profile-pages/internal/domain/eventtype"
)

type postgresEventTypeRepo struct {
	db *pgxpool.Pool
}

func NewPostgresEventTypeRepo(db *pgxpool.Pool) eventtype.Repository {
	return &postgresEventTypeRepo{db: db}
}

var eventTypeColumns = []string{"id", "user_id", "slug", "title", "length", "description", "hidden", "position"}

func scanEventType(row pgx.Row) (*eventtype.EventType, error) {
	et := &eventtype.EventType{}
	err := row.Scan(
		&et.ID,
		&et.UserID,
		&et.Slug,
		&et.Title,
		&et.Length,
		&et.Description,
		&et.Hidden,
		&et.Position,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan event type row: %w", err)
	}
	return et, nil
}

func (r *postgresEventTypeRepo) ListPublicByUserID(ctx context.Context, userID uuid.UUID) ([]*eventtype.EventType, error) {
	sql, args, err := psql.Select(eventTypeColumns...).
		From("event_types").
		Where(sq.Eq{"user_id": userID, "hidden": false}).
		OrderBy("position DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list event types query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event types: %w", err)
	}
	defer rows.Close()

	ets := make([]*eventtype.EventType, 0)
	for rows.Next() {
		et, err := scanEventType(rows)
		if err != nil {
			return nil, err
		}
		ets = append(ets, et)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event type rows: %w", err)
	}
	return ets, nil
}
