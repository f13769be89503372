// Package searchlog records which user searched for what, after a
// pipeline call succeeded. The scraping core itself never depends on
// this beyond the Recorder interface; an empty user id means nothing
// gets recorded.
package searchlog

import (
	"context"
	"database/sql"
	"time"

	"footylens-backend/services/searchlog/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/searchlog")

type Event struct {
	User  string
	Kind  string
	Query string
	Time  time.Time
}

type Recorder interface {
	Record(ctx context.Context, event Event) error
}

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) (Store, error) {
	_, err := database.Exec(db.Schema)
	if err != nil {
		return Store{}, err
	}
	return Store{db: database}, nil
}

func (s Store) Record(ctx context.Context, event Event) error {
	ctx, span := tracer.Start(ctx, "Record")
	defer span.End()

	span.SetAttributes(
		attribute.String("user", event.User),
		attribute.String("kind", event.Kind),
	)

	when := event.Time
	if when.IsZero() {
		when = time.Now()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO search_events (user, kind, query, time) VALUES (?, ?, ?, ?)`,
		event.User, event.Kind, event.Query, when.Unix(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// History lists a user's search events, newest first.
func (s Store) History(ctx context.Context, user string, limit int) ([]Event, error) {
	ctx, span := tracer.Start(ctx, "History")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT user, kind, query, time FROM search_events
		 WHERE user = ? ORDER BY time DESC, id DESC LIMIT ?`,
		user, limit,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var unix int64
		err := rows.Scan(&event.User, &event.Kind, &event.Query, &unix)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		event.Time = time.Unix(unix, 0)
		events = append(events, event)
	}
	return events, rows.Err()
}
