package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/propflow/maintgo/internal/domain"
)

// OutboxRepo persists notification triggers and audit entries. Rows are
// written inside the same transaction as the entity mutation they describe,
// so an aborted transition leaves no trace here. Delivery and audit reads
// belong to external collaborators.
type OutboxRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *OutboxRepo) With(db DB) *OutboxRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *OutboxRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *OutboxRepo) InsertNotification(ctx context.Context, n *domain.Notification) error {
	const op = "postgres.OutboxRepo.InsertNotification"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO notifications(id, user_id, type, title, message,
			action_url, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.ActionURL, n.Metadata,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *OutboxRepo) InsertActivity(ctx context.Context, e *domain.ActivityEntry) error {
	const op = "postgres.OutboxRepo.InsertActivity"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO activity_log(id, user_id, type, action, metadata)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.UserID, e.Type, e.Action, e.Metadata,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}
