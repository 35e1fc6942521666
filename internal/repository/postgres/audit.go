package postgresrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/fringe/internal/domain"
)

type AuditRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *AuditRepo) With(db DB) *AuditRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *AuditRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *AuditRepo) Insert(ctx context.Context, e domain.AuditEntry) (int64, error) {
	const op = "postgresrepo.AuditRepo.Insert"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO admin_audit(actor, action, entity, entity_id, summary)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		e.Actor, string(e.Action), e.Entity, e.EntityID, e.Summary,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// List returns one page of entries matching f and the total match count.
func (r *AuditRepo) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, int, error) {
	const op = "postgresrepo.AuditRepo.List"

	db := r.handle()

	var (
		where []string
		args  []any
	)
	if f.Entity != "" {
		args = append(args, f.Entity)
		where = append(where, fmt.Sprintf("entity = $%d", len(args)))
	}
	if f.Actor != "" {
		args = append(args, f.Actor)
		where = append(where, fmt.Sprintf("actor = $%d", len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("(summary ILIKE $%d OR entity_id ILIKE $%d)", len(args), len(args)))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM admin_audit`+cond, args...).Scan(&total); err != nil {
		return nil, 0, wrapDBErr(op, err)
	}

	order := "ASC"
	if f.Desc {
		order = "DESC"
	}

	args = append(args, f.Limit, f.Offset)
	sql := fmt.Sprintf(
		`SELECT id, actor, action, entity, entity_id, summary, created_at
		 FROM admin_audit%s
		 ORDER BY created_at %s, id %s
		 LIMIT $%d OFFSET $%d`,
		cond, order, order, len(args)-1, len(args),
	)

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, wrapDBErr(op, err)
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var action string
		if err := rows.Scan(&e.ID, &e.Actor, &action, &e.Entity, &e.EntityID, &e.Summary, &e.CreatedAt); err != nil {
			return nil, 0, wrapDBErr(op, err)
		}
		e.Action = domain.AuditAction(action)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapDBErr(op, err)
	}

	return out, total, nil
}
