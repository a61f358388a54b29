package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository"
)

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			id, location_id, user_id, action, entity_type, entity_id,
			changes, metadata, ip_address, user_agent, created_at
		) VALUES (
			:id, :location_id, :user_id, :action, :entity_type, :entity_id,
			:changes, :metadata, :ip_address, :user_agent, :created_at
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *auditRepository) buildWhere(filters *model.AuditFilters) (string, []interface{}) {
	where := `WHERE location_id = $1`
	args := []interface{}{filters.LocationID}

	if filters.UserID != uuid.Nil {
		args = append(args, filters.UserID)
		where += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filters.EntityType != "" {
		args = append(args, filters.EntityType)
		where += fmt.Sprintf(" AND entity_type = $%d", len(args))
	}
	if filters.EntityID != uuid.Nil {
		args = append(args, filters.EntityID)
		where += fmt.Sprintf(" AND entity_id = $%d", len(args))
	}
	if filters.Action != "" {
		args = append(args, filters.Action)
		where += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if !filters.StartDate.IsZero() {
		args = append(args, filters.StartDate)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filters.EndDate.IsZero() {
		args = append(args, filters.EndDate)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	return where, args
}

func (r *auditRepository) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, int64, error) {
	where, args := r.buildWhere(filters)

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM audit_logs `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	filters.Normalize()
	args = append(args, filters.PageSize, filters.Offset())
	query := fmt.Sprintf(`SELECT * FROM audit_logs %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	var logs []*model.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, total, nil
}

func (r *auditRepository) GetAggregateStats(ctx context.Context, filters *model.AuditFilters) (*model.AggregateStats, error) {
	where, args := r.buildWhere(filters)

	stats := &model.AggregateStats{
		ActionCounts:   make(map[string]int),
		EntityCounts:   make(map[string]int),
		UserActivity:   make(map[string]int),
		HourlyActivity: make(map[int]int),
	}

	if err := r.db.GetContext(ctx, &stats.TotalLogs, `SELECT COUNT(*) FROM audit_logs `+where, args...); err != nil {
		return nil, fmt.Errorf("failed to count audit logs: %w", err)
	}

	type kv struct {
		Key   string `db:"key"`
		Count int    `db:"count"`
	}

	var rows []kv
	q := `SELECT action AS key, COUNT(*) AS count FROM audit_logs ` + where + ` GROUP BY action`
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate actions: %w", err)
	}
	for _, row := range rows {
		stats.ActionCounts[row.Key] = row.Count
	}

	rows = nil
	q = `SELECT entity_type AS key, COUNT(*) AS count FROM audit_logs ` + where + ` GROUP BY entity_type`
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate entities: %w", err)
	}
	for _, row := range rows {
		stats.EntityCounts[row.Key] = row.Count
	}

	rows = nil
	q = `SELECT user_id::text AS key, COUNT(*) AS count FROM audit_logs ` + where + ` GROUP BY user_id`
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate users: %w", err)
	}
	for _, row := range rows {
		stats.UserActivity[row.Key] = row.Count
	}

	type hourRow struct {
		Hour  int `db:"hour"`
		Count int `db:"count"`
	}
	var hours []hourRow
	q = `SELECT EXTRACT(HOUR FROM created_at)::int AS hour, COUNT(*) AS count FROM audit_logs ` + where + ` GROUP BY hour`
	if err := r.db.SelectContext(ctx, &hours, q, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate hours: %w", err)
	}
	for _, row := range hours {
		stats.HourlyActivity[row.Hour] = row.Count
	}

	var ips []model.IPActivityCount
	q = `SELECT ip_address, COUNT(*) AS count FROM audit_logs ` + where + ` GROUP BY ip_address ORDER BY count DESC LIMIT 10`
	type ipRow struct {
		IPAddress string `db:"ip_address"`
		Count     int    `db:"count"`
	}
	var ipRows []ipRow
	if err := r.db.SelectContext(ctx, &ipRows, q, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate IPs: %w", err)
	}
	for _, row := range ipRows {
		ips = append(ips, model.IPActivityCount{IPAddress: row.IPAddress, Count: row.Count})
	}
	stats.TopIPs = ips

	return stats, nil
}

func (r *auditRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup audit logs: %w", err)
	}
	return result.RowsAffected()
}
