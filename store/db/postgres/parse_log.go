package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hrygo/yotei/store"
)

func (d *DB) CreateParseLog(ctx context.Context, create *store.ParseLog) (*store.ParseLog, error) {
	fields := []string{"uid", "user_id", "input_text", "parsed_result", "success", "title", "timezone", "confidence_score", "user_accepted", "created_ts"}

	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}

	args := []any{
		create.UID,
		create.UserID,
		create.InputText,
		create.ParsedResult,
		create.Success,
		create.Title,
		create.Timezone,
		create.ConfidenceScore,
		create.UserAccepted,
		create.CreatedTs,
	}

	stmt := `INSERT INTO parse_log (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create parse_log: %w", err)
	}
	return create, nil
}

func (d *DB) ListParseLogs(ctx context.Context, find *store.FindParseLog) ([]*store.ParseLog, error) {
	if find == nil {
		return nil, fmt.Errorf("find parameter cannot be nil")
	}

	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.CreatedBefore != nil {
		where, args = append(where, "created_ts < "+placeholder(len(args)+1)), append(args, *find.CreatedBefore)
	}

	query := `SELECT id, uid, user_id, input_text, parsed_result::text, success, title, timezone, confidence_score, user_accepted, created_ts
		FROM parse_log WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC, id DESC`
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list parse_logs: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ParseLog, 0)
	for rows.Next() {
		var (
			l        store.ParseLog
			parsed   sql.NullString
			score    sql.NullFloat64
			accepted sql.NullBool
		)
		if err := rows.Scan(
			&l.ID,
			&l.UID,
			&l.UserID,
			&l.InputText,
			&parsed,
			&l.Success,
			&l.Title,
			&l.Timezone,
			&score,
			&accepted,
			&l.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan parse_log: %w", err)
		}
		if parsed.Valid {
			l.ParsedResult = &parsed.String
		}
		if score.Valid {
			l.ConfidenceScore = &score.Float64
		}
		if accepted.Valid {
			l.UserAccepted = &accepted.Bool
		}
		list = append(list, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate parse_logs: %w", err)
	}
	return list, nil
}

func (d *DB) DeleteParseLogs(ctx context.Context, delete *store.DeleteParseLog) (int64, error) {
	if delete == nil {
		return 0, fmt.Errorf("delete parameter cannot be nil")
	}

	where, args := []string{}, []any{}
	if delete.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *delete.UserID)
	}
	if delete.CreatedBefore != nil {
		where, args = append(where, "created_ts < "+placeholder(len(args)+1)), append(args, *delete.CreatedBefore)
	}
	if len(where) == 0 {
		return 0, fmt.Errorf("no condition to delete parse_log")
	}

	result, err := d.db.ExecContext(ctx, `DELETE FROM parse_log WHERE `+strings.Join(where, " AND "), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete parse_log: %w", err)
	}
	return result.RowsAffected()
}
