package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	json "github.com/goccy/go-json"
)

const diagnosesTable = "diagnoses"

var diagnosisColumns = []string{
	"id",
	"facility_name",
	"diagnosis_date",
	"total_score",
	"max_score",
	"percentage",
	"rank",
	"categories_json",
	"answers_json",
	"session_id",
	"user_id",
	"created_at",
}

// diagnosisRepo implements DiagnosisRepo on the ent SQL driver.
type diagnosisRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *diagnosisRepo) Create(ctx context.Context, d *Diagnosis) (int64, error) {
	if d == nil {
		return 0, fmt.Errorf("create diagnosis: nil record")
	}

	// Nested values are serialized here so later changes to d never reach
	// the stored copy.
	cats, err := json.Marshal(nonNil(d.Categories))
	if err != nil {
		return 0, fmt.Errorf("encode categories: %w", err)
	}
	answers, err := json.Marshal(nonNil(d.Answers))
	if err != nil {
		return 0, fmt.Errorf("encode answers: %w", err)
	}

	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	id, err := r.seq.InsertWithNext(ctx, seqDiagnosis, func(tx dialect.Tx, id int64) error {
		query, args := entsql.Dialect(dialect.SQLite).
			Insert(diagnosesTable).
			Columns(diagnosisColumns...).
			Values(
				id,
				d.FacilityName,
				formatTime(d.DiagnosisDate),
				d.TotalScore,
				d.MaxScore,
				d.Percentage,
				d.Rank,
				string(cats),
				string(answers),
				nullString(d.SessionID),
				nullString(d.UserID),
				formatTime(createdAt),
			).
			Query()

		var res sql.Result
		if err := tx.Exec(ctx, query, args, &res); err != nil {
			return fmt.Errorf("insert diagnosis: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	d.ID = id
	d.CreatedAt = createdAt.UTC()
	return id, nil
}

func (r *diagnosisRepo) Get(ctx context.Context, id int64) (*Diagnosis, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(diagnosisColumns...).
		From(entsql.Table(diagnosesTable)).
		Where(entsql.EQ("id", id)).
		Query()

	out, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("get diagnosis %d: %w", id, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *diagnosisRepo) List(ctx context.Context, opts ListOpts) ([]Diagnosis, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(diagnosisColumns...).
		From(entsql.Table(diagnosesTable)).
		OrderBy(entsql.Desc("diagnosis_date"), entsql.Desc("id"))

	if opts.SessionID != "" {
		sel.Where(entsql.EQ("session_id", opts.SessionID))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	out, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("list diagnoses: %w", err)
	}
	return out, nil
}

func (r *diagnosisRepo) Delete(ctx context.Context, id int64) (bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(diagnosesTable).
		Where(entsql.EQ("id", id)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return false, fmt.Errorf("delete diagnosis %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete diagnosis %d: %w", id, err)
	}
	return n > 0, nil
}

func (r *diagnosisRepo) query(ctx context.Context, query string, args []any) ([]Diagnosis, error) {
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Diagnosis
	for rows.Next() {
		d, err := scanDiagnosis(&rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDiagnosis(s scanner) (Diagnosis, error) {
	var (
		d                 Diagnosis
		date, created     string
		catsJSON, ansJSON string
		sessionID, userID sql.NullString
	)
	err := s.Scan(
		&d.ID,
		&d.FacilityName,
		&date,
		&d.TotalScore,
		&d.MaxScore,
		&d.Percentage,
		&d.Rank,
		&catsJSON,
		&ansJSON,
		&sessionID,
		&userID,
		&created,
	)
	if err != nil {
		return Diagnosis{}, fmt.Errorf("scan diagnosis: %w", err)
	}

	if d.DiagnosisDate, err = parseTime(date); err != nil {
		return Diagnosis{}, err
	}
	if d.CreatedAt, err = parseTime(created); err != nil {
		return Diagnosis{}, err
	}
	if err := json.Unmarshal([]byte(catsJSON), &d.Categories); err != nil {
		return Diagnosis{}, fmt.Errorf("decode categories of diagnosis %d: %w", d.ID, err)
	}
	if err := json.Unmarshal([]byte(ansJSON), &d.Answers); err != nil {
		return Diagnosis{}, fmt.Errorf("decode answers of diagnosis %d: %w", d.ID, err)
	}
	d.SessionID = sessionID.String
	d.UserID = userID.String
	return d, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
