package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/device-ops/warranty-cache/internal/model"
)

var ErrNotFound = errors.New("not found")

// Lookup returns the record for a service tag, or ErrNotFound when the tag
// has never been cached.
func (r *Repository) Lookup(ctx context.Context, serviceTag string) (model.WarrantyRecord, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return model.WarrantyRecord{}, err
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT service_tag, end_date, model
		FROM warranty_records
		WHERE service_tag = ?
		ORDER BY id
		LIMIT 1`, serviceTag)

	var record model.WarrantyRecord
	var endDate string
	if err := row.Scan(&record.ServiceTag, &endDate, &record.Model); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.WarrantyRecord{}, ErrNotFound
		}
		return model.WarrantyRecord{}, err
	}

	parsed, err := model.ParseEndDate(endDate)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("stored end date unreadable", "service_tag", serviceTag, "err", err)
		}
		parsed = model.UnknownEndDate()
	}
	record.EndDate = parsed
	return record, nil
}

// Insert appends a record. The service tag is unique at the schema level and
// conflicts are ignored, so the first-written record for a tag wins and rows
// are never updated.
func (r *Repository) Insert(ctx context.Context, record model.WarrantyRecord) error {
	if err := r.ensureSchema(ctx); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO warranty_records(service_tag, end_date, model)
		VALUES (?, ?, ?)`,
		record.ServiceTag, record.EndDate.String(), record.Model,
	)
	return err
}
