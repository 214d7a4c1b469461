// Package microsoft reads warranty data from the Microsoft flat-file
// export, a comma-delimited dump scanned row by row with no index.
package microsoft

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/device-ops/warranty-cache/internal/dateparse"
	"github.com/device-ops/warranty-cache/internal/model"
	"github.com/device-ops/warranty-cache/internal/upstream"
)

// Export columns used by the lookup; rows carry more fields than these.
const (
	colServiceTag = 0
	colModel      = 2
	colEndDate    = 9
	minColumns    = 10
)

type Export struct {
	path string
}

func NewExport(path string) *Export {
	return &Export{path: path}
}

// Fetch scans the export for the first row whose service tag column matches
// exactly. Later duplicate rows are ignored. A tag absent from the export is
// ErrNoRecord.
func (e *Export) Fetch(ctx context.Context, serviceTag string) (model.WarrantyRecord, error) {
	file, err := os.Open(e.path)
	if err != nil {
		return model.WarrantyRecord{}, &upstream.UnavailableError{Source: upstream.SourceMicrosoft, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	for {
		if err := ctx.Err(); err != nil {
			return model.WarrantyRecord{}, &upstream.UnavailableError{Source: upstream.SourceMicrosoft, Err: err}
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return model.WarrantyRecord{}, fmt.Errorf("%w: tag %s", upstream.ErrNoRecord, serviceTag)
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return model.WarrantyRecord{}, &upstream.FormatError{
					Source: upstream.SourceMicrosoft,
					Reason: "unparseable export row",
					Err:    err,
				}
			}
			return model.WarrantyRecord{}, &upstream.UnavailableError{Source: upstream.SourceMicrosoft, Err: err}
		}

		if len(row) == 0 || row[colServiceTag] != serviceTag {
			continue
		}
		if len(row) < minColumns {
			return model.WarrantyRecord{}, &upstream.FormatError{
				Source: upstream.SourceMicrosoft,
				Reason: fmt.Sprintf("matching row has %d columns, want at least %d", len(row), minColumns),
			}
		}

		endDate, err := dateparse.ParseExportDate(row[colEndDate])
		if err != nil {
			return model.WarrantyRecord{}, &upstream.FormatError{
				Source: upstream.SourceMicrosoft,
				Reason: "end date column",
				Err:    err,
			}
		}

		return model.WarrantyRecord{
			ServiceTag: serviceTag,
			EndDate:    model.NewEndDate(endDate),
			Model:      row[colModel],
		}, nil
	}
}
