package sheets

import (
	"context"

	"ctcconv/internal/core"
)

// RecordAppender is the outbound port for pushing extracted records to an
// external spreadsheet. Implementations must append in record order.
type RecordAppender interface {
	// AppendRecords appends all records of one extraction and returns a
	// reference to the first written row.
	AppendRecords(ctx context.Context, records []core.Record) (rowRef string, err error)
}
