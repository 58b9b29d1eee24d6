package ddns

import (
	"context"
	"fmt"
)

const RecordTypeAAAA = "AAAA"

type Client interface {
	// ListRecords returns every record of the zone, requesting pageSize
	// records per page.
	ListRecords(ctx context.Context, zoneID string, pageSize int) ([]Record, error)
	CreateRecord(ctx context.Context, zoneID string, record Record) (Record, error)
	UpdateRecord(ctx context.Context, zoneID string, record Record) error
	DeleteRecord(ctx context.Context, zoneID string, recordID string) error
}

type Record struct {
	ID      string
	Name    string
	Type    string
	Content string
}

// Error describes a failed provider call.
type Error struct {
	Op   string
	Name string
	Err  error
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
