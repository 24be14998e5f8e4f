package errorlog

import "context"

// Repository provides persistence for error records.
type Repository interface {
	Append(ctx context.Context, rec *Record) error
	List(ctx context.Context) ([]Record, error)
}
