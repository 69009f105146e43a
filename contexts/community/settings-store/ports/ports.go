package ports

import (
	"context"

	"quorum/internal/shared/blob"
)

// OptionRows is the raw row store beneath the typed option API: one row per
// option name, value stored as a codec blob.
type OptionRows interface {
	// GetOption returns the stored blob for name, reporting absence.
	GetOption(ctx context.Context, name string) (blob.Blob, bool, error)
	// PutOption inserts or replaces the row for name.
	PutOption(ctx context.Context, name string, value blob.Blob) error
	// DeleteOption removes the row for name. Absent rows are not an error.
	DeleteOption(ctx context.Context, name string) error
}
