package postgres

import (
	"context"
	"errors"
	"log/slog"

	"quorum/contexts/community/settings-store/ports"
	"quorum/internal/shared/blob"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type optionModel struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value []byte `gorm:"column:value;type:bytea;not null"`
}

func (optionModel) TableName() string { return "options" }

// Repository persists option rows in PostgreSQL.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

var _ ports.OptionRows = (*Repository)(nil)

// Models lists the row models owned by this adapter, for schema migration.
func Models() []any {
	return []any{&optionModel{}}
}

func (r *Repository) GetOption(ctx context.Context, name string) (blob.Blob, bool, error) {
	var row optionModel
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&row).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, r.logError("option_read_failed", err, "key", name)
	}
	return blob.Blob(row.Value), true, nil
}

func (r *Repository) PutOption(ctx context.Context, name string, value blob.Blob) error {
	row := optionModel{Name: name, Value: []byte(value)}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		Create(&row).
		Error
	if err != nil {
		return r.logError("option_upsert_failed", err, "key", name)
	}
	return nil
}

func (r *Repository) DeleteOption(ctx context.Context, name string) error {
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Delete(&optionModel{}).
		Error
	if err != nil {
		return r.logError("option_delete_failed", err, "key", name)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "community/settings-store",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("option repository operation failed", fields...)
	return err
}
