package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainerrors "quorum/contexts/community/settings-store/domain/errors"
	"quorum/contexts/community/settings-store/ports"
	"quorum/internal/shared/blob"
)

// rowDecodePolicy pins how option reads treat undecodable blobs: stale or
// corrupt option data must degrade to absence instead of failing its caller.
const rowDecodePolicy = blob.DecodeLenient

// Key binds an option name to its value type. Each recognized option is
// declared once as a package-level Key, so stored bytes can never be read
// back as a different type under the same name.
type Key[T any] struct {
	name string
}

func NewKey[T any](name string) Key[T] {
	return Key[T]{name: strings.TrimSpace(name)}
}

func (k Key[T]) Name() string { return k.name }

// Service exposes the typed option store over a raw row port.
type Service struct {
	Rows   ports.OptionRows
	Logger *slog.Logger
}

// Get loads the value bound to key. An absent row reports (zero, false, nil).
// A row that fails to decode is logged and reported absent.
func Get[T any](ctx context.Context, svc Service, key Key[T]) (T, bool, error) {
	var zero T
	if key.name == "" {
		return zero, false, domainerrors.ErrInvalidKey
	}
	raw, found, err := svc.Rows.GetOption(ctx, key.name)
	if err != nil {
		return zero, false, err
	}
	if !found {
		return zero, false, nil
	}
	value, err := blob.Decode[T](raw)
	if err != nil {
		if rowDecodePolicy.Tolerates() {
			resolveLogger(svc.Logger).Warn("option value failed to decode",
				"event", "option_decode_failed",
				"module", "community/settings-store",
				"layer", "application",
				"key", key.name,
				"policy", rowDecodePolicy.String(),
				"error", err.Error(),
			)
			return zero, false, nil
		}
		return zero, false, err
	}
	return value, true, nil
}

// Set encodes value and upserts the row bound to key. Encoding failures
// propagate as *blob.EncodeError.
func Set[T any](ctx context.Context, svc Service, key Key[T], value T) error {
	if key.name == "" {
		return domainerrors.ErrInvalidKey
	}
	encoded, err := blob.Encode(value)
	if err != nil {
		return fmt.Errorf("set option %q: %w", key.name, err)
	}
	return svc.Rows.PutOption(ctx, key.name, encoded)
}

// Unset deletes the row bound to key. Unsetting an absent key is a no-op.
func Unset[T any](ctx context.Context, svc Service, key Key[T]) error {
	if key.name == "" {
		return domainerrors.ErrInvalidKey
	}
	return svc.Rows.DeleteOption(ctx, key.name)
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
