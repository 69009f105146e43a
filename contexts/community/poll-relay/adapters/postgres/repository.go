package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"quorum/contexts/community/poll-relay/domain/entities"
	domainerrors "quorum/contexts/community/poll-relay/domain/errors"
	"quorum/contexts/community/poll-relay/ports"
	"quorum/internal/shared/blob"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// rosterDecodePolicy pins how stored rosters react to undecodable bytes:
// a corrupt roster fails the whole operation instead of passing for an
// empty one, which would misreport who has voted.
const rosterDecodePolicy = blob.DecodeStrict

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Models lists the tables this repository owns, for migration.
func (r *Repository) Models() []any {
	return []any{&trackedPollModel{}, &residentModel{}, &tgUserModel{}}
}

func (r *Repository) CreateTrackedPoll(ctx context.Context, poll entities.TrackedPoll) error {
	pollID := strings.TrimSpace(poll.PollID)
	encoded, err := encodeRoster(entities.NormalizeRoster(poll.VotedUsers))
	if err != nil {
		return r.logError("poll_repo_encode_roster_failed", err, "poll_id", pollID)
	}
	row := trackedPollModel{
		PollID:        pollID,
		CreatorID:     int64(poll.CreatorID),
		InfoChatID:    int64(poll.InfoChatID),
		InfoMessageID: int64(poll.InfoMessageID),
		VotedUsers:    encoded,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrPollAlreadyTracked
		}
		return r.logError("poll_repo_create_failed", err, "poll_id", pollID)
	}
	return nil
}

func (r *Repository) FindTrackedPoll(ctx context.Context, pollID string) (entities.TrackedPoll, error) {
	pollID = strings.TrimSpace(pollID)
	var row trackedPollModel
	err := r.db.WithContext(ctx).
		Where("external_poll_id = ?", pollID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.TrackedPoll{}, domainerrors.ErrPollNotFound
		}
		return entities.TrackedPoll{}, r.logError("poll_repo_find_failed", err, "poll_id", pollID)
	}
	poll, err := row.toEntity()
	if err != nil {
		return entities.TrackedPoll{}, r.logError("poll_repo_decode_roster_failed", err,
			"poll_id", pollID,
			"policy", rosterDecodePolicy.String(),
		)
	}
	return poll, nil
}

// ApplyVote locks the poll row, folds the vote into the decoded roster and
// writes the result back inside the same transaction, so concurrent calls
// for the same poll serialize instead of losing updates.
func (r *Repository) ApplyVote(
	ctx context.Context,
	pollID string,
	userID entities.UserID,
	retract bool,
) (entities.TrackedPoll, error) {
	pollID = strings.TrimSpace(pollID)
	var updated entities.TrackedPoll
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row trackedPollModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("external_poll_id = ?", pollID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrPollNotFound
			}
			return err
		}
		poll, err := row.toEntity()
		if err != nil {
			return err
		}
		updated = poll.WithVote(userID, retract)
		encoded, err := encodeRoster(updated.VotedUsers)
		if err != nil {
			return err
		}
		return tx.Model(&trackedPollModel{}).
			Where("external_poll_id = ?", pollID).
			Update("voted_users", []byte(encoded)).
			Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrPollNotFound) {
			return entities.TrackedPoll{}, err
		}
		return entities.TrackedPoll{}, r.logError("poll_repo_apply_vote_failed", err,
			"poll_id", pollID,
			"user_id", int64(userID),
			"policy", rosterDecodePolicy.String(),
		)
	}
	return updated, nil
}

func (r *Repository) ListResidents(ctx context.Context) ([]entities.Resident, error) {
	var rows []residentJoinRow
	err := r.residentQuery(ctx).
		Order("r.tg_id ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("poll_repo_list_residents_failed", err)
	}
	return toResidents(rows), nil
}

func (r *Repository) ListNonVoters(ctx context.Context, roster []entities.UserID) ([]entities.Resident, error) {
	query := r.residentQuery(ctx)
	if len(roster) > 0 {
		ids := make([]int64, 0, len(roster))
		for _, id := range roster {
			ids = append(ids, int64(id))
		}
		query = query.Where("r.tg_id NOT IN ?", ids)
	}
	var rows []residentJoinRow
	err := query.
		Order("r.tg_id ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("poll_repo_list_non_voters_failed", err, "roster_size", len(roster))
	}
	return toResidents(rows), nil
}

func (r *Repository) residentQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("residents AS r").
		Select("r.tg_id AS tg_id, u.id AS user_id, u.username AS username, u.first_name AS first_name, u.last_name AS last_name").
		Joins("LEFT JOIN tg_users AS u ON u.id = r.tg_id").
		Where("r.end_date IS NULL")
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "community/poll-relay",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("poll relay repository operation failed", fields...)
	return err
}

// Authorizer resolves community roles from the configured admin list and
// the resident table.
type Authorizer struct {
	db     *gorm.DB
	admins map[entities.UserID]bool
	logger *slog.Logger
}

func NewAuthorizer(db *gorm.DB, admins []entities.UserID, logger *slog.Logger) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	set := make(map[entities.UserID]bool, len(admins))
	for _, id := range admins {
		set[id] = true
	}
	return &Authorizer{
		db:     db,
		admins: set,
		logger: logger,
	}
}

func (a *Authorizer) ResolveRole(ctx context.Context, userID entities.UserID) (entities.Role, error) {
	if a.admins[userID] {
		return entities.RoleAdmin, nil
	}
	var count int64
	err := a.db.WithContext(ctx).
		Model(&residentModel{}).
		Where("tg_id = ? AND end_date IS NULL", int64(userID)).
		Count(&count).
		Error
	if err != nil {
		a.logger.Error("poll relay role lookup failed",
			"event", "poll_repo_resolve_role_failed",
			"module", "community/poll-relay",
			"layer", "adapter",
			"user_id", int64(userID),
			"error", err.Error(),
		)
		return entities.RoleGuest, err
	}
	if count > 0 {
		return entities.RoleResident, nil
	}
	return entities.RoleGuest, nil
}

type trackedPollModel struct {
	PollID        string `gorm:"column:external_poll_id;primaryKey"`
	CreatorID     int64  `gorm:"column:creator_id"`
	InfoChatID    int64  `gorm:"column:info_chat_id"`
	InfoMessageID int64  `gorm:"column:info_message_id"`
	VotedUsers    []byte `gorm:"column:voted_users;type:bytea;not null"`
}

func (trackedPollModel) TableName() string {
	return "tracked_polls"
}

func (m trackedPollModel) toEntity() (entities.TrackedPoll, error) {
	roster, err := blob.Decode[[]entities.UserID](m.VotedUsers)
	if err != nil {
		return entities.TrackedPoll{}, err
	}
	return entities.TrackedPoll{
		PollID:        m.PollID,
		CreatorID:     entities.UserID(m.CreatorID),
		InfoChatID:    entities.ChatID(m.InfoChatID),
		InfoMessageID: entities.MessageID(m.InfoMessageID),
		VotedUsers:    entities.NormalizeRoster(roster),
	}, nil
}

type residentModel struct {
	UserID    int64      `gorm:"column:tg_id;primaryKey"`
	BeginDate time.Time  `gorm:"column:begin_date"`
	EndDate   *time.Time `gorm:"column:end_date"`
}

func (residentModel) TableName() string {
	return "residents"
}

type tgUserModel struct {
	ID        int64   `gorm:"column:id;primaryKey"`
	Username  *string `gorm:"column:username"`
	FirstName string  `gorm:"column:first_name"`
	LastName  *string `gorm:"column:last_name"`
}

func (tgUserModel) TableName() string {
	return "tg_users"
}

type residentJoinRow struct {
	TgID      int64   `gorm:"column:tg_id"`
	UserID    *int64  `gorm:"column:user_id"`
	Username  *string `gorm:"column:username"`
	FirstName *string `gorm:"column:first_name"`
	LastName  *string `gorm:"column:last_name"`
}

func toResidents(rows []residentJoinRow) []entities.Resident {
	items := make([]entities.Resident, 0, len(rows))
	for _, row := range rows {
		resident := entities.Resident{ID: entities.UserID(row.TgID)}
		if row.UserID != nil {
			resident.Profile = &entities.UserProfile{
				ID:        entities.UserID(*row.UserID),
				Username:  stringValue(row.Username),
				FirstName: stringValue(row.FirstName),
				LastName:  stringValue(row.LastName),
			}
		}
		items = append(items, resident)
	}
	return items
}

func encodeRoster(roster []entities.UserID) (blob.Blob, error) {
	if roster == nil {
		roster = []entities.UserID{}
	}
	return blob.Encode(roster)
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.TrackedPollRepository = (*Repository)(nil)
var _ ports.ResidentDirectory = (*Repository)(nil)
var _ ports.Authorizer = (*Authorizer)(nil)
