package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRequestNotFound = errors.New("rerelease request not found")
	ErrVoteNotFound    = errors.New("vote not found")
	ErrDuplicateVote   = errors.New("user already voted for this rerelease")
	ErrInvalidState    = errors.New("rerelease request is not active")
	ErrStorageConflict = errors.New("storage conflict")
)

const (
	StatusActive    = "active"
	StatusFulfilled = "fulfilled"
	StatusArchived  = "archived"
)

type RereleaseRequest struct {
	ID            uint   `gorm:"primaryKey"`
	GameID        uint   `gorm:"not null;uniqueIndex"`
	Game          Game   `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
	TotalVotes    int    `gorm:"not null;default:0;check:total_votes >= 0"`
	Status        string `gorm:"type:varchar(20);not null;default:'active';index"`
	FulfilledDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RereleaseVote is keyed by (request_id, user_id); the primary key is what
// stops a user from voting twice on the same request.
type RereleaseVote struct {
	RequestID uint             `gorm:"primaryKey;autoIncrement:false"`
	Request   RereleaseRequest `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	UserID    uint             `gorm:"primaryKey;autoIncrement:false;index"`
	User      User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Comment   string           `gorm:"type:text"`
	VoteDate  time.Time        `gorm:"not null"`
}

type RereleaseDAO struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func NewRereleaseDAO(db *gorm.DB, lockTimeout time.Duration) *RereleaseDAO {
	return &RereleaseDAO{
		db:          db,
		lockTimeout: lockTimeout,
	}
}

// CastVote creates the game's request when missing, locks it, records the
// vote and bumps the counter, all inside one transaction.
func (d *RereleaseDAO) CastVote(ctx context.Context, gameID, userID uint, comment string, votedAt time.Time) (RereleaseRequest, error) {
	var req RereleaseRequest

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := d.setLockTimeout(tx); err != nil {
			return err
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}},
			DoNothing: true,
		}).Omit(clause.Associations).Create(&RereleaseRequest{
			GameID: gameID,
			Status: StatusActive,
		}).Error
		if err != nil {
			return err
		}

		if err = lockByGameID(tx, gameID, &req); err != nil {
			return err
		}
		if req.Status != StatusActive {
			return ErrInvalidState
		}

		vote := RereleaseVote{
			RequestID: req.ID,
			UserID:    userID,
			Comment:   comment,
			VoteDate:  votedAt,
		}
		if err = tx.Omit(clause.Associations).Create(&vote).Error; err != nil {
			return err
		}

		err = tx.Model(&RereleaseRequest{}).
			Where("id = ?", req.ID).
			UpdateColumn("total_votes", gorm.Expr("total_votes + ?", 1)).Error
		if err != nil {
			return err
		}
		req.TotalVotes++

		return nil
	})
	if err != nil {
		return RereleaseRequest{}, translateError(err)
	}

	return req, nil
}

// RemoveVote deletes the user's vote and decrements the counter, never below
// zero, inside one transaction.
func (d *RereleaseDAO) RemoveVote(ctx context.Context, gameID, userID uint) (RereleaseRequest, error) {
	var req RereleaseRequest

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := d.setLockTimeout(tx); err != nil {
			return err
		}

		if err := lockByGameID(tx, gameID, &req); err != nil {
			return err
		}
		if req.Status != StatusActive {
			return ErrInvalidState
		}

		result := tx.Where("request_id = ? AND user_id = ?", req.ID, userID).Delete(&RereleaseVote{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVoteNotFound
		}

		err := tx.Model(&RereleaseRequest{}).
			Where("id = ?", req.ID).
			UpdateColumn("total_votes", gorm.Expr("GREATEST(total_votes - 1, 0)")).Error
		if err != nil {
			return err
		}
		if req.TotalVotes > 0 {
			req.TotalVotes--
		}

		return nil
	})
	if err != nil {
		return RereleaseRequest{}, translateError(err)
	}

	return req, nil
}

// UpdateStatus moves an active request to status. A request that exists but
// is no longer active yields ErrInvalidState.
func (d *RereleaseDAO) UpdateStatus(ctx context.Context, gameID uint, status string, fulfilledDate *time.Time) (RereleaseRequest, error) {
	result := d.db.WithContext(ctx).Model(&RereleaseRequest{}).
		Where("game_id = ? AND status = ?", gameID, StatusActive).
		Updates(map[string]any{
			"status":         status,
			"fulfilled_date": fulfilledDate,
		})
	if result.Error != nil {
		return RereleaseRequest{}, translateError(result.Error)
	}

	req, err := d.FindByGameID(ctx, gameID)
	if err != nil {
		return RereleaseRequest{}, err
	}
	if result.RowsAffected == 0 {
		return RereleaseRequest{}, ErrInvalidState
	}

	return req, nil
}

func (d *RereleaseDAO) FindByGameID(ctx context.Context, gameID uint) (RereleaseRequest, error) {
	var req RereleaseRequest

	result := d.db.WithContext(ctx).Joins("Game").Where("rerelease_requests.game_id = ?", gameID).First(&req)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return RereleaseRequest{}, ErrRequestNotFound
		}

		return RereleaseRequest{}, result.Error
	}

	return req, nil
}

// ListMostVoted returns active and fulfilled requests, highest counter first.
// Equal counters are ordered by id so pages stay stable between calls.
func (d *RereleaseDAO) ListMostVoted(ctx context.Context, limit, offset int) ([]RereleaseRequest, error) {
	var reqs []RereleaseRequest

	result := d.db.WithContext(ctx).
		Joins("Game").
		Where("rerelease_requests.status IN ?", []string{StatusActive, StatusFulfilled}).
		Order("rerelease_requests.total_votes DESC").
		Order("rerelease_requests.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&reqs)
	if result.Error != nil {
		return nil, result.Error
	}

	return reqs, nil
}

func (d *RereleaseDAO) HasVoted(ctx context.Context, requestID, userID uint) (bool, error) {
	var count int64

	err := d.db.WithContext(ctx).Model(&RereleaseVote{}).
		Where("request_id = ? AND user_id = ?", requestID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (d *RereleaseDAO) ListVotes(ctx context.Context, requestID uint, limit, offset int) ([]RereleaseVote, error) {
	var votes []RereleaseVote

	result := d.db.WithContext(ctx).
		Joins("User").
		Where("rerelease_votes.request_id = ?", requestID).
		Order("rerelease_votes.vote_date DESC").
		Order("rerelease_votes.user_id ASC").
		Limit(limit).
		Offset(offset).
		Find(&votes)
	if result.Error != nil {
		return nil, result.Error
	}

	return votes, nil
}

// CountVotes counts ledger rows, independent of the denormalised counter.
func (d *RereleaseDAO) CountVotes(ctx context.Context, requestID uint) (int64, error) {
	var count int64

	err := d.db.WithContext(ctx).Model(&RereleaseVote{}).Where("request_id = ?", requestID).Count(&count).Error

	return count, err
}

func (d *RereleaseDAO) setLockTimeout(tx *gorm.DB) error {
	if d.lockTimeout <= 0 {
		return nil
	}

	// SET does not take bind parameters.
	return tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = %d", d.lockTimeout.Milliseconds())).Error
}

func lockByGameID(tx *gorm.DB, gameID uint, req *RereleaseRequest) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("game_id = ?", gameID).
		First(req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRequestNotFound
	}

	return err
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if pgErr.TableName == "rerelease_votes" {
			return ErrDuplicateVote
		}
	case pgerrcode.ForeignKeyViolation:
		switch pgErr.ConstraintName {
		case "fk_rerelease_requests_game":
			return ErrGameNotFound
		case "fk_rerelease_votes_user":
			return ErrUserNotFound
		}
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
		return fmt.Errorf("%w: sqlstate %s", ErrStorageConflict, pgErr.Code)
	}

	return err
}
