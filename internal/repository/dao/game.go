package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrGameNotFound = errors.New("game not found")

type Game struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null;index"`
	Platform    string `gorm:"size:100;not null"`
	Publisher   string `gorm:"size:255"`
	ReleaseYear int
	Abandonware bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type GameDAO struct {
	db *gorm.DB
}

func NewGameDAO(db *gorm.DB) *GameDAO {
	return &GameDAO{
		db: db,
	}
}

func (d *GameDAO) Insert(ctx context.Context, game Game) (Game, error) {
	if err := d.db.WithContext(ctx).Create(&game).Error; err != nil {
		return Game{}, err
	}

	return game, nil
}

func (d *GameDAO) FindByID(ctx context.Context, id uint) (Game, error) {
	var game Game

	result := d.db.WithContext(ctx).First(&game, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Game{}, ErrGameNotFound
		}

		return Game{}, result.Error
	}

	return game, nil
}

func (d *GameDAO) FindAll(ctx context.Context) ([]Game, error) {
	var games []Game

	if err := d.db.WithContext(ctx).Order("title ASC").Order("id ASC").Find(&games).Error; err != nil {
		return nil, err
	}

	return games, nil
}

// Delete removes the game. Its rerelease request and votes go with it through
// ON DELETE CASCADE.
func (d *GameDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Game{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGameNotFound
	}

	return nil
}
