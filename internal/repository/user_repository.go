package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/chrono-planner-api/internal/constants"
	"github.com/yukikurage/chrono-planner-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsername reports whether a username is taken
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// AwardPoints adds points to a user and recomputes the level
func (r *GormUserRepository) AwardPoints(ctx context.Context, userID uint64, points int) (*models.User, error) {
	db := r.db.WithContext(ctx)
	if err := awardPoints(db, userID, points); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, userID)
}

// awardPoints increments points and derives level = points/PointsPerLevel + 1
// in a single statement. gorm orders map assignments by column name, so
// "level" is computed from the pre-update points on every dialect.
func awardPoints(db *gorm.DB, userID uint64, points int) error {
	per := constants.PointsPerLevel
	res := db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"level":  gorm.Expr("((points + ?) - ((points + ?) % ?)) / ? + ?", points, points, per, per, constants.InitialLevel),
			"points": gorm.Expr("points + ?", points),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
