package postgres

import (
	"context"

	"github.com/dom/auth-starter/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

// UpsertByUser inserts the user's session or overwrites its token in one
// INSERT ... ON CONFLICT (user_id) statement. Concurrent logins for one user
// all succeed and the last write wins.
func (r *sessionRepository) UpsertByUser(ctx context.Context, userID uint, token string, meta domain.SessionMeta) (*domain.Session, error) {
	session := &domain.Session{
		UserID: userID,
		Token:  token,
		Meta:   datatypes.NewJSONType(meta),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "meta", "updated_at"}),
		}).
		Create(session).Error
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	var session domain.Session
	err := r.db.WithContext(ctx).First(&session, "token = ?", token).Error
	if err != nil {
		return nil, notFound(err, domain.ErrSessionNotFound)
	}
	return &session, nil
}

func (r *sessionRepository) FindByUser(ctx context.Context, userID uint) (*domain.Session, error) {
	var session domain.Session
	err := r.db.WithContext(ctx).First(&session, "user_id = ?", userID).Error
	if err != nil {
		return nil, notFound(err, domain.ErrSessionNotFound)
	}
	return &session, nil
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Delete(&domain.Session{}, "token = ?", token).Error
}
