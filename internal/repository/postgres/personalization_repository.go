package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smartCatalog/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CREATE TABLE issued_recommendations (
//     id               TEXT PRIMARY KEY,
//     user_id          TEXT NOT NULL,
//     product_id       TEXT NOT NULL,
//     matched_features JSONB,
//     score            NUMERIC,
//     created_at       TIMESTAMPTZ NOT NULL,
//     expires_at       TIMESTAMPTZ NOT NULL
// );
type IssuedRecommendationRow struct {
	ID              string         `gorm:"column:id;primaryKey"`
	UserID          string         `gorm:"column:user_id;index"`
	ProductID       string         `gorm:"column:product_id"`
	MatchedFeatures datatypes.JSON `gorm:"column:matched_features;type:jsonb"`
	Score           float64        `gorm:"column:score;type:numeric"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	ExpiresAt       time.Time      `gorm:"column:expires_at;index"`
}

func (IssuedRecommendationRow) TableName() string {
	return "issued_recommendations"
}

// CREATE TABLE feedback_events (
//     id                BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     recommendation_id TEXT NOT NULL,
//     action            TEXT NOT NULL,
//     user_id           TEXT,
//     created_at        TIMESTAMPTZ NOT NULL,
//     UNIQUE (recommendation_id, action)
// );
type FeedbackEventRow struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement"`
	RecommendationID string    `gorm:"column:recommendation_id;uniqueIndex:idx_feedback_rec_action"`
	Action           string    `gorm:"column:action;uniqueIndex:idx_feedback_rec_action"`
	UserID           string    `gorm:"column:user_id;index"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (FeedbackEventRow) TableName() string {
	return "feedback_events"
}

type UserProfileRow struct {
	UserID    string         `gorm:"column:user_id;primaryKey"`
	Profile   datatypes.JSON `gorm:"column:profile;type:jsonb"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (UserProfileRow) TableName() string {
	return "user_preference_profiles"
}

type PersonalizationRepository struct {
	DB *gorm.DB
}

func NewPersonalizationRepository(db *gorm.DB) *PersonalizationRepository {
	return &PersonalizationRepository{DB: db}
}

func (r *PersonalizationRepository) SaveIssued(ctx context.Context, recs []domain.IssuedRecommendation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(recs) == 0 {
		return nil
	}

	rows := make([]IssuedRecommendationRow, 0, len(recs))
	for _, rec := range recs {
		raw, err := json.Marshal(rec.MatchedFeatures)
		if err != nil {
			return fmt.Errorf("failed to marshal matched features: %w", err)
		}
		rows = append(rows, IssuedRecommendationRow{
			ID:              rec.ID,
			UserID:          rec.UserID,
			ProductID:       rec.ProductID,
			MatchedFeatures: datatypes.JSON(raw),
			Score:           rec.Score,
			CreatedAt:       rec.CreatedAt,
			ExpiresAt:       rec.ExpiresAt,
		})
	}

	if err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to save issued recommendations: %w", err)
	}
	return nil
}

func (r *PersonalizationRepository) GetIssued(ctx context.Context, id string) (domain.IssuedRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return domain.IssuedRecommendation{}, fmt.Errorf("context error: %w", err)
	}

	var row IssuedRecommendationRow
	err := r.DB.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.IssuedRecommendation{}, fmt.Errorf("%w: recommendation %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.IssuedRecommendation{}, fmt.Errorf("failed to query issued recommendation: %w", err)
	}

	var features []string
	if len(row.MatchedFeatures) > 0 {
		if err := json.Unmarshal(row.MatchedFeatures, &features); err != nil {
			return domain.IssuedRecommendation{}, fmt.Errorf("failed to unmarshal matched features: %w", err)
		}
	}

	return domain.IssuedRecommendation{
		ID:              row.ID,
		UserID:          row.UserID,
		ProductID:       row.ProductID,
		MatchedFeatures: features,
		Score:           row.Score,
		CreatedAt:       row.CreatedAt,
		ExpiresAt:       row.ExpiresAt,
	}, nil
}

// RecordEvent relies on the unique (recommendation_id, action) index: a replay
// inserts nothing and reports false. The event insert and the profile update
// share one transaction, so a failed profile write leaves no event behind.
func (r *PersonalizationRepository) RecordEvent(ctx context.Context, event domain.FeedbackEvent, mutate domain.ProfileMutation) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	row := FeedbackEventRow{
		RecommendationID: event.RecommendationID,
		Action:           event.Action,
		UserID:           event.UserID,
		CreatedAt:        event.Timestamp,
	}

	created := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recommendation_id"}, {Name: "action"}},
			DoNothing: true,
		}).Create(&row)
		if result.Error != nil {
			return fmt.Errorf("failed to append feedback event: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}
		created = true
		if mutate == nil {
			return nil
		}
		_, err := mutateProfile(tx, event.UserID, mutate)
		return err
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *PersonalizationRepository) LoadProfile(ctx context.Context, userID string) (domain.UserPreferenceProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserPreferenceProfile{}, fmt.Errorf("context error: %w", err)
	}

	var row UserProfileRow
	err := r.DB.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewUserPreferenceProfile(userID), nil
	}
	if err != nil {
		return domain.UserPreferenceProfile{}, fmt.Errorf("failed to query profile: %w", err)
	}
	return decodeProfile(userID, row)
}

func (r *PersonalizationRepository) UpdateProfile(ctx context.Context, userID string, mutate domain.ProfileMutation) (domain.UserPreferenceProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserPreferenceProfile{}, fmt.Errorf("context error: %w", err)
	}

	var out domain.UserPreferenceProfile
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := mutateProfile(tx, userID, mutate)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return domain.UserPreferenceProfile{}, err
	}
	return out, nil
}

// mutateProfile makes sure the row exists, locks it with SELECT ... FOR UPDATE
// and writes back the mutated document. It must run inside a transaction.
func mutateProfile(tx *gorm.DB, userID string, mutate domain.ProfileMutation) (domain.UserPreferenceProfile, error) {
	if userID == "" {
		return domain.UserPreferenceProfile{}, fmt.Errorf("%w: user_id is required", domain.ErrInvalidConstraint)
	}

	seed := UserProfileRow{UserID: userID, Profile: datatypes.JSON("{}"), UpdatedAt: time.Now().UTC()}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return domain.UserPreferenceProfile{}, fmt.Errorf("failed to seed profile: %w", err)
	}

	var row UserProfileRow
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, "user_id = ?", userID).Error; err != nil {
		return domain.UserPreferenceProfile{}, fmt.Errorf("failed to lock profile: %w", err)
	}

	profile, err := decodeProfile(userID, row)
	if err != nil {
		return domain.UserPreferenceProfile{}, err
	}
	if err := mutate(&profile); err != nil {
		return domain.UserPreferenceProfile{}, err
	}
	profile.UserID = userID
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return domain.UserPreferenceProfile{}, fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := tx.Model(&UserProfileRow{}).Where("user_id = ?", userID).Updates(map[string]any{
		"profile":    datatypes.JSON(raw),
		"updated_at": profile.UpdatedAt,
	}).Error; err != nil {
		return domain.UserPreferenceProfile{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

func decodeProfile(userID string, row UserProfileRow) (domain.UserPreferenceProfile, error) {
	profile := domain.NewUserPreferenceProfile(userID)
	if len(row.Profile) > 0 {
		if err := json.Unmarshal(row.Profile, &profile); err != nil {
			return domain.UserPreferenceProfile{}, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
	}
	profile.UserID = userID
	if profile.FeatureDeltas == nil {
		profile.FeatureDeltas = map[string]float64{}
	}
	if profile.Extensions == nil {
		profile.Extensions = map[string]string{}
	}
	return profile, nil
}

// PruneIssued deletes issued recommendations past their TTL and the feedback
// rows that point at them.
func (r *PersonalizationRepository) PruneIssued(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var n int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&IssuedRecommendationRow{}).Select("id").Where("expires_at < ?", cutoff)
		if err := tx.Where("recommendation_id IN (?)", expired).Delete(&FeedbackEventRow{}).Error; err != nil {
			return fmt.Errorf("failed to delete expired feedback: %w", err)
		}
		result := tx.Where("expires_at < ?", cutoff).Delete(&IssuedRecommendationRow{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete expired recommendations: %w", result.Error)
		}
		n = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
