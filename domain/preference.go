package domain

import (
	"fmt"
	"time"
)

// Feedback actions.
const (
	ActionShown     = "shown"
	ActionClicked   = "clicked"
	ActionDismissed = "dismissed"
)

const (
	MaxProfileExtensions = 16
	MaxViewedProducts    = 50
)

// ValidFeedbackAction reports whether action is one of shown, clicked, dismissed.
func ValidFeedbackAction(action string) bool {
	switch action {
	case ActionShown, ActionClicked, ActionDismissed:
		return true
	}
	return false
}

// FeedbackEvent is append-only; the (RecommendationID, Action) pair is unique.
type FeedbackEvent struct {
	RecommendationID string    `json:"recommendation_id"`
	Action           string    `json:"action"`
	UserID           string    `json:"user_id"`
	Timestamp        time.Time `json:"timestamp"`
}

// UserPreferenceProfile replaces the free-form preference dictionary with a
// fixed set of keys plus a bounded extension map.
type UserPreferenceProfile struct {
	UserID              string             `json:"user_id"`
	PreferredBrands     []string           `json:"preferred_brands,omitempty"`
	ProcessorPreference string             `json:"processor_preference,omitempty"`
	BudgetMax           *float64           `json:"budget_max,omitempty"`
	UseCase             string             `json:"use_case,omitempty"`
	Extensions          map[string]string  `json:"extensions,omitempty"`
	FeatureDeltas       map[string]float64 `json:"feature_deltas"`
	ViewedProducts      []string           `json:"viewed_products"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// NewUserPreferenceProfile returns an empty profile with initialised maps.
func NewUserPreferenceProfile(userID string) UserPreferenceProfile {
	return UserPreferenceProfile{
		UserID:        userID,
		Extensions:    map[string]string{},
		FeatureDeltas: map[string]float64{},
	}
}

// SetExtension stores an open key while keeping the map bounded.
func (p *UserPreferenceProfile) SetExtension(key, value string) error {
	if p.Extensions == nil {
		p.Extensions = map[string]string{}
	}
	if _, ok := p.Extensions[key]; !ok && len(p.Extensions) >= MaxProfileExtensions {
		return fmt.Errorf("profile extensions full (%d keys)", MaxProfileExtensions)
	}
	p.Extensions[key] = value
	return nil
}

// AddViewed appends productID, keeping the most recent MaxViewedProducts entries.
func (p *UserPreferenceProfile) AddViewed(productID string) {
	for i, id := range p.ViewedProducts {
		if id == productID {
			p.ViewedProducts = append(p.ViewedProducts[:i], p.ViewedProducts[i+1:]...)
			break
		}
	}
	p.ViewedProducts = append(p.ViewedProducts, productID)
	if len(p.ViewedProducts) > MaxViewedProducts {
		p.ViewedProducts = p.ViewedProducts[len(p.ViewedProducts)-MaxViewedProducts:]
	}
}

// Clone returns a deep copy so readers never share maps with the store.
func (p UserPreferenceProfile) Clone() UserPreferenceProfile {
	out := p
	out.PreferredBrands = append([]string(nil), p.PreferredBrands...)
	out.ViewedProducts = append([]string(nil), p.ViewedProducts...)
	out.Extensions = make(map[string]string, len(p.Extensions))
	for k, v := range p.Extensions {
		out.Extensions[k] = v
	}
	out.FeatureDeltas = make(map[string]float64, len(p.FeatureDeltas))
	for k, v := range p.FeatureDeltas {
		out.FeatureDeltas[k] = v
	}
	if p.BudgetMax != nil {
		b := *p.BudgetMax
		out.BudgetMax = &b
	}
	return out
}

// ProfileMutation edits a profile in place inside a store's unit of work. A
// returned error discards the whole unit.
type ProfileMutation func(p *UserPreferenceProfile) error

// PreferencePatch is a partial update of the explicit preference keys. Nil
// fields are left untouched. A zero BudgetMax clears the budget and an empty
// extension value removes the key.
type PreferencePatch struct {
	PreferredBrands     *[]string         `json:"preferred_brands,omitempty"`
	ProcessorPreference *string           `json:"processor_preference,omitempty"`
	BudgetMax           *float64          `json:"budget_max,omitempty"`
	UseCase             *string           `json:"use_case,omitempty"`
	Extensions          map[string]string `json:"extensions,omitempty"`
}
