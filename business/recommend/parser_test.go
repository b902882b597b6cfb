package recommend

import (
	"errors"
	"testing"

	"smartCatalog/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalToken(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Fingerprint Reader", "fingerprint-reader"},
		{"fingerprint", "fingerprint-reader"},
		{"Backlit", "backlit-keyboard"},
		{"touch screen", "touchscreen"},
		{"Solid State Drive", "ssd"},
		{"Thunderbolt 4", "thunderbolt"},
		{"  SSD ", "ssd"},
		{"wifi_6e", "wifi-6e"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalToken(tt.raw))
		})
	}
}

func TestMatchTokenFallsBackToSubstring(t *testing.T) {
	c := cand("X", "HP", 1000, 16, 512, "NVMe SSD", 4.2, 80, "Wi-Fi 6E")
	assert.True(t, MatchToken(c, "nvme-ssd"))
	assert.True(t, MatchToken(c, "ssd"))
	assert.True(t, MatchToken(c, "wi-fi"))
	assert.False(t, MatchToken(c, "hdd"))
	assert.False(t, MatchToken(c, ""))
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   domain.RecommendRequest
		field string
	}{
		{"negative budget max", domain.RecommendRequest{BudgetMax: fp(-1), Limit: 5}, "budget_max"},
		{"negative budget min", domain.RecommendRequest{BudgetMin: fp(-5), Limit: 5}, "budget_min"},
		{"inverted budget", domain.RecommendRequest{BudgetMin: fp(1500), BudgetMax: fp(1000), Limit: 5}, "budget_min"},
		{"limit zero", domain.RecommendRequest{Limit: 0}, "limit"},
		{"limit too large", domain.RecommendRequest{Limit: 21}, "limit"},
		{"rating above five", domain.RecommendRequest{MinRating: fp(5.5), Limit: 5}, "min_rating"},
		{"negative memory", domain.RecommendRequest{MinMemoryGB: ip(-8), Limit: 5}, "min_memory_gb"},
		{"negative storage", domain.RecommendRequest{MinStorageGB: ip(-1), Limit: 5}, "min_storage_gb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidConstraint))

			var ce *domain.ConstraintError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestParseLimitBounds(t *testing.T) {
	for _, limit := range []int{1, 20} {
		_, err := Parse(domain.RecommendRequest{Limit: limit})
		assert.NoError(t, err)
	}
}

func TestParseWithoutUseCaseAppliesNoPreset(t *testing.T) {
	cs, err := Parse(domain.RecommendRequest{BudgetMax: fp(1000), MustHave: []string{"SSD"}, Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, []string{"ssd"}, cs.MustHave)
	assert.Empty(t, cs.NiceHave)
	assert.Zero(t, cs.MinMemoryGB)
	assert.Zero(t, cs.MinRating)
	assert.Empty(t, cs.PreferredBrands)
	assert.Equal(t, "", cs.UseCase)
}

func TestParseBusinessPreset(t *testing.T) {
	cs, err := Parse(domain.RecommendRequest{
		UseCase:  "Business",
		MustHave: []string{"fingerprint reader", "ssd"},
		NiceHave: []string{"backlit", "touch screen", "thunderbolt 4"},
		Limit:    5,
	})
	require.NoError(t, err)

	assert.Equal(t, UseCaseBusiness, cs.UseCase)
	assert.Equal(t, []string{"fingerprint-reader", "backlit-keyboard", "ssd"}, cs.MustHave)
	// backlit-keyboard is already required, so it is not repeated as nice-to-have
	assert.Equal(t, []string{"touchscreen", "thunderbolt"}, cs.NiceHave)
	assert.Equal(t, 16, cs.MinMemoryGB)
	assert.Equal(t, 256, cs.MinStorageGB)
	assert.Equal(t, "intel", cs.ProcessorPreference)
	assert.Equal(t, []string{"HP", "Lenovo"}, cs.PreferredBrands)
	assert.Equal(t, 4.0, cs.MinRating)
}

func TestParseBudgetTiers(t *testing.T) {
	tests := []struct {
		name        string
		budget      float64
		wantMemory  int
		wantStorage int
	}{
		{"baseline tier", 900, 8, 256},
		{"baseline boundary", 1000, 8, 256},
		{"mid tier", 1200, 16, 512},
		{"mid boundary", 1500, 16, 512},
		{"above tiers keeps preset", 2500, 16, 512},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := Parse(domain.RecommendRequest{UseCase: "programming", BudgetMax: fp(tt.budget), Limit: 3})
			require.NoError(t, err)
			assert.Equal(t, tt.wantMemory, cs.MinMemoryGB)
			assert.Equal(t, tt.wantStorage, cs.MinStorageGB)
		})
	}
}

func TestParseExplicitMinimaOverrideTiers(t *testing.T) {
	cs, err := Parse(domain.RecommendRequest{
		UseCase:      "business",
		BudgetMax:    fp(900),
		MinMemoryGB:  ip(32),
		MinStorageGB: ip(1024),
		MinRating:    fp(3.5),
		Limit:        3,
	})
	require.NoError(t, err)
	assert.Equal(t, 32, cs.MinMemoryGB)
	assert.Equal(t, 1024, cs.MinStorageGB)
	assert.Equal(t, 3.5, cs.MinRating)
}

func TestParseUnknownUseCaseFallsBackToGeneric(t *testing.T) {
	cs, err := Parse(domain.RecommendRequest{UseCase: "underwater basket weaving", Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, UseCaseGeneric, cs.UseCase)
	assert.Equal(t, []string{"backlit-keyboard"}, cs.NiceHave)
	assert.Equal(t, 8, cs.MinMemoryGB)
}

func TestParseReturnsFreshValue(t *testing.T) {
	req := domain.RecommendRequest{UseCase: "business", BudgetMax: fp(1000), Limit: 3}
	a, err := Parse(req)
	require.NoError(t, err)
	a.PreferredBrands[0] = "Mutated"
	*a.BudgetMax = 1

	b, err := Parse(req)
	require.NoError(t, err)
	assert.Equal(t, "HP", b.PreferredBrands[0])
	assert.Equal(t, 1000.0, *b.BudgetMax)
	assert.Equal(t, 1000.0, *req.BudgetMax)
}

func TestSuggestConstraints(t *testing.T) {
	got, err := SuggestConstraints("travel", fp(1400))
	require.NoError(t, err)
	assert.Equal(t, "travel", got.UseCase)
	assert.Equal(t, 16, got.Constraints.MinMemoryGB)
	assert.Equal(t, 512, got.Constraints.MinStorageGB)
	assert.Equal(t, 4.2, got.Constraints.MinRating)
	require.NotNil(t, got.Constraints.BudgetMax)
	assert.Equal(t, 1400.0, *got.Constraints.BudgetMax)
	assert.Contains(t, got.Explanation, "travel")

	_, err = SuggestConstraints("travel", fp(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidConstraint)
}
