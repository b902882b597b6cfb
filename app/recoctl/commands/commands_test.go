package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"smartCatalog/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = "../../../data/laptops.json"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--catalog", testCatalog}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRecommendCommand(t *testing.T) {
	out, err := run(t, "recommend", "--budget-max", "1000", "--must", "ssd", "--limit", "3")
	require.NoError(t, err)

	var resp domain.RecommendResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.LessOrEqual(t, len(resp.Results), 3)
	for _, r := range resp.Results {
		assert.Contains(t, r.MatchedMust, "ssd")
	}
}

func TestCompareCommand(t *testing.T) {
	out, err := run(t, "compare", "hp-pb-450-g10-i5", "lenovo-tp-e14-g5-r5")
	require.NoError(t, err)

	var res domain.ComparisonResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Candidates, 2)
	assert.NotEmpty(t, res.Verdict)

	_, err = run(t, "compare", "hp-pb-450-g10-i5", "no-such-laptop")
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
}

func TestSuggestCommand(t *testing.T) {
	out, err := run(t, "suggest", "business")
	require.NoError(t, err)

	var res domain.SuggestedConstraints
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "business", res.UseCase)
}

func TestTiersCommand(t *testing.T) {
	out, err := run(t, "tiers")
	require.NoError(t, err)

	var tiers []domain.BudgetTierRecommendation
	require.NoError(t, json.Unmarshal([]byte(out), &tiers))
	require.Len(t, tiers, 4)
	assert.Equal(t, "Budget", tiers[0].Tier)
	for _, tier := range tiers {
		assert.LessOrEqual(t, len(tier.Results), 2)
	}
}

func TestMissingCatalogFile(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--catalog", "does-not-exist.json", "smart"})
	assert.Error(t, rootCmd.Execute())
}
