package recommend

import (
	"testing"

	"smartCatalog/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareExample(t *testing.T) {
	cfg := DefaultConfig()
	idx := exampleCatalog()

	cands, err := ResolveComparison(idx, []string{"A", "B"})
	require.NoError(t, err)

	res, err := compareCandidates(cands, []string{"price", "memory"}, cfg.Weights, cfg)
	require.NoError(t, err)
	assert.Equal(t, "B", res.WinnerOf("price"))
	assert.Equal(t, "A", res.WinnerOf("memory"))
	assert.Equal(t, 1, res.Wins["A"])
	assert.Equal(t, 1, res.Wins["B"])
	assert.Equal(t, "A", res.Verdict)
	assert.True(t, res.VerdictTieBroken)
	assert.Greater(t, res.NeutralScores["A"], res.NeutralScores["B"])
	assert.Equal(t, "B", res.UseCaseWinners["budget"])
	assert.Equal(t, "A", res.UseCaseWinners["business"])
	assert.Contains(t, res.Rationale, "overall score")
}

func TestCompareDefaultAspectsAndTies(t *testing.T) {
	cfg := DefaultConfig()
	idx := indexOf(
		cand("X", "HP", 1000, 16, 512, "ssd", 4.5, 100, "backlit-keyboard", "touchscreen"),
		cand("Y", "Dell", 1000, 16, 256, "ssd", 4.0, 100, "backlit-keyboard"),
	)
	cands, err := ResolveComparison(idx, []string{"X", "Y"})
	require.NoError(t, err)

	res, err := compareCandidates(cands, nil, cfg.Weights, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"price", "memory", "storage", "rating", "display", "weight", "storage-type", "cpu-vendor",
		"backlit-keyboard", "touchscreen",
	}, res.Aspects)
	assert.Equal(t, domain.AspectTie, res.WinnerOf("price"))
	assert.Equal(t, domain.AspectTie, res.WinnerOf("memory"))
	assert.Equal(t, "X", res.WinnerOf("storage"))
	assert.Equal(t, domain.AspectTie, res.WinnerOf("storage-type"))
	assert.Equal(t, domain.AspectNoWinner, res.WinnerOf("cpu-vendor"))
	assert.Equal(t, domain.AspectTie, res.WinnerOf("backlit-keyboard"))
	assert.Equal(t, "X", res.WinnerOf("touchscreen"))
	assert.Equal(t, "X", res.Verdict)
	assert.False(t, res.VerdictTieBroken)
}

func TestComparePermutationInvariant(t *testing.T) {
	cfg := DefaultConfig()
	idx := indexOf(
		cand("P", "HP", 1100, 16, 512, "ssd", 4.4, 60, "fingerprint-reader"),
		cand("Q", "Lenovo", 950, 16, 512, "ssd", 4.4, 60, "backlit-keyboard"),
		cand("R", "Dell", 950, 32, 256, "hdd", 4.1, 10, "fingerprint-reader", "touchscreen"),
	)
	perms := [][]string{
		{"P", "Q", "R"}, {"P", "R", "Q"}, {"Q", "P", "R"},
		{"Q", "R", "P"}, {"R", "P", "Q"}, {"R", "Q", "P"},
	}

	var base domain.ComparisonResult
	for i, ids := range perms {
		cands, err := ResolveComparison(idx, ids)
		require.NoError(t, err)
		res, err := compareCandidates(cands, nil, cfg.Weights, cfg)
		require.NoError(t, err)

		got := make([]string, 0, len(ids))
		for _, c := range res.Candidates {
			got = append(got, c.ID)
		}
		assert.Equal(t, ids, got, "output keeps input order")

		if i == 0 {
			base = res
			continue
		}
		assert.Equal(t, base.Verdict, res.Verdict)
		assert.Equal(t, base.Wins, res.Wins)
		assert.Equal(t, base.UseCaseWinners, res.UseCaseWinners)
		for _, aspect := range base.Aspects {
			assert.Equal(t, base.WinnerOf(aspect), res.WinnerOf(aspect), aspect)
		}
	}
}

func TestResolveComparisonErrors(t *testing.T) {
	idx := exampleCatalog()

	_, err := ResolveComparison(idx, []string{"A"})
	assert.ErrorIs(t, err, domain.ErrComparisonProductCount)

	_, err = ResolveComparison(idx, []string{"A", "B", "A", "B", "A", "B"})
	assert.ErrorIs(t, err, domain.ErrComparisonProductCount)

	_, err = ResolveComparison(idx, []string{"A", "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidConstraint)

	_, err = ResolveComparison(idx, []string{"A", "Z", "Y"})
	require.ErrorIs(t, err, domain.ErrCandidateNotFound)
	assert.Contains(t, err.Error(), "Z, Y")
}

func TestCompareFieldNameAspects(t *testing.T) {
	cfg := DefaultConfig()
	idx := indexOf(
		domain.NewProductCandidate(domain.ProductCandidate{
			ID: "A", Brand: "HP", Processor: "Intel Core i5", MemoryGB: 16, StorageGB: 512,
			StorageType: "nvme ssd", DisplaySize: 14, Price: 900, Rating: 4.5,
		}),
		domain.NewProductCandidate(domain.ProductCandidate{
			ID: "B", Brand: "Acme", Processor: "AMD Ryzen 5", MemoryGB: 8, StorageGB: 1000,
			StorageType: "hdd", DisplaySize: 15.6, Price: 700, Rating: 4.0,
		}),
	)
	cands, err := ResolveComparison(idx, []string{"A", "B"})
	require.NoError(t, err)

	res, err := compareCandidates(cands, []string{"memory_gb", "storage_gb", "storage_type", "display_size", "cpu_vendor", "RAM"}, cfg.Weights, cfg)
	require.NoError(t, err)

	// RAM resolves to memory, which is already listed
	assert.Equal(t, []string{"memory", "storage", "storage-type", "display", "cpu-vendor"}, res.Aspects)
	assert.Equal(t, "A", res.WinnerOf("memory"))
	assert.Equal(t, "B", res.WinnerOf("storage"))
	assert.Equal(t, "A", res.WinnerOf("storage-type"))
	assert.Equal(t, "B", res.WinnerOf("display"))
	assert.Equal(t, domain.AspectNoWinner, res.WinnerOf("cpu-vendor"))

	for _, ar := range res.AspectResults {
		if ar.Aspect == "cpu-vendor" {
			assert.Equal(t, domain.RuleCategorical, ar.Rule)
			assert.Equal(t, "intel", ar.Values[0].Display)
			assert.Equal(t, "amd", ar.Values[1].Display)
		}
	}
	assert.Equal(t, 2, res.Wins["A"])
	assert.Equal(t, 2, res.Wins["B"])
}

func TestCompareRejectsUnknownAspects(t *testing.T) {
	cfg := DefaultConfig()
	idx := indexOf(
		cand("X", "HP", 1000, 16, 512, "ssd", 4.5, 100, "usb-c"),
		cand("Y", "Dell", 900, 16, 256, "ssd", 4.0, 100),
	)
	cands, err := ResolveComparison(idx, []string{"X", "Y"})
	require.NoError(t, err)

	_, err = compareCandidates(cands, []string{"memory", "bogus", "memroy"}, cfg.Weights, cfg)
	require.ErrorIs(t, err, domain.ErrInvalidConstraint)
	var ce *domain.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "aspects", ce.Field)
	assert.Contains(t, err.Error(), "bogus, memroy")

	// known features are accepted even when no candidate has them
	res, err := compareCandidates(cands, []string{"touchscreen", "fingerprint", "usb-c"}, cfg.Weights, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"touchscreen", "fingerprint-reader", "usb-c"}, res.Aspects)
	assert.Equal(t, domain.AspectTie, res.WinnerOf("touchscreen"))
	assert.Equal(t, "X", res.WinnerOf("usb-c"))
}
