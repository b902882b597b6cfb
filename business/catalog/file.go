package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"smartCatalog/domain"
)

// ReadCandidatesFile decodes a JSON array of candidates.
func ReadCandidatesFile(path string) ([]domain.ProductCandidate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var candidates []domain.ProductCandidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}

	for i, c := range candidates {
		if c.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if c.Price < 0 {
			return nil, fmt.Errorf("catalog entry %s has negative price", c.ID)
		}
	}
	return candidates, nil
}

// LoadJSONFile builds an index straight from a catalog file.
func LoadJSONFile(path string) (*Index, error) {
	candidates, err := ReadCandidatesFile(path)
	if err != nil {
		return nil, err
	}
	return NewIndex(path, candidates), nil
}
