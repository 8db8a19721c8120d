package treatment

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	noshowErrors "github.com/UMCU-Digital-Health/No-Show/errors"
)

// BinEdges holds the ascending score cut points per clinic. Every list starts at 0 and ends at 1,
// bin i contains the scores in (edges[i], edges[i+1]], a score of 0 falls in the first bin.
type BinEdges map[string][]float64

// LoadBinEdges reads the score quantiles per clinic from a YAML or JSON document of the form
// clinic -> quantile -> score
func LoadBinEdges(path string) (BinEdges, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("unable to read score bins: %w", err)
	}
	return ParseBinEdges(content)
}

func ParseBinEdges(content []byte) (BinEdges, error) {
	quantiles := map[string]map[string]float64{}
	if err := yaml.Unmarshal(content, &quantiles); err != nil {
		return nil, fmt.Errorf("unable to parse score bins: %w", err)
	}

	result := make(BinEdges, len(quantiles))
	for clinic, scores := range quantiles {
		edges, err := edgesFromQuantiles(scores)
		if err != nil {
			return nil, noshowErrors.NewInputError(err).WithClinic(clinic)
		}
		result[clinic] = edges
	}
	return result, nil
}

// edgesFromQuantiles replaces the score of the lowest quantile with 0 and closes the list with 1
func edgesFromQuantiles(scores map[string]float64) ([]float64, error) {
	type quantile struct {
		q     float64
		score float64
	}

	ordered := make([]quantile, 0, len(scores))
	for key, score := range scores {
		q, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid quantile %q", ErrInvalidBinEdges, key)
		}
		ordered = append(ordered, quantile{q: q, score: score})
	}
	if len(ordered) < 2 {
		return nil, fmt.Errorf("%w: at least two quantiles are required", ErrInvalidBinEdges)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].q < ordered[j].q })

	edges := make([]float64, 0, len(ordered)+1)
	edges = append(edges, 0)
	for _, o := range ordered[1:] {
		edges = append(edges, o.score)
	}
	edges = append(edges, 1)

	if err := validateEdges(edges); err != nil {
		return nil, err
	}
	return edges, nil
}

func validateEdges(edges []float64) error {
	if len(edges) < 2 || edges[0] != 0 || edges[len(edges)-1] != 1 {
		return fmt.Errorf("%w: edges must start at 0 and end at 1", ErrInvalidBinEdges)
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return fmt.Errorf("%w: edges must be strictly increasing", ErrInvalidBinEdges)
		}
	}
	return nil
}

func (b BinEdges) Validate() error {
	for clinic, edges := range b {
		if err := validateEdges(edges); err != nil {
			return noshowErrors.NewInputError(err).WithClinic(clinic)
		}
	}
	return nil
}

// Bin returns the index of the score bin of the clinic that contains score
func (b BinEdges) Bin(clinic string, score float64) (int, error) {
	edges, ok := b[clinic]
	if !ok {
		return 0, noshowErrors.NewInputError(ErrUnknownClinic).WithClinic(clinic)
	}
	if math.IsNaN(score) || score < 0 || score > 1 {
		return 0, noshowErrors.NewInputError(fmt.Errorf("%w: %v", ErrScoreOutOfRange, score)).WithClinic(clinic)
	}

	// first upper edge that is not below the score
	i := sort.SearchFloat64s(edges[1:], score)
	if i >= len(edges)-1 {
		i = len(edges) - 2
	}
	return i, nil
}
