package services

import (
	"fmt"
	"log"
	"sort"

	"galaxykiro/models"
)

// ValidateResultTiers checks that tier bands are non-overlapping and cover the
// whole 0..100 percentage range with no gaps. Definitions failing this check
// are rejected at catalog registration so the engine never has to invent a
// fallback tier at scoring time.
func ValidateResultTiers(tiers []models.ResultTier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("at least one result tier is required")
	}

	sorted := make([]models.ResultTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	if sorted[0].Min != 0 {
		return fmt.Errorf("result tiers must start at 0, first tier starts at %d", sorted[0].Min)
	}
	for i, tier := range sorted {
		if tier.Max < tier.Min {
			return fmt.Errorf("result tier '%s' has max %d below min %d", tier.Label, tier.Max, tier.Min)
		}
		if i > 0 && tier.Min != sorted[i-1].Max+1 {
			return fmt.Errorf("result tier '%s' starts at %d, expected %d (bands must be contiguous)", tier.Label, tier.Min, sorted[i-1].Max+1)
		}
	}
	if sorted[len(sorted)-1].Max != 100 {
		return fmt.Errorf("result tiers must end at 100, last tier ends at %d", sorted[len(sorted)-1].Max)
	}
	return nil
}

// selectTier returns the tier whose band contains the percentage, or nil when
// no band matches.
func selectTier(tiers []models.ResultTier, pct int) *models.ResultTier {
	for i := range tiers {
		if pct >= tiers[i].Min && pct <= tiers[i].Max {
			return &tiers[i]
		}
	}
	return nil
}

// buildInsights turns a score into the result tier's insight content. A score
// that matches no tier yields an empty list; validated catalogs cannot hit
// that path, so it only degrades unvalidated definitions.
func buildInsights(cfg *models.AssessmentConfig, scores *models.ScoreResult) []models.Insight {
	tier := selectTier(cfg.ResultTiers, scores.Percentage)
	if tier == nil {
		log.Printf("WARN: [Insights] No result tier matches percentage %d for assessment '%s'. Returning no insights.", scores.Percentage, cfg.ID)
		return []models.Insight{}
	}

	insights := []models.Insight{
		{Title: fmt.Sprintf("You're a %s", tier.Label), Message: tier.Description},
	}
	for _, msg := range tier.Insights {
		insights = append(insights, models.Insight{Title: tier.Label, Message: msg})
	}
	return insights
}

// buildVisualizationData produces the chart-agnostic gauge shape for a score.
// The frontend chart renderer consumes this as-is.
func buildVisualizationData(scores *models.ScoreResult) *models.VisualizationSpec {
	spec := &models.VisualizationSpec{
		ChartType: "gauge",
		Data: models.VisualizationData{
			Datasets: []models.VisualizationDataset{
				{Label: "Score", Data: []float64{float64(scores.Percentage)}},
			},
		},
	}

	// Category-based results additionally get a per-category series for radar
	// style rendering, in stable label order.
	if len(scores.CategoryScores) > 0 {
		labels := make([]string, 0, len(scores.CategoryScores))
		for category := range scores.CategoryScores {
			labels = append(labels, category)
		}
		sort.Strings(labels)

		data := make([]float64, 0, len(labels))
		for _, category := range labels {
			data = append(data, scores.CategoryScores[category].Score)
		}
		spec.Data.Labels = labels
		spec.Data.Datasets = append(spec.Data.Datasets, models.VisualizationDataset{
			Label: "Categories",
			Data:  data,
		})
	}
	return spec
}
