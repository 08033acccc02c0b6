package services

import (
	"log"
	"math"

	"galaxykiro/models"
)

// rawScore returns the unweighted score a response earns on its question, and
// whether the question contributes to scoring at all. Text questions and
// answers that match no option are unscoreable.
func rawScore(q *models.Question, answer interface{}) (float64, bool) {
	switch q.Type {
	case models.QuestionTypeMultipleChoice:
		selected, ok := answer.(string)
		if !ok {
			return 0, false
		}
		for _, opt := range q.Options {
			if opt.Value == selected || opt.ID == selected {
				return opt.Score, true
			}
		}
		return 0, false
	case models.QuestionTypeScale:
		v, ok := toFloat(answer)
		if !ok {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// maxRawScore is the highest score attainable on a question.
func maxRawScore(q *models.Question) float64 {
	switch q.Type {
	case models.QuestionTypeMultipleChoice:
		var max float64
		for _, opt := range q.Options {
			if opt.Score > max {
				max = opt.Score
			}
		}
		return max
	case models.QuestionTypeScale:
		return q.Max
	default:
		return 0
	}
}

// questionWeight applies the default weight of 1 for unweighted questions.
func questionWeight(q *models.Question) float64 {
	if q.Weight <= 0 {
		return 1
	}
	return q.Weight
}

// toFloat normalizes the numeric answer encodings that reach the engine:
// native ints from Go callers and float64 from JSON decoding.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// percentage rounds total/max to the nearest whole percent. No fractional
// percentages are ever surfaced.
func percentage(total, max float64) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(total / max * 100))
}

// calculateScores computes the score of the given responses under the
// definition's scoring mode.
func calculateScores(cfg *models.AssessmentConfig, responses []models.ResponseRecord) *models.ScoreResult {
	answers := make(map[string]interface{}, len(responses))
	for _, resp := range responses {
		answers[resp.QuestionID] = resp.Answer
	}

	switch cfg.Scoring.Mode {
	case models.ScoringModeSimple:
		return scoreSimple(cfg, answers)
	case models.ScoringModeWeighted:
		return scoreWeighted(cfg, answers)
	case models.ScoringModeCategoryBased:
		return scoreCategoryBased(cfg, answers)
	default:
		log.Printf("WARN: [Scoring] Assessment '%s' has unknown scoring mode '%s'. Falling back to simple scoring.", cfg.ID, cfg.Scoring.Mode)
		return scoreSimple(cfg, answers)
	}
}

func scoreSimple(cfg *models.AssessmentConfig, answers map[string]interface{}) *models.ScoreResult {
	var total, maxTotal float64
	breakdown := make(map[string]float64)

	for i := range cfg.Questions {
		q := &cfg.Questions[i]
		maxTotal += maxRawScore(q)
		answer, answered := answers[q.ID]
		if !answered {
			continue
		}
		if score, ok := rawScore(q, answer); ok {
			total += score
			breakdown[q.ID] = score
		}
	}

	return &models.ScoreResult{
		Total:      total,
		Percentage: percentage(total, maxTotal),
		Breakdown:  breakdown,
	}
}

func scoreWeighted(cfg *models.AssessmentConfig, answers map[string]interface{}) *models.ScoreResult {
	var total, maxTotal float64
	breakdown := make(map[string]float64)

	for i := range cfg.Questions {
		q := &cfg.Questions[i]
		weight := questionWeight(q)
		maxTotal += maxRawScore(q) * weight
		answer, answered := answers[q.ID]
		if !answered {
			continue
		}
		if score, ok := rawScore(q, answer); ok {
			contribution := score * weight
			total += contribution
			breakdown[q.ID] = contribution
		}
	}

	return &models.ScoreResult{
		Total:      total,
		Percentage: percentage(total, maxTotal),
		Breakdown:  breakdown,
	}
}

func scoreCategoryBased(cfg *models.AssessmentConfig, answers map[string]interface{}) *models.ScoreResult {
	categoryWeights := make(map[string]float64, len(cfg.Scoring.Categories))
	for _, cat := range cfg.Scoring.Categories {
		weight := cat.Weight
		if weight <= 0 {
			weight = 1
		}
		categoryWeights[cat.ID] = weight
	}
	weightFor := func(category string) float64 {
		if w, ok := categoryWeights[category]; ok {
			return w
		}
		return 1 // Categories absent from the scoring config carry default weight
	}

	breakdown := make(map[string]float64)
	categoryScores := make(map[string]models.CategoryScore)
	categoryMax := make(map[string]float64)

	for i := range cfg.Questions {
		q := &cfg.Questions[i]
		if q.Category == "" {
			continue
		}
		categoryMax[q.Category] += maxRawScore(q)

		answer, answered := answers[q.ID]
		if !answered {
			continue
		}
		if score, ok := rawScore(q, answer); ok {
			breakdown[q.ID] = score
			cs := categoryScores[q.Category]
			cs.Score += score
			cs.Weight = weightFor(q.Category)
			categoryScores[q.Category] = cs
		}
	}

	var total, maxTotal float64
	for category, max := range categoryMax {
		maxTotal += max * weightFor(category)
	}
	for category, cs := range categoryScores {
		total += cs.Score * weightFor(category)
	}

	return &models.ScoreResult{
		Total:          total,
		Percentage:     percentage(total, maxTotal),
		Breakdown:      breakdown,
		CategoryScores: categoryScores,
	}
}
