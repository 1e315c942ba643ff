package emotion

import (
	"sort"

	"github.com/saarthi-labs/saarthi/internal/models"
)

// FusionConfig carries the hand-tuned trust weights. The remote transformer
// dominates by design; on dominant-label disagreement the local model's
// weight is further multiplied by the penalty.
type FusionConfig struct {
	LocalWeight         float64
	RemoteWeight        float64
	DisagreementPenalty float64
}

func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		LocalWeight:         0.2,
		RemoteWeight:        0.8,
		DisagreementPenalty: 0.1,
	}
}

// Fuser combines the two classifier outputs into one decision. Combine is
// pure and never fails; upstream failures are classified into the
// single-model and fallback branches instead.
type Fuser struct {
	cfg FusionConfig
}

func NewFuser(cfg FusionConfig) *Fuser {
	return &Fuser{cfg: cfg}
}

func (f *Fuser) Combine(local, remote models.ClassificationResult) models.FusedResult {
	switch {
	case local.UsedFallback && remote.UsedFallback:
		return models.FusedResult{
			Emotion:    "neutral",
			Confidence: 0.5,
			Scores:     map[string]float64{"neutral": 0.5},
			ModelsUsed: []string{},
			Strategy:   models.StrategyFallback,
		}
	case local.UsedFallback:
		return passthrough(remote)
	case remote.UsedFallback:
		return passthrough(local)
	}

	localEmotion := Normalize(local.Emotion)
	remoteEmotion := Normalize(remote.Emotion)

	localWeight := f.cfg.LocalWeight
	remoteWeight := f.cfg.RemoteWeight
	if localEmotion != remoteEmotion {
		localWeight *= f.cfg.DisagreementPenalty
	}

	localScores := normalizeScores(local.Scores)
	remoteScores := normalizeScores(remote.Scores)

	combined := make(map[string]float64)
	dominant := ""
	best := -1.0
	for _, label := range unionLabels(localScores, remoteScores) {
		score := (localScores[label]*localWeight + remoteScores[label]*remoteWeight) /
			(localWeight + remoteWeight)
		combined[label] = score
		// Strict greater-than keeps the first-seen label on exact ties.
		if score > best {
			best = score
			dominant = label
		}
	}

	return models.FusedResult{
		Emotion:    dominant,
		Confidence: combined[dominant],
		Scores:     combined,
		ModelsUsed: []string{local.Model, remote.Model},
		Strategy:   models.StrategyWeighted,
		Individual: &models.IndividualResults{
			Local:  models.ModelVote{Model: local.Model, Emotion: localEmotion, Confidence: local.Confidence},
			Remote: models.ModelVote{Model: remote.Model, Emotion: remoteEmotion, Confidence: remote.Confidence},
		},
	}
}

func passthrough(r models.ClassificationResult) models.FusedResult {
	return models.FusedResult{
		Emotion:    Normalize(r.Emotion),
		Confidence: r.Confidence,
		Scores:     normalizeScores(r.Scores),
		ModelsUsed: []string{r.Model},
		Strategy:   models.StrategySingleModel,
	}
}

// normalizeScores maps raw model labels onto the canonical set. If two raw
// labels collapse onto the same canonical label the higher score wins.
func normalizeScores(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for label, score := range scores {
		canonical := Normalize(label)
		if existing, ok := out[canonical]; !ok || score > existing {
			out[canonical] = score
		}
	}
	return out
}

// unionLabels returns every label present in either score map in a stable
// order: canonical labels first in their fixed order, then any open-world
// labels sorted alphabetically. This fixes the tie-break behavior that map
// iteration would otherwise leave unspecified.
func unionLabels(a, b map[string]float64) []string {
	present := func(label string) bool {
		_, inA := a[label]
		_, inB := b[label]
		return inA || inB
	}

	labels := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool)
	for _, label := range CanonicalLabels {
		if present(label) {
			labels = append(labels, label)
			seen[label] = true
		}
	}

	var extras []string
	for label := range a {
		if !seen[label] {
			extras = append(extras, label)
			seen[label] = true
		}
	}
	for label := range b {
		if !seen[label] {
			extras = append(extras, label)
			seen[label] = true
		}
	}
	sort.Strings(extras)

	return append(labels, extras...)
}
