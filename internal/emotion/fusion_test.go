package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saarthi-labs/saarthi/internal/models"
)

const floatTolerance = 1e-9

func localResult(emotion string, confidence float64, scores map[string]float64) models.ClassificationResult {
	return models.ClassificationResult{
		Emotion:    emotion,
		Confidence: confidence,
		Scores:     scores,
		Model:      "bilstm-local",
	}
}

func remoteResult(emotion string, confidence float64, scores map[string]float64) models.ClassificationResult {
	return models.ClassificationResult{
		Emotion:    emotion,
		Confidence: confidence,
		Scores:     scores,
		Model:      "huggingface",
	}
}

func TestCombine_SingleModelPassthrough(t *testing.T) {
	f := NewFuser(DefaultFusionConfig())
	degraded := models.DegradedResult("bilstm-local", "session init failed")
	remote := remoteResult("sad", 0.85, map[string]float64{"sad": 0.85, "neutral": 0.1})

	fused := f.Combine(degraded, remote)

	assert.Equal(t, "sad", fused.Emotion)
	assert.Equal(t, 0.85, fused.Confidence)
	assert.Equal(t, models.StrategySingleModel, fused.Strategy)
	assert.Equal(t, []string{"huggingface"}, fused.ModelsUsed)
	assert.Equal(t, map[string]float64{"sad": 0.85, "neutral": 0.1}, fused.Scores)
}

func TestCombine_BothFailed(t *testing.T) {
	f := NewFuser(DefaultFusionConfig())
	fused := f.Combine(
		models.DegradedResult("bilstm-local", "model missing"),
		models.DegradedResult("huggingface", "timeout"),
	)

	assert.Equal(t, "neutral", fused.Emotion)
	assert.Equal(t, 0.5, fused.Confidence)
	assert.Equal(t, models.StrategyFallback, fused.Strategy)
	assert.Empty(t, fused.ModelsUsed)
}

func TestCombine_AgreementWeighting(t *testing.T) {
	f := NewFuser(DefaultFusionConfig())
	local := localResult("happy", 0.9, map[string]float64{"happy": 0.9, "neutral": 0.05})
	remote := remoteResult("happy", 0.8, map[string]float64{"happy": 0.8, "neutral": 0.1})

	fused := f.Combine(local, remote)

	require.Equal(t, models.StrategyWeighted, fused.Strategy)
	assert.Equal(t, "happy", fused.Emotion)
	// (0.9*0.2 + 0.8*0.8) / (0.2+0.8) = 0.82, weights un-penalized.
	assert.InDelta(t, 0.82, fused.Scores["happy"], floatTolerance)
	assert.Equal(t, []string{"bilstm-local", "huggingface"}, fused.ModelsUsed)
}

func TestCombine_DisagreementPenalizesLocalWeight(t *testing.T) {
	f := NewFuser(DefaultFusionConfig())
	local := localResult("angry", 0.7, map[string]float64{"angry": 0.7, "happy": 0.1})
	remote := remoteResult("happy", 0.8, map[string]float64{"happy": 0.8, "angry": 0.05})

	fused := f.Combine(local, remote)

	// Local weight becomes 0.2*0.1 = 0.02.
	wantAngry := (0.7*0.02 + 0.05*0.8) / (0.02 + 0.8)
	wantHappy := (0.1*0.02 + 0.8*0.8) / (0.02 + 0.8)
	assert.InDelta(t, wantAngry, fused.Scores["angry"], floatTolerance)
	assert.InDelta(t, wantHappy, fused.Scores["happy"], floatTolerance)
	assert.Equal(t, "happy", fused.Emotion, "penalized minority model cannot win")
}

func TestCombine_NormalizesRawLabels(t *testing.T) {
	f := NewFuser(DefaultFusionConfig())
	// The hosted model speaks joy/sadness/anger; fusion must compare on the
	// canonical vocabulary, so these two actually agree.
	local := localResult("happy", 0.9, map[string]float64{"happy": 0.9})
	remote := remoteResult("joy", 0.8, map[string]float64{"joy": 0.8, "sadness": 0.1})

	fused := f.Combine(local, remote)

	assert.Equal(t, "happy", fused.Emotion)
	assert.InDelta(t, 0.82, fused.Scores["happy"], floatTolerance, "agreement weights applied")
	assert.Contains(t, fused.Scores, "sad")
	assert.NotContains(t, fused.Scores, "joy")
}

func TestCombine_MissingLabelsScoreZero(t *testing.T) {
	f := NewFuser(DefaultFusionConfig())
	local := localResult("fear", 0.6, map[string]float64{"fear": 0.6})
	remote := remoteResult("fear", 0.7, map[string]float64{"fear": 0.7, "surprise": 0.2})

	fused := f.Combine(local, remote)

	// surprise only exists on the remote side: (0*0.2 + 0.2*0.8) / 1.0
	assert.InDelta(t, 0.16, fused.Scores["surprise"], floatTolerance)
}

func TestCombine_TieBreakIsStable(t *testing.T) {
	f := NewFuser(FusionConfig{LocalWeight: 0.5, RemoteWeight: 0.5, DisagreementPenalty: 1})
	local := localResult("sad", 0.6, map[string]float64{"sad": 0.6, "fear": 0.6})
	remote := remoteResult("sad", 0.6, map[string]float64{"sad": 0.6, "fear": 0.6})

	for i := 0; i < 50; i++ {
		fused := f.Combine(local, remote)
		// fear precedes sad in the canonical order, so the exact tie always
		// resolves to fear regardless of map iteration order.
		assert.Equal(t, "fear", fused.Emotion)
	}
}

func TestCombine_IndividualResultsCarried(t *testing.T) {
	f := NewFuser(DefaultFusionConfig())
	local := localResult("anger", 0.7, map[string]float64{"anger": 0.7})
	remote := remoteResult("joy", 0.8, map[string]float64{"joy": 0.8})

	fused := f.Combine(local, remote)

	require.NotNil(t, fused.Individual)
	assert.Equal(t, "angry", fused.Individual.Local.Emotion, "votes shown normalized")
	assert.Equal(t, 0.7, fused.Individual.Local.Confidence)
	assert.Equal(t, "happy", fused.Individual.Remote.Emotion)
}
