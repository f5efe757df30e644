package scoring

import "strength-scanner/internal/types"

// Compose turns a security's dimension result into its composite score.
// Sentiment is applied at market level only, so the technical total passes
// through unchanged and the market band acts later, in the classifier.
func Compose(res *Result) (types.CompositeScore, error) {
	if res == nil {
		return types.CompositeScore{}, types.ErrMissingTechnicalScore
	}
	total := Clamp(res.Total, MinScore, MaxScore)
	return types.CompositeScore{
		Technical:       total,
		WeightTechnical: 1,
		Final:           total,
	}, nil
}
