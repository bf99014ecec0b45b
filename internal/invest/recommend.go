package invest

import "microvest/internal/domain" // Asset catalog entries

// DefaultRecommendCount is how many assets an auto-recommendation returns
const DefaultRecommendCount = 3

// Recommend picks up to count assets for a risk profile: assets whose risk
// level matches come first in catalog order, padded with other risk levels
// in catalog order when there are not enough matches. Deterministic for a
// fixed catalog order.
func Recommend(riskProfile string, catalog []domain.PortfolioOption, count int) []domain.PortfolioOption {
	if count <= 0 {
		count = DefaultRecommendCount // Fall back to the default
	}
	matched := make([]domain.PortfolioOption, 0, count)
	// Take matching-risk assets first
	for _, option := range catalog {
		if option.RiskLevel == riskProfile {
			matched = append(matched, option)
		}
	}
	// Pad with other risk levels until count is reached
	if len(matched) < count {
		for _, option := range catalog {
			if option.RiskLevel != riskProfile {
				matched = append(matched, option)
				if len(matched) == count {
					break
				}
			}
		}
	}
	// Truncate to count
	if len(matched) > count {
		matched = matched[:count]
	}
	return matched
}
