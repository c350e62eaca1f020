package service

import "rideshare/internal/domain"

// ComputeFare calculates the fare for a ride of the given distance under a
// fare rule. Rides shorter than the rule's minimum fare distance cost the
// flat minimum fare; everything beyond it is metered per kilometre on top of
// the base fare. No rounding is applied; callers choose currency precision.
func ComputeFare(distanceKm float64, rule *domain.FareRule) (float64, error) {
	if rule == nil {
		return 0, ErrMissingFareRule
	}
	if distanceKm <= 0 {
		return 0, ErrInvalidDistance
	}

	if distanceKm < rule.MinFareDistance {
		return rule.MinFareAmount, nil
	}

	return rule.BaseFare + (distanceKm-rule.MinFareDistance)*rule.PerKmRate, nil
}

// ValidateFareRule checks that a rule's pricing fields are usable.
func ValidateFareRule(rule *domain.FareRule) error {
	if rule.BaseFare <= 0 || rule.MinFareDistance <= 0 || rule.MinFareAmount <= 0 || rule.PerKmRate <= 0 {
		return ErrInvalidFareRule
	}
	return nil
}
