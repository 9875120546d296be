package inquiry

import "github.com/sweetpotato0/sleuth/evidence"

// confidenceForCount maps an accepted-evidence count onto a confidence label
// using the configured thresholds. Used only on the forced-completion path;
// a collaborator-submitted answer keeps whatever label it carried.
func confidenceForCount(count, medium, high int) evidence.Confidence {
	switch {
	case count <= 0:
		return evidence.ConfidenceLow
	case count >= high:
		return evidence.ConfidenceHigh
	case count >= medium:
		return evidence.ConfidenceMedium
	default:
		return evidence.ConfidenceLow
	}
}
