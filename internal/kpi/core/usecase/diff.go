package usecase

import (
	"math"

	"facility-kpi-service/internal/kpi/core/domain"
)

// rateTolerance is compared with a strict >. Rates are float64, so a
// difference of exactly 0.01 may land on either side depending on how the
// two values are represented.
const rateTolerance = 0.01

// ShouldUpdate reports whether a persisted summary is stale compared to a
// freshly built one. Display name, timestamps and entry dates are ignored.
func ShouldUpdate(existing, updated domain.MonthlySummary) bool {
	a, b := existing.Kpi, updated.Kpi
	if a.CompletedRows != b.CompletedRows ||
		a.InProgressRows != b.InProgressRows ||
		a.EmptyRows != b.EmptyRows ||
		a.SpecialNotes != b.SpecialNotes ||
		a.Incidents != b.Incidents {
		return true
	}
	return math.Abs(existing.CompletionRate-updated.CompletionRate) > rateTolerance
}
