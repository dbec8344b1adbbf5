package evidence

import (
	"time"

	"veritas/internal/evidence/models"
	dErrors "veritas/pkg/domain-errors"
)

// retentionYears is the fixed policy table. Year policies use calendar
// arithmetic so retention_end = sealed_at + duration(policy) exactly,
// independent of leap years and of when the computation runs.
var retentionYears = map[models.RetentionPolicy]int{
	models.RetentionOneYear:    1,
	models.RetentionThreeYears: 3,
	models.RetentionSevenYears: 7,
	models.RetentionTenYears:   10,
}

// RetentionEnd computes the retention deadline for evidence sealed at
// sealedAt. It is a pure function of its inputs; it is evaluated once at
// seal time and the result is stored, never recomputed.
func RetentionEnd(policy models.RetentionPolicy, customDays int, sealedAt time.Time) (time.Time, error) {
	if years, ok := retentionYears[policy]; ok {
		return sealedAt.AddDate(years, 0, 0), nil
	}
	if policy == models.RetentionCustomDays {
		if customDays <= 0 {
			return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "custom retention requires a positive day count")
		}
		return sealedAt.AddDate(0, 0, customDays), nil
	}
	return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "unknown retention policy: "+string(policy))
}
