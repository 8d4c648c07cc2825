package staking

import (
	"time"

	"github.com/sorayia-labs/stakectl/pkg/types"
)

// CalculateTimeLeft breaks the span between now and lockEnd into whole
// days, hours, minutes and seconds, flooring to the second. An expired
// or unset lock yields the zero value.
func CalculateTimeLeft(lockEnd, now time.Time) types.TimeLeft {
	if lockEnd.IsZero() || !lockEnd.After(now) {
		return types.TimeLeft{}
	}

	total := int64(lockEnd.Sub(now) / time.Second)
	return types.TimeLeft{
		Days:    int(total / 86400),
		Hours:   int(total % 86400 / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}
