package scheduling

import (
	"fmt"
	"time"
)

// NewPlanID derives a plan id from the solve instant and the request that
// produced it: PLAN-{YYYYMMDD-HHMMSS}-{request_id[:8]}.
func NewPlanID(now time.Time, requestID string) string {
	tag := requestID
	if len(tag) > 8 {
		tag = tag[:8]
	}
	return fmt.Sprintf("PLAN-%s-%s", now.UTC().Format("20060102-150405"), tag)
}
