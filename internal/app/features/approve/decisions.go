// internal/app/features/approve/decisions.go
package approve

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/facetoface/internal/domain/models"
)

const requestsField = "requests"

// parseDecisions collects requests[<userid>]=<code> pairs from a posted
// form. Keys must be positive user IDs and codes one of 0, 1, 2. A form
// without any requests[...] field yields an empty map.
func parseDecisions(form url.Values) (models.Decisions, error) {
	out := models.Decisions{}
	for key, vals := range form {
		if !strings.HasPrefix(key, requestsField+"[") {
			continue
		}
		if !strings.HasSuffix(key, "]") {
			return nil, fmt.Errorf("malformed field %q", key)
		}
		idStr := key[len(requestsField)+1 : len(key)-1]
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid user id in %q", key)
		}
		if len(vals) != 1 {
			return nil, fmt.Errorf("field %q posted %d times", key, len(vals))
		}
		d, err := models.ParseDecision(strings.TrimSpace(vals[0]))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		out[id] = d
	}
	return out, nil
}

// intParam reads an optional integer; anything unparsable counts as zero.
func intParam(form url.Values, name string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(form.Get(name)), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// boolParam accepts the usual truthy spellings of a checkbox or hidden flag.
func boolParam(form url.Values, name string) bool {
	switch strings.ToLower(strings.TrimSpace(form.Get(name))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
