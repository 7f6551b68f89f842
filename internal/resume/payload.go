package resume

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/davidpaquet/ccsession/internal/model"
)

// maxSafeInteger is the largest integer a float64 holds exactly (2^53).
const maxSafeInteger = 1 << 53

// DecodeActionData validates and decodes a resume payload. Every field is
// required: sessionId, sessionFilePath and projectPath as strings, startTime
// and endTime as numbers of milliseconds.
func DecodeActionData(data []byte) (model.ActionData, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return model.ActionData{}, fmt.Errorf("action data: %w", err)
	}
	if obj == nil {
		return model.ActionData{}, fmt.Errorf("action data: must be an object")
	}

	var ad model.ActionData
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"sessionId", &ad.SessionID},
		{"sessionFilePath", &ad.SessionFilePath},
		{"projectPath", &ad.ProjectPath},
	} {
		s, ok := obj[f.key].(string)
		if !ok {
			return model.ActionData{}, fmt.Errorf("action data: %q must be a string", f.key)
		}
		*f.dst = s
	}
	for _, f := range []struct {
		key string
		dst *int64
	}{
		{"startTime", &ad.StartTime},
		{"endTime", &ad.EndTime},
	} {
		n, ok := obj[f.key].(float64)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return model.ActionData{}, fmt.Errorf("action data: %q must be a number", f.key)
		}
		if n != math.Trunc(n) || math.Abs(n) > maxSafeInteger {
			return model.ActionData{}, fmt.Errorf("action data: %q must be an integer within ±2^53", f.key)
		}
		*f.dst = int64(n)
	}
	return ad, nil
}
