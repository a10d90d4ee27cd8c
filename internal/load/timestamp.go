// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

package load

import (
	"fmt"
	"time"
)

// naiveLayouts are the accepted wall-clock formats without a zone marker.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeTimestamp converts a cell value into the naive-UTC convention the
// orders_fact table stores: timezone-aware values are converted to UTC,
// values without zone information are taken as UTC wall-clock unchanged.
// Naive values that actually carry local time are treated as pre-validated
// upstream.
func NormalizeTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed.UTC(), nil
		}
		for _, layout := range naiveLayouts {
			if parsed, err := time.ParseInLocation(layout, t, time.UTC); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", t)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}
