// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

// Cell coercion for tabular inputs. CSV ingestion produces strings; callers
// constructing tables programmatically may pass native Go values. Both forms
// are accepted here.
package load

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func cellString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", fmt.Errorf("expected string cell, got %T", v)
	}
}

func cellInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("invalid integer cell %v: fractional value", n)
		}
		return int64(n), nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid integer cell %q: %w", n, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("expected integer cell, got %T", v)
	}
}

func cellInt(v any) (int, error) {
	n, err := cellInt64(v)
	return int(n), err
}

func cellFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid numeric cell %q: %w", n, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("expected numeric cell, got %T", v)
	}
}
