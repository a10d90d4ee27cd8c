// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

package load

import "testing"

func TestCellInt64(t *testing.T) {
	if got, err := cellInt64(" 100 "); err != nil || got != 100 {
		t.Fatalf("string cell: got %d, %v", got, err)
	}
	if got, err := cellInt64(float64(100)); err != nil || got != 100 {
		t.Fatalf("integral float cell: got %d, %v", got, err)
	}
	if _, err := cellInt64(100.7); err == nil {
		t.Fatalf("fractional float must be rejected, not truncated")
	}
	if _, err := cellInt64("abc"); err == nil {
		t.Fatalf("expected error for non-numeric string")
	}
	if _, err := cellInt64(struct{}{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestCellFloat64(t *testing.T) {
	if got, err := cellFloat64("10.50"); err != nil || got != 10.50 {
		t.Fatalf("string cell: got %v, %v", got, err)
	}
	if got, err := cellFloat64(3); err != nil || got != 3 {
		t.Fatalf("int cell: got %v, %v", got, err)
	}
	if _, err := cellFloat64("abc"); err == nil {
		t.Fatalf("expected error for non-numeric string")
	}
}
