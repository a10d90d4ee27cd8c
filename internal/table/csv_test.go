// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const customersCSV = "customer_id,customer_name,mobile_number,region\nC1,Alice,100,north\nC2,Bob,200,south\n"

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.csv")
	if err := os.WriteFile(path, []byte(customersCSV), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	tb, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(tb.Columns) != 4 || tb.Columns[0] != "customer_id" {
		t.Fatalf("unexpected columns: %v", tb.Columns)
	}
	if tb.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tb.Len())
	}
	if tb.Rows[1][1] != "Bob" {
		t.Fatalf("unexpected cell: %v", tb.Rows[1][1])
	}
}

func TestReadCSV_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.csv.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(customersCSV)); err != nil {
		t.Fatalf("failed to write gzip fixture: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close fixture: %v", err)
	}

	tb, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV failed on gzip input: %v", err)
	}
	if tb.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tb.Len())
	}
}

func TestReadCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := ReadCSV(path); err == nil {
		t.Fatalf("expected error for empty input")
	}
}
