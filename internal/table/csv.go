// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ReadCSV reads a headered CSV file into a Table. The first record becomes
// the column list; every cell stays a string, coercion happens in the loaders.
// Files ending in .gz are decompressed on the fly.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip input %s: %w", path, err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	return readCSV(r, path)
}

func readCSV(r io.Reader, name string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // arity is checked per row below

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("input %s is empty", name)
		}
		return nil, fmt.Errorf("failed to read header from %s: %w", name, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := New(header...)
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		line++
		cells := make([]any, len(record))
		for i, v := range record {
			cells[i] = v
		}
		if err := t.AppendRow(cells...); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
	}
	return t, nil
}
