// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestAPIResponseEnvelope(t *testing.T) {
	t.Parallel()

	resp := APIResponse{
		Status:   StatusSuccess,
		Data:     []int{1, 2},
		Metadata: Metadata{Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got := string(data)
	for _, want := range []string{
		`"status":"success"`,
		`"data":[1,2]`,
		`"query_time_ms":0`,
		`"cached":false`,
		`"timestamp":"2026-01-02T03:04:05Z"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("envelope %s missing %s", got, want)
		}
	}
	if strings.Contains(got, `"error"`) || strings.Contains(got, `"count"`) {
		t.Errorf("envelope %s should omit error and count", got)
	}
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	e := NewAPIError(ErrCodeValidation, "limit must be positive").WithDetail("field", "limit")
	if e.Error() != "VALIDATION_ERROR: limit must be positive" {
		t.Errorf("Error() = %q", e.Error())
	}

	data, err := json.Marshal(APIResponse{Status: StatusError, Error: e})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"details":{"field":"limit"}`) {
		t.Errorf("details missing: %s", data)
	}
	if !strings.Contains(string(data), `"data":null`) {
		t.Errorf("data should be null: %s", data)
	}
}
