package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JBE10/lifeops/models"
)

func TestKeyResultProgress(t *testing.T) {
	tests := []struct {
		name string
		kr   models.KeyResult
		want float64
	}{
		{"halfway", models.KeyResult{StartValue: 0, TargetValue: 10, CurrentValue: 5}, 50},
		{"from non-zero start", models.KeyResult{StartValue: 20, TargetValue: 120, CurrentValue: 45}, 25},
		{"overshoot clamps", models.KeyResult{StartValue: 0, TargetValue: 10, CurrentValue: 15}, 100},
		{"below start clamps", models.KeyResult{StartValue: 10, TargetValue: 20, CurrentValue: 5}, 0},
		{"decreasing target", models.KeyResult{StartValue: 100, TargetValue: 80, CurrentValue: 90}, 50},
		{"empty range is done", models.KeyResult{StartValue: 5, TargetValue: 5, CurrentValue: 0}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyResultProgress(tt.kr); got != tt.want {
				t.Errorf("KeyResultProgress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOKRProgressAveragesAndRounds(t *testing.T) {
	if got := OKRProgress(nil); got != 0 {
		t.Errorf("no key results = %d, want 0", got)
	}

	krs := []models.KeyResult{
		{TargetValue: 3, CurrentValue: 1},
		{TargetValue: 10, CurrentValue: 10},
		{TargetValue: 10, CurrentValue: 0},
	}
	// (33.33 + 100 + 0) / 3 = 44.44
	if got := OKRProgress(krs); got != 44 {
		t.Errorf("OKRProgress = %d, want 44", got)
	}
}

func TestOKRLifecycle(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	target := func(v float64) *float64 { return &v }
	okr, err := env.okrs.Create(ctx, "owner-1", OKRInput{
		Objective: "Get fit",
		Quarter:   "q1",
		Year:      2026,
		KeyResults: []KeyResultInput{
			{Title: "Run 100 km", TargetValue: target(100), Unit: "km"},
			{Title: "Lose weight", StartValue: 80, CurrentValue: 80, TargetValue: target(75)},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if okr.Quarter != "Q1" || okr.Status != models.OKRDraft || okr.Progress != 0 {
		t.Errorf("created = %+v", okr)
	}
	if len(okr.KeyResults) != 2 || okr.KeyResults[0].ID == "" || okr.KeyResults[1].Unit != models.DefaultKeyResultUnit {
		t.Fatalf("key results = %+v", okr.KeyResults)
	}

	updated, err := env.okrs.UpdateKeyResult(ctx, "owner-1", okr.ID, okr.KeyResults[0].ID, 50)
	if err != nil {
		t.Fatalf("UpdateKeyResult: %v", err)
	}
	if updated.Progress != 25 {
		t.Errorf("progress = %d, want 25", updated.Progress)
	}

	got, err := env.okrs.Get(ctx, "owner-1", okr.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.KeyResults[0].CurrentValue != 50 || got.Progress != 25 {
		t.Errorf("stored = %+v", got)
	}

	if _, err := env.okrs.UpdateKeyResult(ctx, "owner-1", okr.ID, "missing", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing key result err = %v, want ErrNotFound", err)
	}
	if _, err := env.okrs.UpdateKeyResult(ctx, "owner-2", okr.ID, okr.KeyResults[0].ID, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign okr err = %v, want ErrNotFound", err)
	}

	// Repeating an id keeps that key result; omitting one drops it.
	keep := KeyResultPatch{ID: okr.KeyResults[0].ID, KeyResultInput: KeyResultInput{Title: "Run 100 km", TargetValue: target(100), CurrentValue: 100}}
	status := models.OKRActive
	replaced, err := env.okrs.Update(ctx, "owner-1", okr.ID, OKRPatch{Status: &status, KeyResults: &[]KeyResultPatch{keep}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(replaced.KeyResults) != 1 || replaced.KeyResults[0].ID != okr.KeyResults[0].ID || replaced.Progress != 100 {
		t.Errorf("replaced = %+v", replaced)
	}

	empty := ""
	if _, err := env.okrs.Update(ctx, "owner-1", okr.ID, OKRPatch{Status: &empty}); !errors.Is(err, ErrValidation) {
		t.Errorf("cleared status err = %v, want ErrValidation", err)
	}
}

func TestOKRValidationAndFilters(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	bad := []OKRInput{
		{Quarter: "Q1", Year: 2026},
		{Objective: "x", Quarter: "Q5", Year: 2026},
		{Objective: "x", Quarter: "Q1"},
		{Objective: "x", Quarter: "Q1", Year: 2026, KeyResults: []KeyResultInput{{Title: "no target"}}},
	}
	for _, in := range bad {
		if _, err := env.okrs.Create(ctx, "owner-1", in); !errors.Is(err, ErrValidation) {
			t.Errorf("Create(%+v) err = %v, want ErrValidation", in, err)
		}
	}

	for _, in := range []OKRInput{
		{Objective: "a", Quarter: "Q1", Year: 2025},
		{Objective: "b", Quarter: "Q2", Year: 2026},
		{Objective: "c", Quarter: "Q1", Year: 2026, Status: models.OKRActive},
	} {
		if _, err := env.okrs.Create(ctx, "owner-1", in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := env.okrs.List(ctx, "owner-1", OKRQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	order := []string{"b", "c", "a"}
	if len(all) != len(order) {
		t.Fatalf("got %d okrs", len(all))
	}
	for i, o := range all {
		if o.Objective != order[i] {
			t.Errorf("all[%d] = %s, want %s", i, o.Objective, order[i])
		}
	}

	q1, err := env.okrs.List(ctx, "owner-1", OKRQuery{Quarter: "q1", Year: 2026})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(q1) != 1 || q1[0].Objective != "c" {
		t.Errorf("Q1 2026 = %+v", q1)
	}
}
