package service

import (
	"testing"

	"github.com/adminsolds/milktea-program-sub000/internal/models"
)

func levelTable() []models.MemberLevel {
	return []models.MemberLevel{
		{LevelID: "normal", GrowthRequired: 0},
		{LevelID: "silver", GrowthRequired: 500},
		{LevelID: "gold", GrowthRequired: 2000},
	}
}

func TestEvaluateLevel(t *testing.T) {
	cases := []struct {
		growth int
		want   string
	}{
		{growth: 0, want: "normal"},
		{growth: 499, want: "normal"},
		{growth: 500, want: "silver"},
		{growth: 1999, want: "silver"},
		{growth: 2000, want: "gold"},
		{growth: 99999, want: "gold"},
	}
	for _, tc := range cases {
		got := EvaluateLevel(tc.growth, levelTable())
		if got == nil {
			t.Fatalf("growth=%d expected level %s, got nil", tc.growth, tc.want)
		}
		if got.LevelID != tc.want {
			t.Fatalf("growth=%d level want %s got %s", tc.growth, tc.want, got.LevelID)
		}
	}
}

func TestEvaluateLevelEmptyTable(t *testing.T) {
	if got := EvaluateLevel(100, nil); got != nil {
		t.Fatalf("empty level table should return nil, got %s", got.LevelID)
	}
}

func TestEvaluateLevelNoBaseLevel(t *testing.T) {
	levels := []models.MemberLevel{
		{LevelID: "silver", GrowthRequired: 500},
	}
	if got := EvaluateLevel(100, levels); got != nil {
		t.Fatalf("growth below lowest threshold should return nil, got %s", got.LevelID)
	}
}
