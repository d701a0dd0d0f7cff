package usecase_test

import (
	"testing"

	"facility-kpi-service/internal/kpi/core/domain"
	"facility-kpi-service/internal/kpi/core/usecase"
)

func TestGroupByUser(t *testing.T) {
	records := []domain.DailyRecord{
		{UserID: "u2", RecordDate: "2024-01-02"},
		{UserID: "u1", UserName: "Alice", RecordDate: "2024-01-02"},
		{UserID: "u2", UserName: "Bob", RecordDate: "2024-01-03"},
		{UserID: "u1", UserName: "Alice B.", RecordDate: "2024-01-03"},
		{UserID: "u3", RecordDate: "2024-01-03"},
	}

	users := usecase.GroupByUser(records)

	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	if users[0].UserID != "u2" || users[1].UserID != "u1" || users[2].UserID != "u3" {
		t.Fatalf("expected first-seen order, got %s %s %s", users[0].UserID, users[1].UserID, users[2].UserID)
	}
	if users[0].DisplayName != "Bob" {
		t.Errorf("expected first non-empty name Bob, got %q", users[0].DisplayName)
	}
	if users[1].DisplayName != "Alice" {
		t.Errorf("expected Alice, got %q", users[1].DisplayName)
	}
	if users[2].DisplayName != "u3" {
		t.Errorf("expected fallback to user id, got %q", users[2].DisplayName)
	}
	if len(users[0].DailyRecords) != 2 || len(users[1].DailyRecords) != 2 || len(users[2].DailyRecords) != 1 {
		t.Fatalf("unexpected record split: %+v", users)
	}
}

func TestGroupByUser_Empty(t *testing.T) {
	if users := usecase.GroupByUser(nil); len(users) != 0 {
		t.Fatalf("expected no users, got %d", len(users))
	}
}

func TestCountContradictory(t *testing.T) {
	records := []domain.DailyRecord{
		{Completed: true, IsEmpty: true},
		{Completed: true},
		{IsEmpty: true},
		{Completed: true, IsEmpty: true},
	}
	if n := usecase.CountContradictory(records); n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}
}
