package usecase

import "facility-kpi-service/internal/kpi/core/domain"

// GroupByUser splits a flat record list per user, keeping first-seen order.
// The display name is the first non-empty UserName of the user, or the user
// id when none is set.
func GroupByUser(records []domain.DailyRecord) []domain.UserRecords {
	index := make(map[string]int)
	var users []domain.UserRecords

	for _, r := range records {
		i, ok := index[r.UserID]
		if !ok {
			i = len(users)
			index[r.UserID] = i
			users = append(users, domain.UserRecords{UserID: r.UserID})
		}
		if users[i].DisplayName == "" && r.UserName != "" {
			users[i].DisplayName = r.UserName
		}
		users[i].DailyRecords = append(users[i].DailyRecords, r)
	}

	for i := range users {
		if users[i].DisplayName == "" {
			users[i].DisplayName = users[i].UserID
		}
	}
	return users
}

// CountContradictory counts records flagged both completed and empty.
func CountContradictory(records []domain.DailyRecord) int {
	n := 0
	for _, r := range records {
		if r.Contradictory() {
			n++
		}
	}
	return n
}
