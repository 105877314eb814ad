package workflow

// Stats summarizes an aggregated item list for dashboard-style display.
type Stats struct {
	Total       int
	Urgent      int
	NeedsReview int
	Failed      int
	Processing  int
	ByCategory  map[Category]int
	ByStatus    map[Status]int
}

// CalculateStats derives summary counts from an item list.
func CalculateStats(items []Item) Stats {
	stats := Stats{
		ByCategory: make(map[Category]int, len(allCategories)),
		ByStatus:   make(map[Status]int, len(allStatuses)),
	}
	for _, category := range allCategories {
		stats.ByCategory[category] = 0
	}
	for _, status := range allStatuses {
		stats.ByStatus[status] = 0
	}

	stats.Total = len(items)
	for _, item := range items {
		if item.Priority == PriorityUrgent {
			stats.Urgent++
		}
		if item.Status == StatusReviewing {
			stats.NeedsReview++
		}
		if item.Status == StatusFailed {
			stats.Failed++
		}
		if item.IsInFlight() {
			stats.Processing++
		}
		stats.ByCategory[item.Category]++
		stats.ByStatus[item.Status]++
	}
	return stats
}
