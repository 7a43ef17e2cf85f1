package document

// CompletionStats summarizes how far a set of Documents covers the required Types.
type CompletionStats struct {
	Total         int    `json:"total_documents"`
	Completed     int    `json:"completed_documents"`
	TotalRequired int    `json:"total_required"`
	MissingTypes  []Type `json:"missing_types"`
	Percentage    int    `json:"percentage"`
}

// ComputeCompletion counts the required Types having at least one Document.
// Types outside of required are ignored; MissingTypes keeps the order of required.
func ComputeCompletion(required []Type, docs []Document) CompletionStats {
	present := make(map[Type]bool, len(docs))
	for _, doc := range docs {
		present[doc.Type] = true
	}

	stats := CompletionStats{
		Total:         len(docs),
		TotalRequired: len(required),
		MissingTypes:  make([]Type, 0),
	}
	for _, t := range required {
		if present[t] {
			stats.Completed++
		} else {
			stats.MissingTypes = append(stats.MissingTypes, t)
		}
	}
	stats.Percentage = percentage(stats.Completed, stats.TotalRequired)
	return stats
}

// percentage rounds part/total*100 half up; 0 when total is 0.
func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (part*200 + total) / (2 * total)
}

// Level buckets a completion percentage for display.
type Level string

const (
	LevelComplete   Level = "complete"
	LevelNearly     Level = "nearly"
	LevelIncomplete Level = "incomplete"
)

func CompletionLevel(pct int) Level {
	switch {
	case pct >= 100:
		return LevelComplete
	case pct >= 70:
		return LevelNearly
	default:
		return LevelIncomplete
	}
}

// Stats counts Documents per Status and per Type.
type Stats struct {
	Total    int          `json:"total"`
	Pending  int          `json:"pending"`
	Approved int          `json:"approved"`
	Rejected int          `json:"rejected"`
	ByType   map[Type]int `json:"by_type"`
}

func ComputeStats(docs []Document) Stats {
	stats := Stats{Total: len(docs), ByType: make(map[Type]int)}
	for _, doc := range docs {
		switch doc.Status {
		case StatusPending:
			stats.Pending++
		case StatusApproved:
			stats.Approved++
		case StatusRejected:
			stats.Rejected++
		}
		stats.ByType[doc.Type]++
	}
	return stats
}
