package checklist

import (
	"math"

	"proposal-engine/internal/models"
)

const (
	requiredWeight = 80.0
	optionalWeight = 20.0
)

// ScoreCompletion weights required items at 80% and optional items at 20%.
// A group with no items contributes its full weight. canProceed depends on
// required items only.
func ScoreCompletion(items []models.ChecklistItem) (overallProgress int, canProceed bool) {
	var reqTotal, reqDone, optTotal, optDone int
	for _, item := range items {
		if item.Required {
			reqTotal++
			if item.Completed {
				reqDone++
			}
			continue
		}
		optTotal++
		if item.Completed {
			optDone++
		}
	}

	requiredScore := requiredWeight
	if reqTotal > 0 {
		requiredScore = float64(reqDone) / float64(reqTotal) * requiredWeight
	}
	optionalScore := optionalWeight
	if optTotal > 0 {
		optionalScore = float64(optDone) / float64(optTotal) * optionalWeight
	}

	return int(math.Round(requiredScore + optionalScore)), reqDone == reqTotal
}

type ItemStatus string

const (
	ItemLocked    ItemStatus = "locked"
	ItemAvailable ItemStatus = "available"
	ItemComplete  ItemStatus = "complete"
)

type SectionStatus string

const (
	SectionAvailable  SectionStatus = "available"
	SectionInProgress SectionStatus = "in-progress"
	SectionComplete   SectionStatus = "complete"
)

// BlockedBy returns the item's incomplete dependencies in declaration order.
// A dependency missing from the section counts as incomplete.
func BlockedBy(items []models.ChecklistItem, item models.ChecklistItem) []string {
	completed := make(map[string]bool, len(items))
	for _, it := range items {
		completed[it.ID] = it.Completed
	}
	var blocked []string
	for _, dep := range item.Dependencies {
		if !completed[dep] {
			blocked = append(blocked, dep)
		}
	}
	return blocked
}

// ItemState derives locked/available/complete for one item.
func ItemState(items []models.ChecklistItem, item models.ChecklistItem) ItemStatus {
	switch {
	case item.Completed:
		return ItemComplete
	case len(BlockedBy(items, item)) > 0:
		return ItemLocked
	default:
		return ItemAvailable
	}
}

// SectionState is complete when every required item is done, in-progress when
// some are, and available otherwise.
func SectionState(progress *models.SectionProgress) SectionStatus {
	var reqTotal, reqDone int
	for _, item := range progress.Items {
		if !item.Required {
			continue
		}
		reqTotal++
		if item.Completed {
			reqDone++
		}
	}
	switch {
	case reqDone == reqTotal:
		return SectionComplete
	case reqDone > 0:
		return SectionInProgress
	default:
		return SectionAvailable
	}
}
