// internal/workers/checklist/can-complete-item/models.go
package cancompleteitem

import "proposal-engine/internal/engine/checklist"

type Input struct {
	SessionID string `json:"sessionId"`
	SectionID string `json:"sectionId"`
	ItemID    string `json:"itemId"`
}

type Output struct {
	CanComplete bool                 `json:"canComplete"`
	ItemState   checklist.ItemStatus `json:"itemState,omitempty"`
	BlockedBy   []string             `json:"blockedBy"`
}
