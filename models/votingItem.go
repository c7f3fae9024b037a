package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VotingItemType enum
type VotingItemType string

const (
	ItemStatute  VotingItemType = "statute"
	ItemPosition VotingItemType = "position"
)

// AbstainValue is the reserved option label managed by the allowAbstain flag.
const AbstainValue = "Abstain"

// VotingItem is one decision point (ballot item) within a session.
type VotingItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID     primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	Title         string             `bson:"title" json:"title"`
	Type          VotingItemType     `bson:"type" json:"type"`
	AllowAbstain  bool               `bson:"allowAbstain" json:"allowAbstain"`
	MaxSelections int                `bson:"maxSelections" json:"maxSelections"`
	Permissions   []string           `bson:"permissions" json:"permissions"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ReconcileAbstainOptions compares an item's current options against the
// desired allowAbstain flag. It returns the labels to create and the IDs to
// delete so that afterwards the item has exactly one "Abstain" option when
// the flag is set and none when it is not. Duplicate "Abstain" options
// (which should not exist, but may after manual edits) are pruned down to one.
func ReconcileAbstainOptions(existing []VotingOption, allowAbstain bool) (create []string, remove []primitive.ObjectID) {
	var abstains []VotingOption
	for _, opt := range existing {
		if opt.Value == AbstainValue {
			abstains = append(abstains, opt)
		}
	}

	if !allowAbstain {
		for _, opt := range abstains {
			remove = append(remove, opt.ID)
		}
		return nil, remove
	}

	if len(abstains) == 0 {
		return []string{AbstainValue}, nil
	}
	// Keep the first, drop any extras.
	for _, opt := range abstains[1:] {
		remove = append(remove, opt.ID)
	}
	return nil, remove
}

// DefaultStatuteOptions returns the option labels auto-created for a new
// statute item.
func DefaultStatuteOptions() []string {
	return []string{"Yes", "No"}
}
