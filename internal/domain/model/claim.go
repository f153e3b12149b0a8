package model

import (
	"fmt"
	"time"
)

type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "pending"
	ClaimApproved  ClaimStatus = "approved"
	ClaimCollected ClaimStatus = "collected"
	ClaimRejected  ClaimStatus = "rejected"
)

// claimTransitions lists the legal next states for each status.
// collected and rejected are terminal.
var claimTransitions = map[ClaimStatus][]ClaimStatus{
	ClaimPending:  {ClaimApproved, ClaimRejected},
	ClaimApproved: {ClaimCollected},
}

func ParseClaimStatus(s string) (ClaimStatus, error) {
	switch c := ClaimStatus(s); c {
	case ClaimPending, ClaimApproved, ClaimCollected, ClaimRejected:
		return c, nil
	}
	return "", fmt.Errorf("unknown claim status %q", s)
}

// CanTransitionTo reports whether a claim in status s may move to next.
func (s ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	for _, allowed := range claimTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ClaimStatus) Terminal() bool {
	return len(claimTransitions[s]) == 0
}

type Claim struct {
	ID          string       `json:"id"`
	FoodPostID  string       `json:"foodPostId"`
	RecipientID string       `json:"recipientId"`
	Status      ClaimStatus  `json:"status"`
	RequestedAt time.Time    `json:"requestedAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	FoodPost    *FoodPost    `json:"foodPost,omitempty"`  // Populated on reads
	Recipient   *UserSummary `json:"recipient,omitempty"` // Populated on admin reads
}
