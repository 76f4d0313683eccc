// internal/domain/referral.go
package domain

import "time"

// ReferralEdge is a back-pointer from a referred user to their referrer.
// Each user has at most one referrer; edges are created at registration and
// never changed, so the structure is a directed forest. Cycles are rejected
// at creation time.
type ReferralEdge struct {
	ChildID   int64     `db:"child_id" json:"child_id"`
	ParentID  int64     `db:"parent_id" json:"parent_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewReferralEdge creates an edge from child to its referrer.
func NewReferralEdge(childID, parentID int64) *ReferralEdge {
	return &ReferralEdge{
		ChildID:   childID,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}
}
