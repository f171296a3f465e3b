package group

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/balance"
	"github.com/MrJamesThe3rd/tally/internal/group"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type groupResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	MemberCount int              `json:"memberCount"`
	Members     []memberResponse `json:"members,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type memberResponse struct {
	ID             uuid.UUID `json:"id"`
	GroupID        uuid.UUID `json:"groupId"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	OpeningBalance string    `json:"openingBalance"`
	JoinedAt       time.Time `json:"joinedAt"`
}

func toMemberResponse(m *group.Member) memberResponse {
	return memberResponse{
		ID:             m.ID,
		GroupID:        m.GroupID,
		Name:           m.Name,
		Email:          m.Email,
		OpeningBalance: respond.Money(m.OpeningBalance),
		JoinedAt:       m.JoinedAt,
	}
}

func toResponse(g *group.Group) groupResponse {
	resp := groupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		MemberCount: g.MemberCount,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}

	for i := range g.Members {
		resp.Members = append(resp.Members, toMemberResponse(&g.Members[i]))
	}

	return resp
}

type memberBalanceResponse struct {
	MemberID       uuid.UUID `json:"memberId"`
	Name           string    `json:"name"`
	OpeningBalance string    `json:"openingBalance"`
	Owed           string    `json:"owed"`
	Settled        string    `json:"settled"`
	Balance        string    `json:"balance"`
}

type unattributedResponse struct {
	Name string `json:"name"`
	Owed string `json:"owed"`
}

type balancesResponse struct {
	GroupID      uuid.UUID               `json:"groupId"`
	TotalShared  string                  `json:"totalShared"`
	Members      []memberBalanceResponse `json:"members"`
	Unattributed []unattributedResponse  `json:"unattributed,omitempty"`
}

func toBalancesResponse(b *balance.GroupBalances) balancesResponse {
	resp := balancesResponse{
		GroupID:     b.GroupID,
		TotalShared: respond.Money(b.TotalShared),
		Members:     make([]memberBalanceResponse, 0, len(b.Members)),
	}

	for _, m := range b.Members {
		resp.Members = append(resp.Members, memberBalanceResponse{
			MemberID:       m.MemberID,
			Name:           m.Name,
			OpeningBalance: respond.Money(m.OpeningBalance),
			Owed:           respond.Money(m.Owed),
			Settled:        respond.Money(m.Settled),
			Balance:        respond.Money(m.Balance),
		})
	}

	for _, u := range b.Unattributed {
		resp.Unattributed = append(resp.Unattributed, unattributedResponse{Name: u.Name, Owed: respond.Money(u.Owed)})
	}

	return resp
}

type adjustmentEntry struct {
	ID          uuid.UUID        `json:"id"`
	Type        transaction.Type `json:"type"`
	Amount      string           `json:"amount"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Date        time.Time        `json:"date"`
}

type adjustmentResponse struct {
	Member      memberResponse   `json:"member"`
	Previous    string           `json:"previousOpeningBalance"`
	Changed     bool             `json:"changed"`
	Transaction *adjustmentEntry `json:"transaction"`
	Warnings    []string         `json:"warnings,omitempty"`
}

func toAdjustmentResponse(a *balance.Adjustment) adjustmentResponse {
	resp := adjustmentResponse{
		Member:   toMemberResponse(a.Member),
		Previous: respond.Money(a.Previous),
		Changed:  a.Changed,
		Warnings: a.Warnings,
	}

	if tx := a.Transaction; tx != nil {
		resp.Transaction = &adjustmentEntry{
			ID:          tx.ID,
			Type:        tx.Type,
			Amount:      respond.Money(tx.Amount),
			Description: tx.Description,
			Category:    tx.Category,
			Date:        tx.Date,
		}
	}

	return resp
}
