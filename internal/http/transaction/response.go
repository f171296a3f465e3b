package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type transactionResponse struct {
	ID          uuid.UUID        `json:"id"`
	Type        transaction.Type `json:"type"`
	Amount      string           `json:"amount"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Date        time.Time        `json:"date"`
	PaidBy      string           `json:"paidBy"`
	IsShared    bool             `json:"isShared"`
	GroupID     *uuid.UUID       `json:"groupId"`
	Splits      []splitResponse  `json:"splits"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type splitResponse struct {
	ID            uuid.UUID  `json:"id"`
	TransactionID uuid.UUID  `json:"transactionId"`
	MemberID      *uuid.UUID `json:"memberId"`
	MemberName    string     `json:"memberName"`
	Amount        string     `json:"amount"`
	IsPaid        bool       `json:"isPaid"`
}

type createResponse struct {
	transactionResponse
	Warnings []string `json:"warnings,omitempty"`
}

func toSplitResponse(s *transaction.Split) splitResponse {
	return splitResponse{
		ID:            s.ID,
		TransactionID: s.TransactionID,
		MemberID:      s.MemberID,
		MemberName:    s.MemberName,
		Amount:        respond.Money(s.Amount),
		IsPaid:        s.IsPaid,
	}
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:          tx.ID,
		Type:        tx.Type,
		Amount:      respond.Money(tx.Amount),
		Description: tx.Description,
		Category:    tx.Category,
		Date:        tx.Date,
		PaidBy:      tx.PaidBy,
		IsShared:    tx.IsShared,
		GroupID:     tx.GroupID,
		Splits:      make([]splitResponse, len(tx.Splits)),
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}

	for i := range tx.Splits {
		resp.Splits[i] = toSplitResponse(&tx.Splits[i])
	}

	return resp
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
