package transport

import "time"

type ListTransactionsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending succeeded failed refunded"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type TransactionResponse struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"externalId"`
	Type        string    `json:"type"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	Description *string   `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ListTransactionsResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}

type WebhookTransactionRequest struct {
	ExternalID  string    `json:"externalId" validate:"required,max=200"`
	Type        string    `json:"type" validate:"required,oneof=charge refund payout"`
	AmountCents int64     `json:"amountCents" validate:"required"`
	Currency    string    `json:"currency" validate:"required,len=3"`
	Status      string    `json:"status" validate:"required"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	OccurredAt  time.Time `json:"occurredAt" validate:"required"`
}
