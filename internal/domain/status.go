package domain

type DeckStatus string

const (
	DeckStatusDelivered DeckStatus = "delivered"
	DeckStatusFailed    DeckStatus = "failed"
	DeckStatusCanceled  DeckStatus = "canceled"
)
