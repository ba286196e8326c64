package models

import "time"

// PieceType - тип экземпляра
type PieceType string

const (
	PieceTypeCoin     PieceType = "Moneda"
	PieceTypeBanknote PieceType = "Billete"
)

// Valid проверяет тип экземпляра
func (t PieceType) Valid() bool {
	return t == PieceTypeCoin || t == PieceTypeBanknote
}

// ConservationState - состояние сохранности
type ConservationState string

const (
	ConservationExcellent ConservationState = "Excelente"
	ConservationVeryGood  ConservationState = "Muy Bueno"
	ConservationGood      ConservationState = "Bueno"
	ConservationFair      ConservationState = "Regular"
	ConservationPoor      ConservationState = "Pobre"
)

// Valid проверяет состояние сохранности
func (s ConservationState) Valid() bool {
	switch s {
	case ConservationExcellent, ConservationVeryGood, ConservationGood, ConservationFair, ConservationPoor:
		return true
	}
	return false
}

// Piece представляет монету или банкноту в коллекции
type Piece struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Type                 PieceType         `json:"type"`
	Country              string            `json:"country"`
	Year                 int               `json:"year"`
	ConservationState    ConservationState `json:"conservationState"`
	ImageURL             string            `json:"imageUrl"`
	ImageURLBack         string            `json:"imageUrlBack"`
	Description          string            `json:"description"`
	AvailableForExchange bool              `json:"availableForExchange"`
	IsTop                bool              `json:"isTop"`
	UserID               string            `json:"userId"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

// PieceUpdate - частичное обновление экземпляра (nil = не менять)
type PieceUpdate struct {
	Name                 *string            `json:"name,omitempty"`
	Type                 *PieceType         `json:"type,omitempty"`
	Country              *string            `json:"country,omitempty"`
	Year                 *int               `json:"year,omitempty"`
	ConservationState    *ConservationState `json:"conservationState,omitempty"`
	ImageURL             *string            `json:"imageUrl,omitempty"`
	ImageURLBack         *string            `json:"imageUrlBack,omitempty"`
	Description          *string            `json:"description,omitempty"`
	AvailableForExchange *bool              `json:"availableForExchange,omitempty"`
	IsTop                *bool              `json:"isTop,omitempty"`
}

// Apply применяет изменения к экземпляру
func (u PieceUpdate) Apply(p *Piece) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Type != nil {
		p.Type = *u.Type
	}
	if u.Country != nil {
		p.Country = *u.Country
	}
	if u.Year != nil {
		p.Year = *u.Year
	}
	if u.ConservationState != nil {
		p.ConservationState = *u.ConservationState
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	if u.ImageURLBack != nil {
		p.ImageURLBack = *u.ImageURLBack
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.AvailableForExchange != nil {
		p.AvailableForExchange = *u.AvailableForExchange
	}
	if u.IsTop != nil {
		p.IsTop = *u.IsTop
	}
}
