// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Field names of the forecast record.
const (
	FieldSymbol    = "symbol"
	FieldBias      = "bias"
	FieldMessage   = "message"
	FieldCreatedAt = "created_at"
)

// Bias is the direction a forecast points to.
type Bias string

const (
	BiasLong    Bias = "long"
	BiasShort   Bias = "short"
	BiasNeutral Bias = "neutral"
)

// Valid reports whether b is a known bias.
func (b Bias) Valid() bool {
	switch b {
	case BiasLong, BiasShort, BiasNeutral:
		return true
	default:
		return false
	}
}

// Forecast is the typed form of one forecast alert.
type Forecast struct {
	ID        string     `json:"id" cbor:"id"`
	Symbol    *string    `json:"symbol,omitempty" cbor:"symbol,omitempty"`
	Bias      Bias       `json:"bias" cbor:"bias"`
	Message   *string    `json:"message,omitempty" cbor:"message,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" cbor:"created_at,omitempty"`
}

// Fields maps the forecast onto the kind's declared schema.
func (f Forecast) Fields() map[string]any {
	return map[string]any{
		FieldSymbol:    stringOrNil(f.Symbol),
		FieldBias:      string(f.Bias),
		FieldMessage:   stringOrNil(f.Message),
		FieldCreatedAt: timeOrNil(f.CreatedAt),
	}
}
