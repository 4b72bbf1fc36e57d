package models

import (
	"time"

	"github.com/google/uuid"
)

// Declaration is an immutable snapshot of an import declaration fetched from
// Sydonia when a control is opened. It is never re-synced afterwards.
type Declaration struct {
	ID               uuid.UUID `json:"id"`
	DeclarationID    string    `json:"declaration_id"`
	ImporterName     string    `json:"importer_name"`
	ImporterAddress  string    `json:"importer_address"`
	GoodsDescription string    `json:"goods_description"`
	OriginCountry    string    `json:"origin_country"`
	ValueCFR         float64   `json:"value_cfr"`
	CustomsRegime    string    `json:"customs_regime"`
	DeclarationDate  string    `json:"declaration_date"`
	CustomsOffice    string    `json:"customs_office"`
	TariffCode       *string   `json:"tariff_code,omitempty"`
	Weight           *float64  `json:"weight,omitempty"`
	Quantity         *int      `json:"quantity,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
