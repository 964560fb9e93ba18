package response

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Plant struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	ScientificName string           `json:"scientificName,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	OriginalPrice  *decimal.Decimal `json:"originalPrice,omitempty"`
	Image          string           `json:"image"`
	Images         []string         `json:"images,omitempty"`
	Description    string           `json:"description,omitempty"`
	Tags           []string         `json:"tags,omitempty"`
	Rating         float64          `json:"rating,omitempty"`
	Reviews        int              `json:"reviews,omitempty"`
	Badge          string           `json:"badge,omitempty"`
	BadgeType      string           `json:"badgeType,omitempty"`
	WeightGrams    int              `json:"weight,omitempty"`
}

// UnmarshalJSON accepts the backend document id "_id" as well as "id".
func (p *Plant) UnmarshalJSON(data []byte) error {
	type P Plant
	aux := struct {
		*P
		DocumentID string `json:"_id"`
	}{P: (*P)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = aux.DocumentID
	}
	return nil
}

// Plants decodes GET /api/plants, which answers either {"plants": [...]}
// or a bare array.
type Plants []Plant

func (p *Plants) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []Plant
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*p = list
		return nil
	}
	page := struct {
		Plants []Plant `json:"plants"`
	}{}
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}
	*p = page.Plants
	return nil
}

type CategoryAvatar struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}
