package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/gocatalog/pkg/messaging"
)

// ProductStockToggledEvent is emitted after a product's stock flag was flipped and persisted.
type ProductStockToggledEvent struct {
	ProductID string    `json:"product_id"`
	InStock   bool      `json:"in_stock"`
	ToggledAt time.Time `json:"toggled_at"`
}

func (e ProductStockToggledEvent) Subject() string {
	return messaging.ProductStockToggledSubject
}

func (e ProductStockToggledEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
