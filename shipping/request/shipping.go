package request

// Estimate is the body of POST /api/orders/shipping/estimate.
type Estimate struct {
	PickupPostcode   string `json:"pickup_postcode"`
	DeliveryPostcode string `json:"delivery_postcode"`
	Weight           int    `json:"weight"`
	Cod              int    `json:"cod"`
}
