package models

import "time"

// Tracking is a shipment tracking record keyed by its tracking number
type Tracking struct {
	ID                    int64      `json:"id"`
	TrackingNumber        string     `json:"trackingNumber"`
	ShipDate              time.Time  `json:"shipDate"`
	DeliveryDate          *time.Time `json:"deliveryDate"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate"`
	RecipientName         string     `json:"recipientName"`
	RecipientPhone        string     `json:"recipientPhone"`
	Destination           string     `json:"destination"`
	Origin                string     `json:"origin"`
	Status                string     `json:"status"`
	Service               string     `json:"service"`
}

// TrackingPatch holds the mutable fields of a partial update.
// Nil pointers are left untouched. For the nullable dates, a set
// outer pointer with a nil inner value clears the column.
type TrackingPatch struct {
	ShipDate              *time.Time
	DeliveryDate          **time.Time
	EstimatedDeliveryDate **time.Time
	RecipientName         *string
	RecipientPhone        *string
	Destination           *string
	Origin                *string
	Status                *string
	Service               *string
}

// IsEmpty reports whether the patch changes nothing
func (p TrackingPatch) IsEmpty() bool {
	return p.ShipDate == nil && p.DeliveryDate == nil && p.EstimatedDeliveryDate == nil &&
		p.RecipientName == nil && p.RecipientPhone == nil && p.Destination == nil &&
		p.Origin == nil && p.Status == nil && p.Service == nil
}
