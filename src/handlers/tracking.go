package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trackline/tracking-api/src/models"
	"github.com/trackline/tracking-api/src/services"
)

const trackingComponent = "tracking"

// TrackingHandler serves the public lookup and the admin CRUD routes
type TrackingHandler struct {
	trackingService *services.TrackingService
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(trackingService *services.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// CreateTrackingRequest represents the request body for a new tracking record.
// The tracking number is always generated server-side.
type CreateTrackingRequest struct {
	ShipDate              models.DateInput `json:"shipDate"`
	DeliveryDate          models.DateInput `json:"deliveryDate"`
	EstimatedDeliveryDate models.DateInput `json:"estimatedDeliveryDate"`
	RecipientName         string           `json:"recipientName" binding:"required"`
	RecipientPhone        string           `json:"recipientPhone" binding:"required"`
	Destination           string           `json:"destination" binding:"required"`
	Origin                string           `json:"origin" binding:"required"`
	Status                string           `json:"status" binding:"required"`
	Service               string           `json:"service" binding:"required"`
}

func (r CreateTrackingRequest) toInput() services.CreateTrackingInput {
	return services.CreateTrackingInput{
		ShipDate:              r.ShipDate.Value(),
		DeliveryDate:          r.DeliveryDate.Value(),
		EstimatedDeliveryDate: r.EstimatedDeliveryDate.Value(),
		RecipientName:         r.RecipientName,
		RecipientPhone:        r.RecipientPhone,
		Destination:           r.Destination,
		Origin:                r.Origin,
		Status:                r.Status,
		Service:               r.Service,
	}
}

// UpdateTrackingRequest represents a partial update. Absent fields are left
// alone; "id" and "trackingNumber" are not decoded and so never applied.
type UpdateTrackingRequest struct {
	ShipDate              models.DateInput `json:"shipDate"`
	DeliveryDate          models.DateInput `json:"deliveryDate"`
	EstimatedDeliveryDate models.DateInput `json:"estimatedDeliveryDate"`
	RecipientName         *string          `json:"recipientName"`
	RecipientPhone        *string          `json:"recipientPhone"`
	Destination           *string          `json:"destination"`
	Origin                *string          `json:"origin"`
	Status                *string          `json:"status"`
	Service               *string          `json:"service"`
}

func (r UpdateTrackingRequest) toPatch() (models.TrackingPatch, error) {
	patch := models.TrackingPatch{
		RecipientName:  r.RecipientName,
		RecipientPhone: r.RecipientPhone,
		Destination:    r.Destination,
		Origin:         r.Origin,
		Status:         r.Status,
		Service:        r.Service,
	}

	if r.ShipDate.Present {
		if r.ShipDate.Null {
			return models.TrackingPatch{}, fmt.Errorf("%w: shipDate cannot be cleared", services.ErrValidation)
		}
		patch.ShipDate = r.ShipDate.Value()
	}
	if r.DeliveryDate.Present {
		v := r.DeliveryDate.Value()
		patch.DeliveryDate = &v
	}
	if r.EstimatedDeliveryDate.Present {
		v := r.EstimatedDeliveryDate.Value()
		patch.EstimatedDeliveryDate = &v
	}
	return patch, nil
}

// HandlePublicLookup returns one tracking record without authentication
func (th *TrackingHandler) HandlePublicLookup(c *gin.Context) {
	tracking, err := th.trackingService.Get(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		writeError(c, trackingComponent, err, errorMessages{
			notFound: "Tracking information not found",
			internal: "Server error",
		})
		return
	}

	c.JSON(http.StatusOK, tracking)
}

// HandleCreate creates a tracking record with a generated tracking number
func (th *TrackingHandler) HandleCreate(c *gin.Context) {
	msgs := errorMessages{
		validation: "Missing required tracking fields",
		conflict:   "Tracking number conflict or other unique field violation.",
		internal:   "Server error creating tracking",
	}

	var req CreateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, trackingComponent, bindError(err), msgs)
		return
	}

	tracking, err := th.trackingService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		writeError(c, trackingComponent, err, msgs)
		return
	}

	c.JSON(http.StatusCreated, tracking)
}

// HandleList returns every tracking record
func (th *TrackingHandler) HandleList(c *gin.Context) {
	trackings, err := th.trackingService.List(c.Request.Context())
	if err != nil {
		writeError(c, trackingComponent, err, errorMessages{
			internal: "Server error retrieving trackings",
		})
		return
	}

	c.JSON(http.StatusOK, trackings)
}

// HandleGet returns one tracking record for an admin
func (th *TrackingHandler) HandleGet(c *gin.Context) {
	tracking, err := th.trackingService.Get(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		writeError(c, trackingComponent, err, errorMessages{
			notFound: "Tracking not found",
			internal: "Server error retrieving tracking",
		})
		return
	}

	c.JSON(http.StatusOK, tracking)
}

// HandleUpdate applies a partial update
func (th *TrackingHandler) HandleUpdate(c *gin.Context) {
	msgs := errorMessages{
		validation: "Invalid tracking update",
		notFound:   "Tracking not found",
		internal:   "Server error updating tracking",
	}

	var req UpdateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, trackingComponent, bindError(err), msgs)
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		writeError(c, trackingComponent, err, msgs)
		return
	}

	tracking, err := th.trackingService.Update(c.Request.Context(), c.Param("trackingNumber"), patch)
	if err != nil {
		writeError(c, trackingComponent, err, msgs)
		return
	}

	c.JSON(http.StatusOK, tracking)
}

// HandleDelete removes a tracking record
func (th *TrackingHandler) HandleDelete(c *gin.Context) {
	if err := th.trackingService.Delete(c.Request.Context(), c.Param("trackingNumber")); err != nil {
		writeError(c, trackingComponent, err, errorMessages{
			notFound: "Tracking not found",
			internal: "Server error deleting tracking",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tracking deleted successfully"})
}

// HandleSearch returns records whose tracking number contains the query
func (th *TrackingHandler) HandleSearch(c *gin.Context) {
	trackings, err := th.trackingService.Search(c.Request.Context(), c.Param("query"))
	if err != nil {
		writeError(c, trackingComponent, err, errorMessages{
			internal: "Server error searching trackings",
		})
		return
	}

	c.JSON(http.StatusOK, trackings)
}
