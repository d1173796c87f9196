package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackline/tracking-api/src/models"
	"github.com/trackline/tracking-api/src/repositories/mock"
	"github.com/trackline/tracking-api/src/services"
)

var handlerNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTrackingRouter(t *testing.T, repo *mock.TrackingRepository, numbers ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	opts := []services.TrackingOption{services.WithClock(func() time.Time { return handlerNow })}
	if len(numbers) > 0 {
		i := 0
		opts = append(opts, services.WithGenerator(func() (string, error) {
			n := numbers[i%len(numbers)]
			i++
			return n, nil
		}))
	}
	th := NewTrackingHandler(services.NewTrackingService(repo, opts...))

	router := gin.New()
	router.GET("/tracking/:trackingNumber", th.HandlePublicLookup)
	router.POST("/admin/tracking", th.HandleCreate)
	router.GET("/admin/tracking", th.HandleList)
	router.GET("/admin/tracking/search/:query", th.HandleSearch)
	router.GET("/admin/tracking/:trackingNumber", th.HandleGet)
	router.PUT("/admin/tracking/:trackingNumber", th.HandleUpdate)
	router.DELETE("/admin/tracking/:trackingNumber", th.HandleDelete)
	return router
}

func validCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"recipientName":  "A",
		"recipientPhone": "1",
		"destination":    "X",
		"origin":         "Y",
		"status":         "pending",
		"service":        "standard",
	}
}

func TestHandleCreate_Success(t *testing.T) {
	router := newTrackingRouter(t, mock.NewTrackingRepository(), "TRKNEW000000001")

	w := performRequest(t, router, http.MethodPost, "/admin/tracking", validCreateBody())
	assertStatusCode(t, w, http.StatusCreated)

	var got models.Tracking
	decodeJSON(t, w, &got)
	assert.Equal(t, "TRKNEW000000001", got.TrackingNumber)
	assert.NotZero(t, got.ID)
	assert.True(t, handlerNow.Equal(got.ShipDate))
	assert.Nil(t, got.DeliveryDate)
	assert.Equal(t, "standard", got.Service)
}

func TestHandleCreate_IgnoresClientTrackingNumber(t *testing.T) {
	router := newTrackingRouter(t, mock.NewTrackingRepository(), "TRKSERVER")

	body := validCreateBody()
	body["trackingNumber"] = "CLIENT-CHOSEN"
	body["id"] = 999
	w := performRequest(t, router, http.MethodPost, "/admin/tracking", body)
	assertStatusCode(t, w, http.StatusCreated)

	var got models.Tracking
	decodeJSON(t, w, &got)
	assert.Equal(t, "TRKSERVER", got.TrackingNumber)
	assert.NotEqual(t, int64(999), got.ID)
}

func TestHandleCreate_Dates(t *testing.T) {
	router := newTrackingRouter(t, mock.NewTrackingRepository(), "TRKDATES")

	body := validCreateBody()
	body["shipDate"] = "2025-01-02"
	body["estimatedDeliveryDate"] = "2025-01-09T10:00:00Z"
	body["deliveryDate"] = nil
	w := performRequest(t, router, http.MethodPost, "/admin/tracking", body)
	assertStatusCode(t, w, http.StatusCreated)

	var got models.Tracking
	decodeJSON(t, w, &got)
	assert.True(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC).Equal(got.ShipDate))
	require.NotNil(t, got.EstimatedDeliveryDate)
	assert.True(t, time.Date(2025, 1, 9, 10, 0, 0, 0, time.UTC).Equal(*got.EstimatedDeliveryDate))
	assert.Nil(t, got.DeliveryDate)
}

func TestHandleCreate_Validation(t *testing.T) {
	repo := mock.NewTrackingRepository()
	router := newTrackingRouter(t, repo)

	missing := validCreateBody()
	delete(missing, "service")

	blank := validCreateBody()
	blank["origin"] = "  "

	badDate := validCreateBody()
	badDate["shipDate"] = "yesterday"

	tests := []struct {
		name    string
		body    interface{}
		message string
	}{
		{"missing field", missing, "Missing required tracking fields"},
		{"blank field", blank, "Missing required tracking fields"},
		{"malformed json", `{"recipientName": `, "Missing required tracking fields"},
		{"invalid date", badDate, "Invalid date format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(t, router, http.MethodPost, "/admin/tracking", tt.body)
			assertStatusCode(t, w, http.StatusBadRequest)
			assertJSONMessage(t, w, tt.message)
		})
	}

	assert.Empty(t, repo.Calls["Create"])
}

func TestHandleCreate_Conflict(t *testing.T) {
	router := newTrackingRouter(t, mock.NewTrackingRepository(), "TRKSAME")

	w := performRequest(t, router, http.MethodPost, "/admin/tracking", validCreateBody())
	assertStatusCode(t, w, http.StatusCreated)

	w = performRequest(t, router, http.MethodPost, "/admin/tracking", validCreateBody())
	assertStatusCode(t, w, http.StatusConflict)
	assertJSONMessage(t, w, "Tracking number conflict or other unique field violation.")
}

func TestHandleCreate_StoreFailure(t *testing.T) {
	repo := mock.NewTrackingRepository()
	repo.CreateFunc = func(ctx context.Context, tr *models.Tracking) error {
		return errors.New(`pq: relation "trackings" does not exist`)
	}
	router := newTrackingRouter(t, repo)

	w := performRequest(t, router, http.MethodPost, "/admin/tracking", validCreateBody())
	assertStatusCode(t, w, http.StatusInternalServerError)
	assertJSONMessage(t, w, "Server error creating tracking")
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestHandlePublicLookup(t *testing.T) {
	router := newTrackingRouter(t, mock.NewTrackingRepository(), "TRKPUBLIC")

	performRequest(t, router, http.MethodPost, "/admin/tracking", validCreateBody())

	w := performRequest(t, router, http.MethodGet, "/tracking/TRKPUBLIC", nil)
	assertStatusCode(t, w, http.StatusOK)
	var got models.Tracking
	decodeJSON(t, w, &got)
	assert.Equal(t, "TRKPUBLIC", got.TrackingNumber)

	w = performRequest(t, router, http.MethodGet, "/tracking/TRKUNKNOWN", nil)
	assertStatusCode(t, w, http.StatusNotFound)
	assertJSONMessage(t, w, "Tracking information not found")
}

func TestHandlePublicLookup_StoreFailure(t *testing.T) {
	repo := mock.NewTrackingRepository()
	repo.GetByTrackingNumberFunc = func(ctx context.Context, n string) (*models.Tracking, error) {
		return nil, errors.New("connection refused")
	}
	router := newTrackingRouter(t, repo)

	w := performRequest(t, router, http.MethodGet, "/tracking/TRK1", nil)
	assertStatusCode(t, w, http.StatusInternalServerError)
	assertJSONMessage(t, w, "Server error")
}

func TestHandleListAndGet(t *testing.T) {
	router := newTrackingRouter(t, mock.NewTrackingRepository(), "TRKONE", "TRKTWO")

	w := performRequest(t, router, http.MethodGet, "/admin/tracking", nil)
	assertStatusCode(t, w, http.StatusOK)
	assert.JSONEq(t, `[]`, w.Body.String())

	performRequest(t, router, http.MethodPost, "/admin/tracking", validCreateBody())
	performRequest(t, router, http.MethodPost, "/admin/tracking", validCreateBody())

	w = performRequest(t, router, http.MethodGet, "/admin/tracking", nil)
	var all []models.Tracking
	decodeJSON(t, w, &all)
	require.Len(t, all, 2)
	assert.Equal(t, "TRKONE", all[0].TrackingNumber)

	w = performRequest(t, router, http.MethodGet, "/admin/tracking/TRKTWO", nil)
	assertStatusCode(t, w, http.StatusOK)

	w = performRequest(t, router, http.MethodGet, "/admin/tracking/TRKTHREE", nil)
	assertStatusCode(t, w, http.StatusNotFound)
	assertJSONMessage(t, w, "Tracking not found")
}

func TestHandleList_StoreFailure(t *testing.T) {
	repo := mock.NewTrackingRepository()
	repo.ListFunc = func(ctx context.Context) ([]*models.Tracking, error) {
		return nil, errors.New("timeout")
	}
	router := newTrackingRouter(t, repo)

	w := performRequest(t, router, http.MethodGet, "/admin/tracking", nil)
	assertStatusCode(t, w, http.StatusInternalServerError)
	assertJSONMessage(t, w, "Server error retrieving trackings")
}

func TestHandleSearch(t *testing.T) {
	router := newTrackingRouter(t, mock.NewTrackingRepository(), "ABC123", "XYZ789")

	performRequest(t, router, http.MethodPost, "/admin/tracking", validCreateBody())
	performRequest(t, router, http.MethodPost, "/admin/tracking", validCreateBody())

	w := performRequest(t, router, http.MethodGet, "/admin/tracking/search/ABC", nil)
	assertStatusCode(t, w, http.StatusOK)
	var found []models.Tracking
	decodeJSON(t, w, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "ABC123", found[0].TrackingNumber)

	w = performRequest(t, router, http.MethodGet, "/admin/tracking/search/QQQ", nil)
	assertStatusCode(t, w, http.StatusOK)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandleUpdate(t *testing.T) {
	router := newTrackingRouter(t, mock.NewTrackingRepository(), "TRKUPDATE")

	w := performRequest(t, router, http.MethodPost, "/admin/tracking", validCreateBody())
	var created models.Tracking
	decodeJSON(t, w, &created)

	w = performRequest(t, router, http.MethodPut, "/admin/tracking/TRKUPDATE", map[string]interface{}{
		"id":             created.ID + 100,
		"trackingNumber": "HIJACKED",
		"status":         "delivered",
		"deliveryDate":   "2025-06-03",
	})
	assertStatusCode(t, w, http.StatusOK)

	var updated models.Tracking
	decodeJSON(t, w, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "TRKUPDATE", updated.TrackingNumber)
	assert.Equal(t, "delivered", updated.Status)
	require.NotNil(t, updated.DeliveryDate)
	assert.True(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC).Equal(*updated.DeliveryDate))

	w = performRequest(t, router, http.MethodGet, "/admin/tracking/HIJACKED", nil)
	assertStatusCode(t, w, http.StatusNotFound)

	w = performRequest(t, router, http.MethodPut, "/admin/tracking/TRKUPDATE", `{"deliveryDate": null}`)
	assertStatusCode(t, w, http.StatusOK)
	decodeJSON(t, w, &updated)
	assert.Nil(t, updated.DeliveryDate)
}

func TestHandleUpdate_Errors(t *testing.T) {
	router := newTrackingRouter(t, mock.NewTrackingRepository(), "TRKERR")
	performRequest(t, router, http.MethodPost, "/admin/tracking", validCreateBody())

	tests := []struct {
		name    string
		path    string
		body    interface{}
		status  int
		message string
	}{
		{"unknown", "/admin/tracking/TRKNOPE", `{"status": "lost"}`, http.StatusNotFound, "Tracking not found"},
		{"empty mandatory", "/admin/tracking/TRKERR", `{"status": ""}`, http.StatusBadRequest, "Invalid tracking update"},
		{"clear ship date", "/admin/tracking/TRKERR", `{"shipDate": null}`, http.StatusBadRequest, "Invalid tracking update"},
		{"bad date", "/admin/tracking/TRKERR", `{"deliveryDate": "soon"}`, http.StatusBadRequest, "Invalid date format"},
		{"malformed", "/admin/tracking/TRKERR", `{`, http.StatusBadRequest, "Invalid tracking update"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(t, router, http.MethodPut, tt.path, tt.body)
			assertStatusCode(t, w, tt.status)
			assertJSONMessage(t, w, tt.message)
		})
	}
}

func TestHandleDelete(t *testing.T) {
	router := newTrackingRouter(t, mock.NewTrackingRepository(), "TRKDELETE")
	performRequest(t, router, http.MethodPost, "/admin/tracking", validCreateBody())

	w := performRequest(t, router, http.MethodDelete, "/admin/tracking/TRKDELETE", nil)
	assertStatusCode(t, w, http.StatusOK)
	assertJSONMessage(t, w, "Tracking deleted successfully")

	w = performRequest(t, router, http.MethodDelete, "/admin/tracking/TRKDELETE", nil)
	assertStatusCode(t, w, http.StatusNotFound)
	assertJSONMessage(t, w, "Tracking not found")
}

func TestHandleDelete_StoreFailure(t *testing.T) {
	repo := mock.NewTrackingRepository()
	repo.DeleteFunc = func(ctx context.Context, n string) (bool, error) {
		return false, errors.New("broken pipe")
	}
	router := newTrackingRouter(t, repo)

	w := performRequest(t, router, http.MethodDelete, "/admin/tracking/TRK1", nil)
	assertStatusCode(t, w, http.StatusInternalServerError)
	assertJSONMessage(t, w, "Server error deleting tracking")
}
