package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-yt/eventhub/internal/auth"
	"github.com/ankit-yt/eventhub/internal/middleware"
	"github.com/ankit-yt/eventhub/internal/models"
)

type fakeStore struct {
	entries   map[uuid.UUID]*models.CalendarEntry
	available map[uuid.UUID]int
	venues    map[uuid.UUID]*models.Venue
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries:   map[uuid.UUID]*models.CalendarEntry{},
		available: map[uuid.UUID]int{},
		venues:    map[uuid.UUID]*models.Venue{},
	}
}

// detail mirrors the repository's LEFT-style venue join: a missing venue yields nil.
func (s *fakeStore) detail(e *models.CalendarEntry) *models.CalendarEntryDetail {
	return &models.CalendarEntryDetail{CalendarEntry: *e, Venue: s.venues[e.VenueID]}
}

func (s *fakeStore) claim(allocs []models.AllocatedEquipment) error {
	for _, a := range allocs {
		if s.available[a.EquipmentID] < a.Quantity {
			return ErrInsufficientQuantity
		}
	}
	for _, a := range allocs {
		s.available[a.EquipmentID] -= a.Quantity
	}
	return nil
}

func (s *fakeStore) List(ctx context.Context) ([]models.CalendarEntryDetail, error) {
	list := []models.CalendarEntryDetail{}
	for _, e := range s.entries {
		list = append(list, *s.detail(e))
	}
	return list, nil
}

func (s *fakeStore) GetDetail(ctx context.Context, id uuid.UUID) (*models.CalendarEntryDetail, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.detail(e), nil
}

func (s *fakeStore) GetDetailByEvent(ctx context.Context, eventID uuid.UUID) (*models.CalendarEntryDetail, error) {
	for _, e := range s.entries {
		if e.EventID == eventID {
			return s.detail(e), nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) Create(ctx context.Context, entry *models.CalendarEntry) error {
	for _, e := range s.entries {
		if e.EventID == entry.EventID {
			return ErrEventAlreadyScheduled
		}
	}
	if err := s.claim(entry.Equipment); err != nil {
		return err
	}
	entry.ID = uuid.New()
	s.entries[entry.ID] = entry
	return nil
}

func (s *fakeStore) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.CalendarEntry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Status != nil {
		if !CanTransition(e.Status, *p.Status) {
			return nil, ErrInvalidTransition
		}
		e.Status = *p.Status
	}
	if p.VenueID != nil {
		e.VenueID = *p.VenueID
	}
	if p.Equipment != nil {
		for _, a := range e.Equipment {
			s.available[a.EquipmentID] += a.Quantity
		}
		if err := s.claim(*p.Equipment); err != nil {
			return nil, err
		}
		e.Equipment = *p.Equipment
	}
	return e, nil
}

func (s *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	e, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}
	for _, a := range e.Equipment {
		s.available[a.EquipmentID] += a.Quantity
	}
	delete(s.entries, id)
	return nil
}

func setupRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, nil)
	r := gin.New()
	r.GET("/calendar", h.List)
	r.GET("/calendar/event/:eventId", h.GetByEvent)
	r.GET("/calendar/:id", h.GetByID)
	r.POST("/calendar", h.Create)
	r.PUT("/calendar/:id", h.Update)
	r.DELETE("/calendar/:id", h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateEntryDefaultsToPlanned(t *testing.T) {
	store := newFakeStore()
	r := setupRouter(store)

	w := doJSON(t, r, http.MethodPost, "/calendar", gin.H{
		"event_id": uuid.New().String(),
		"venue_id": uuid.New().String(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var entry models.CalendarEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, models.StatusPlanned, entry.Status)
}

func TestCreateEntryRejectsSecondEntryForEvent(t *testing.T) {
	store := newFakeStore()
	r := setupRouter(store)
	eventID := uuid.New().String()

	w := doJSON(t, r, http.MethodPost, "/calendar", gin.H{
		"event_id": eventID,
		"venue_id": uuid.New().String(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/calendar", gin.H{
		"event_id": eventID,
		"venue_id": uuid.New().String(),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateEntryInsufficientEquipment(t *testing.T) {
	store := newFakeStore()
	equipmentID := uuid.New()
	store.available[equipmentID] = 2
	r := setupRouter(store)

	w := doJSON(t, r, http.MethodPost, "/calendar", gin.H{
		"event_id": uuid.New().String(),
		"venue_id": uuid.New().String(),
		"allocated_equipment": []gin.H{
			{"equipment_id": equipmentID.String(), "quantity": 5},
		},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 2, store.available[equipmentID])
}

func TestStatusLifecycle(t *testing.T) {
	store := newFakeStore()
	r := setupRouter(store)
	eventID := uuid.New()

	w := doJSON(t, r, http.MethodPost, "/calendar", gin.H{
		"event_id": eventID.String(),
		"venue_id": uuid.New().String(),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var entry models.CalendarEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))

	for _, status := range []models.CalendarStatus{
		models.StatusConfirmed, models.StatusInProgress, models.StatusCompleted,
	} {
		w = doJSON(t, r, http.MethodPut, "/calendar/"+entry.ID.String(), gin.H{"status": string(status)})
		require.Equal(t, http.StatusOK, w.Code, "transition to %s", status)
	}

	// terminal: nothing leaves Completed
	w = doJSON(t, r, http.MethodPut, "/calendar/"+entry.ID.String(), gin.H{"status": "Planned"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// reads resolve by entry id and by event id
	w = doJSON(t, r, http.MethodGet, "/calendar/event/"+eventID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail models.CalendarEntryDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, models.StatusCompleted, detail.Status)
}

func TestSkippingStatusRejected(t *testing.T) {
	store := newFakeStore()
	r := setupRouter(store)

	w := doJSON(t, r, http.MethodPost, "/calendar", gin.H{
		"event_id": uuid.New().String(),
		"venue_id": uuid.New().String(),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var entry models.CalendarEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))

	w = doJSON(t, r, http.MethodPut, "/calendar/"+entry.ID.String(), gin.H{"status": "Completed"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUnknownStatusRejected(t *testing.T) {
	store := newFakeStore()
	r := setupRouter(store)

	w := doJSON(t, r, http.MethodPost, "/calendar", gin.H{
		"event_id": uuid.New().String(),
		"venue_id": uuid.New().String(),
		"status":   "Someday",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeletedVenueLeavesEntryWithNilVenue(t *testing.T) {
	store := newFakeStore()
	venueID := uuid.New()
	store.venues[venueID] = &models.Venue{ID: venueID, Name: "Main Auditorium", Capacity: 300}
	r := setupRouter(store)
	eventID := uuid.New()

	w := doJSON(t, r, http.MethodPost, "/calendar", gin.H{
		"event_id": eventID.String(),
		"venue_id": venueID.String(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/calendar/event/"+eventID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail models.CalendarEntryDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.NotNil(t, detail.Venue)
	assert.Equal(t, "Main Auditorium", detail.Venue.Name)

	// venue removed from the catalog; the entry keeps its dangling reference
	delete(store.venues, venueID)

	w = doJSON(t, r, http.MethodGet, "/calendar/event/"+eventID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail = models.CalendarEntryDetail{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Nil(t, detail.Venue)
	assert.Equal(t, venueID, detail.VenueID)
}

func TestReadsPublicWritesTokenGated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeStore()
	h := NewHandler(store, nil)
	svc := auth.NewJWTService("test-secret", 1)

	r := gin.New()
	grp := r.Group("/calendar")
	{
		grp.GET("", h.List)
		grp.GET("/event/:eventId", h.GetByEvent)
		grp.GET("/:id", h.GetByID)

		tokenRequired := middleware.JWT(svc)
		adminOnly := middleware.RequireRole("admin")
		grp.POST("", tokenRequired, adminOnly, h.Create)
		grp.PUT("/:id", tokenRequired, adminOnly, h.Update)
		grp.DELETE("/:id", tokenRequired, adminOnly, h.Delete)
	}

	w := doJSON(t, r, http.MethodGet, "/calendar", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/calendar/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/calendar", gin.H{
		"event_id": uuid.New().String(),
		"venue_id": uuid.New().String(),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	studentToken, err := svc.Generate(uuid.New(), "s@campus.edu", "student")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/calendar", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+studentToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteReleasesEquipment(t *testing.T) {
	store := newFakeStore()
	equipmentID := uuid.New()
	store.available[equipmentID] = 10
	r := setupRouter(store)

	w := doJSON(t, r, http.MethodPost, "/calendar", gin.H{
		"event_id": uuid.New().String(),
		"venue_id": uuid.New().String(),
		"allocated_equipment": []gin.H{
			{"equipment_id": equipmentID.String(), "quantity": 4},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 6, store.available[equipmentID])

	var entry models.CalendarEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))

	w = doJSON(t, r, http.MethodDelete, "/calendar/"+entry.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, store.available[equipmentID])
}
