package events

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-yt/eventhub/internal/calendar"
	"github.com/ankit-yt/eventhub/internal/middleware"
	"github.com/ankit-yt/eventhub/internal/models"
)

type fakeStore struct {
	events     map[uuid.UUID]*models.Event
	registered map[uuid.UUID]map[uuid.UUID]time.Time

	createdSchedule *ScheduleParams
	createErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:     map[uuid.UUID]*models.Event{},
		registered: map[uuid.UUID]map[uuid.UUID]time.Time{},
	}
}

func (s *fakeStore) add(e *models.Event) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	s.events[e.ID] = e
	s.registered[e.ID] = map[uuid.UUID]time.Time{}
}

func (s *fakeStore) List(ctx context.Context) ([]models.EventWithCounts, error) {
	list := []models.EventWithCounts{}
	for _, e := range s.events {
		list = append(list, models.EventWithCounts{Event: *e, AttendeeCount: len(s.registered[e.ID])})
	}
	return list, nil
}

func (s *fakeStore) GetDetail(ctx context.Context, id uuid.UUID) (*models.EventDetail, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &models.EventDetail{Event: *e, Attendees: []models.UserPublic{}}, nil
}

func (s *fakeStore) Create(ctx context.Context, e *models.Event, schedule *ScheduleParams) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.add(e)
	s.createdSchedule = schedule
	return nil
}

func (s *fakeStore) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	return e, nil
}

func (s *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.events[id]; !ok {
		return ErrNotFound
	}
	delete(s.events, id)
	delete(s.registered, id)
	return nil
}

func (s *fakeStore) Register(ctx context.Context, eventID, userID uuid.UUID) error {
	regs, ok := s.registered[eventID]
	if !ok {
		return ErrNotFound
	}
	if _, dup := regs[userID]; dup {
		return ErrAlreadyRegistered
	}
	regs[userID] = time.Now()
	return nil
}

func (s *fakeStore) Unregister(ctx context.Context, eventID, userID uuid.UUID) error {
	regs, ok := s.registered[eventID]
	if !ok {
		return ErrNotFound
	}
	delete(regs, userID)
	return nil
}

func (s *fakeStore) Attendees(ctx context.Context, eventID uuid.UUID) ([]models.Attendee, error) {
	regs, ok := s.registered[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	list := []models.Attendee{}
	for userID, at := range regs {
		a := models.Attendee{RegisteredAt: at}
		a.ID = userID
		list = append(list, a)
	}
	return list, nil
}

func (s *fakeStore) SetBannerURL(ctx context.Context, id uuid.UUID, url string) error {
	e, ok := s.events[id]
	if !ok {
		return ErrNotFound
	}
	e.BannerURL = url
	return nil
}

func setupRouter(store Store, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, nil, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserRole, "admin")
	})
	r.GET("/events", h.List)
	r.GET("/events/:id", h.GetByID)
	r.POST("/events", h.Create)
	r.PUT("/events/:id", h.Update)
	r.DELETE("/events/:id", h.Delete)
	r.POST("/events/:id/register", h.Register)
	r.POST("/events/:id/unregister", h.Unregister)
	r.GET("/events/:id/attendees", h.Attendees)
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

func TestCreateEvent(t *testing.T) {
	store := newFakeStore()
	r := setupRouter(store, uuid.New())

	w := doJSON(t, r, http.MethodPost, "/events", gin.H{
		"title": "Tech Fest",
		"date":  "2025-09-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Tech Fest", created.Title)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Nil(t, store.createdSchedule)
}

func TestCreateEventWithScheduleBlock(t *testing.T) {
	store := newFakeStore()
	r := setupRouter(store, uuid.New())
	venueID := uuid.New()
	equipmentID := uuid.New()

	w := doJSON(t, r, http.MethodPost, "/events", gin.H{
		"title": "Orientation",
		"date":  "2025-09-01T10:00:00Z",
		"schedule": gin.H{
			"venue_id": venueID.String(),
			"allocated_equipment": []gin.H{
				{"equipment_id": equipmentID.String(), "quantity": 3},
			},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, store.createdSchedule)
	assert.Equal(t, venueID, store.createdSchedule.VenueID)
	require.Len(t, store.createdSchedule.Equipment, 1)
	assert.Equal(t, 3, store.createdSchedule.Equipment[0].Quantity)
}

func TestCreateEventRejectsBadSchedule(t *testing.T) {
	store := newFakeStore()
	r := setupRouter(store, uuid.New())

	w := doJSON(t, r, http.MethodPost, "/events", gin.H{
		"title": "Orientation",
		"date":  "2025-09-01T10:00:00Z",
		"schedule": gin.H{
			"venue_id": uuid.New().String(),
			"allocated_equipment": []gin.H{
				{"equipment_id": uuid.New().String(), "quantity": 0},
			},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEventScheduleConflicts(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"insufficient equipment", calendar.ErrInsufficientQuantity},
		{"event already scheduled", calendar.ErrEventAlreadyScheduled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.createErr = tt.err
			r := setupRouter(store, uuid.New())

			w := doJSON(t, r, http.MethodPost, "/events", gin.H{
				"title": "Orientation",
				"date":  "2025-09-01T10:00:00Z",
				"schedule": gin.H{
					"venue_id": uuid.New().String(),
					"allocated_equipment": []gin.H{
						{"equipment_id": uuid.New().String(), "quantity": 3},
					},
				},
			})
			assert.Equal(t, http.StatusConflict, w.Code)
			assert.Empty(t, store.events)
		})
	}
}

func TestCreateEventInvalidDate(t *testing.T) {
	r := setupRouter(newFakeStore(), uuid.New())
	w := doJSON(t, r, http.MethodPost, "/events", gin.H{
		"title": "Tech Fest",
		"date":  "tomorrow",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEventNotFound(t *testing.T) {
	r := setupRouter(newFakeStore(), uuid.New())
	w := doJSON(t, r, http.MethodGet, "/events/"+uuid.New().String(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "event not found", body["message"])
}

func TestRegisterTwiceConflicts(t *testing.T) {
	store := newFakeStore()
	event := &models.Event{Title: "Hackathon", Date: time.Now().Add(24 * time.Hour)}
	store.add(event)
	userID := uuid.New()
	r := setupRouter(store, userID)

	w := doJSON(t, r, http.MethodPost, "/events/"+event.ID.String()+"/register", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/events/"+event.ID.String()+"/register", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, store.registered[event.ID], 1)
}

func TestRegisterUnknownEvent(t *testing.T) {
	r := setupRouter(newFakeStore(), uuid.New())
	w := doJSON(t, r, http.MethodPost, "/events/"+uuid.New().String()+"/register", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnregisterNonMemberIsNoOp(t *testing.T) {
	store := newFakeStore()
	event := &models.Event{Title: "Hackathon", Date: time.Now()}
	store.add(event)
	r := setupRouter(store, uuid.New())

	w := doJSON(t, r, http.MethodPost, "/events/"+event.ID.String()+"/unregister", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAttendeesCount(t *testing.T) {
	store := newFakeStore()
	event := &models.Event{Title: "Hackathon", Date: time.Now()}
	store.add(event)
	store.registered[event.ID][uuid.New()] = time.Now()
	store.registered[event.ID][uuid.New()] = time.Now()
	r := setupRouter(store, uuid.New())

	w := doJSON(t, r, http.MethodGet, "/events/"+event.ID.String()+"/attendees", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AttendeesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, event.ID, resp.EventID)
	assert.Equal(t, 2, resp.TotalAttendees)
	assert.Len(t, resp.Attendees, 2)
}

func TestUpdateEventPartial(t *testing.T) {
	store := newFakeStore()
	event := &models.Event{Title: "Old Title", Description: "keep me", Date: time.Now()}
	store.add(event)
	r := setupRouter(store, uuid.New())

	w := doJSON(t, r, http.MethodPut, "/events/"+event.ID.String(), gin.H{"title": "New Title"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "New Title", store.events[event.ID].Title)
	assert.Equal(t, "keep me", store.events[event.ID].Description)
}

func TestDeleteEvent(t *testing.T) {
	store := newFakeStore()
	event := &models.Event{Title: "Gone", Date: time.Now()}
	store.add(event)
	r := setupRouter(store, uuid.New())

	w := doJSON(t, r, http.MethodDelete, "/events/"+event.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.events)

	w = doJSON(t, r, http.MethodDelete, "/events/"+event.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
