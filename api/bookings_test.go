package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sahanw/travelbooking/internal/domain"
	"github.com/sahanw/travelbooking/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, actor domain.Principal, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, actor domain.Principal, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) SetBookingStatus(ctx context.Context, actor domain.Principal, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) DeleteBooking(ctx context.Context, actor domain.Principal, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, actor domain.Principal, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, actor domain.Principal, kind domain.ResourceKind) ([]domain.Booking, error) {
	args := m.Called(ctx, actor, kind)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

var testPrincipal = domain.Principal{CustomerID: 7, Email: "customer@example.com"}

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidators()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(principalKey, testPrincipal)
	return c, w
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t)
	body, _ := json.Marshal(createBookingRequest{
		ResourceID: 4,
		Kind:       "TOUR",
		Units:      3,
	})
	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.Booking{
		ID:              42,
		Reference:       "ref-123",
		Kind:            domain.ResourceKindTour,
		Status:          domain.BookingStatusConfirmed,
		ResourceID:      4,
		ResourceName:    "Kandy Highlands Tour",
		Units:           3,
		UnitPriceCents:  10000,
		TotalPriceCents: 30000,
	}
	mockService.On("CreateBooking", c.Request.Context(), testPrincipal, mock.Anything).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ref-123", response.Reference)
	assert.Equal(t, string(domain.BookingStatusConfirmed), response.Status)
	assert.Equal(t, int64(30000), response.TotalPriceCents)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_InvalidKindRejectedByBinding(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t)
	body, _ := json.Marshal(createBookingRequest{ResourceID: 4, Kind: "CRUISE", Units: 1})
	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_create_NotEnoughCapacity(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t)
	body, _ := json.Marshal(createBookingRequest{ResourceID: 4, Kind: "TOUR", Units: 3})
	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateBooking", c.Request.Context(), testPrincipal, mock.Anything).
		Return(nil, domain.ErrNotEnoughCapacity)

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t)
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	c.Request = httptest.NewRequest("PUT", "/api/bookings/42/cancel", nil)

	cancelled := &domain.Booking{ID: 42, Status: domain.BookingStatusCancelled}
	mockService.On("CancelBooking", c.Request.Context(), testPrincipal, int64(42)).Return(cancelled, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, string(domain.BookingStatusCancelled), response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService)

			c, w := testContext(t)
			c.Params = gin.Params{{Key: "id", Value: "42"}}
			c.Request = httptest.NewRequest("PUT", "/api/bookings/42/cancel", nil)

			mockService.On("CancelBooking", c.Request.Context(), testPrincipal, int64(42)).Return(nil, tc.err)

			handler.cancel(c)

			assert.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestBookingHandler_setStatus(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t)
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	body, _ := json.Marshal(setStatusRequest{Status: "COMPLETED"})
	c.Request = httptest.NewRequest("PUT", "/api/bookings/42/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	updated := &domain.Booking{ID: 42, Status: domain.BookingStatusCompleted}
	mockService.On("SetBookingStatus", c.Request.Context(), testPrincipal, int64(42), domain.BookingStatusCompleted).
		Return(updated, nil)

	handler.setStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_list(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t)
	c.Request = httptest.NewRequest("GET", "/api/bookings", nil)

	bookings := []domain.Booking{
		{ID: 2, Status: domain.BookingStatusConfirmed},
		{ID: 1, Status: domain.BookingStatusCancelled},
	}
	mockService.On("ListBookings", c.Request.Context(), testPrincipal, domain.ResourceKind("")).Return(bookings, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 2)
	assert.Equal(t, int64(2), response[0].ID)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_delete_InvalidID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest("DELETE", "/api/bookings/abc", nil)

	handler.delete(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "DeleteBooking")
}
