package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sahanw/travelbooking/internal/domain"
	"github.com/sahanw/travelbooking/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type passengerRequest struct {
	FirstName      string     `json:"first_name" binding:"required"`
	Surname        string     `json:"surname" binding:"required"`
	AgeCategory    string     `json:"age_category" binding:"omitempty,agecategory"`
	Nationality    string     `json:"nationality"`
	Gender         string     `json:"gender"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	PassportNumber string     `json:"passport_number"`
	PassportExpiry *time.Time `json:"passport_expiry"`
	NoExpiration   bool       `json:"no_expiration"`
}

type createBookingRequest struct {
	ResourceID   int64              `json:"resource_id" binding:"required"`
	Kind         string             `json:"kind" binding:"required,resourcekind"`
	Units        int                `json:"units"`
	ContactEmail string             `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string             `json:"contact_phone"`
	Passengers   []passengerRequest `json:"passengers" binding:"dive"`
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required,bookingstatus"`
}

type passengerResponse struct {
	FirstName      string     `json:"first_name"`
	Surname        string     `json:"surname"`
	AgeCategory    string     `json:"age_category"`
	Nationality    string     `json:"nationality,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	PassportNumber string     `json:"passport_number,omitempty"`
	PassportExpiry *time.Time `json:"passport_expiry,omitempty"`
	NoExpiration   bool       `json:"no_expiration"`
}

type bookingResponse struct {
	ID              int64               `json:"id"`
	Reference       string              `json:"reference"`
	Kind            string              `json:"kind"`
	Status          string              `json:"status"`
	ResourceID      int64               `json:"resource_id"`
	ResourceName    string              `json:"resource_name"`
	Units           int                 `json:"units"`
	UnitPriceCents  int64               `json:"unit_price_cents"`
	TotalPriceCents int64               `json:"total_price_cents"`
	ContactEmail    string              `json:"contact_email,omitempty"`
	ContactPhone    string              `json:"contact_phone,omitempty"`
	CreatedAt       string              `json:"created_at"`
	Passengers      []passengerResponse `json:"passengers,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id/cancel", h.cancel)
	router.PUT("/:id/status", h.setStatus)
	router.DELETE("/:id", h.delete)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := booking.CreateBookingInput{
		ResourceID:   req.ResourceID,
		Kind:         domain.ResourceKind(req.Kind),
		Units:        req.Units,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	}
	for _, p := range req.Passengers {
		input.Passengers = append(input.Passengers, booking.PassengerInput{
			FirstName:      p.FirstName,
			Surname:        p.Surname,
			AgeCategory:    domain.AgeCategory(p.AgeCategory),
			Nationality:    p.Nationality,
			Gender:         p.Gender,
			DateOfBirth:    p.DateOfBirth,
			PassportNumber: p.PassportNumber,
			PassportExpiry: p.PassportExpiry,
			NoExpiration:   p.NoExpiration,
		})
	}

	created, err := h.service.CreateBooking(c.Request.Context(), principalFrom(c), input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	kind := domain.ResourceKind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind"})
		return
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), principalFrom(c), kind)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	found, err := h.service.GetBooking(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	cancelled, err := h.service.CancelBooking(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func (h *BookingHandler) setStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.SetBookingStatus(c.Request.Context(), principalFrom(c), id, domain.BookingStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) delete(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBooking(c.Request.Context(), principalFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking deleted"})
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:              b.ID,
		Reference:       b.Reference,
		Kind:            string(b.Kind),
		Status:          string(b.Status),
		ResourceID:      b.ResourceID,
		ResourceName:    b.ResourceName,
		Units:           b.Units,
		UnitPriceCents:  b.UnitPriceCents,
		TotalPriceCents: b.TotalPriceCents,
		ContactEmail:    b.ContactEmail,
		ContactPhone:    b.ContactPhone,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
	for _, p := range b.Passengers {
		resp.Passengers = append(resp.Passengers, passengerResponse{
			FirstName:      p.FirstName,
			Surname:        p.Surname,
			AgeCategory:    string(p.AgeCategory),
			Nationality:    p.Nationality,
			Gender:         p.Gender,
			DateOfBirth:    p.DateOfBirth,
			PassportNumber: p.PassportNumber,
			PassportExpiry: p.PassportExpiry,
			NoExpiration:   p.NoExpiration,
		})
	}
	return resp
}
