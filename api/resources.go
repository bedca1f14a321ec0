package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sahanw/travelbooking/internal/domain"
	"github.com/sahanw/travelbooking/internal/service/resources"
)

type ResourceHandler struct {
	service resources.ResourceUseCase
}

type resourceRequest struct {
	Kind           string    `json:"kind" binding:"required,resourcekind"`
	Name           string    `json:"name" binding:"required"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	Description    string    `json:"description"`
	StartsAt       time.Time `json:"starts_at" binding:"required"`
	EndsAt         time.Time `json:"ends_at" binding:"required"`
	UnitPriceCents int64     `json:"unit_price_cents" binding:"min=0"`
	CapacityTotal  int       `json:"capacity_total" binding:"required,min=1"`
	ImageURL       string    `json:"image_url"`
}

type resourceResponse struct {
	ID             int64  `json:"id"`
	Kind           string `json:"kind"`
	Name           string `json:"name"`
	Origin         string `json:"origin,omitempty"`
	Destination    string `json:"destination,omitempty"`
	Description    string `json:"description,omitempty"`
	StartsAt       string `json:"starts_at"`
	EndsAt         string `json:"ends_at"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	CapacityTotal  int    `json:"capacity_total"`
	CapacityUsed   int    `json:"capacity_used"`
	Available      int    `json:"available"`
	ImageURL       string `json:"image_url,omitempty"`
}

func NewResourceHandler(service resources.ResourceUseCase) *ResourceHandler {
	return &ResourceHandler{service: service}
}

// RegisterPublic mounts the read-only catalog routes.
func (h *ResourceHandler) RegisterPublic(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

// RegisterAdmin mounts the catalog mutations; the service rejects
// non-admin principals regardless.
func (h *ResourceHandler) RegisterAdmin(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *ResourceHandler) list(c *gin.Context) {
	kind := domain.ResourceKind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind"})
		return
	}

	list, err := h.service.List(c.Request.Context(), kind)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]resourceResponse, 0, len(list))
	for i := range list {
		out = append(out, toResourceResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ResourceHandler) get(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}
	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResourceResponse(res))
}

func (h *ResourceHandler) create(c *gin.Context) {
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), principalFrom(c), toResourceInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResourceResponse(created))
}

func (h *ResourceHandler) update(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), principalFrom(c), id, toResourceInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResourceResponse(updated))
}

func (h *ResourceHandler) delete(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), principalFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "resource deleted"})
}

func resourceID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func toResourceInput(req resourceRequest) resources.ResourceInput {
	return resources.ResourceInput{
		Kind:           domain.ResourceKind(req.Kind),
		Name:           req.Name,
		Origin:         req.Origin,
		Destination:    req.Destination,
		Description:    req.Description,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		UnitPriceCents: req.UnitPriceCents,
		CapacityTotal:  req.CapacityTotal,
		ImageURL:       req.ImageURL,
	}
}

func toResourceResponse(r *domain.Resource) resourceResponse {
	return resourceResponse{
		ID:             r.ID,
		Kind:           string(r.Kind),
		Name:           r.Name,
		Origin:         r.Origin,
		Destination:    r.Destination,
		Description:    r.Description,
		StartsAt:       r.StartsAt.Format(time.RFC3339),
		EndsAt:         r.EndsAt.Format(time.RFC3339),
		UnitPriceCents: r.UnitPriceCents,
		CapacityTotal:  r.CapacityTotal,
		CapacityUsed:   r.CapacityUsed,
		Available:      r.Available(),
		ImageURL:       r.ImageURL,
	}
}
