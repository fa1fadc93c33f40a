package cart

import (
	"errors"
	"net/http"
	"strconv"

	"restaurant-cart/internal/catalog"
	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
	"restaurant-cart/internal/server"
)

// Handler handles HTTP requests for the menu and the cart
type Handler struct {
	manager *Manager
	logger  *logger.Logger
}

// NewHandler creates a new cart handler
func NewHandler(manager *Manager, log *logger.Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  log,
	}
}

// RegisterRoutes adds the menu and cart routes to mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /menu", h.GetMenu)
	mux.HandleFunc("GET /cart", h.GetCart)
	mux.HandleFunc("POST /cart/items", h.AddItem)
	mux.HandleFunc("PATCH /cart/items/{id}", h.UpdateQuantity)
	mux.HandleFunc("DELETE /cart/items/{id}", h.RemoveItem)
	mux.HandleFunc("DELETE /cart", h.ClearCart)
}

type menuItem struct {
	models.CatalogItem
	PriceDisplay string `json:"price_display"`
}

type cartResponse struct {
	Items        []models.OrderLine `json:"items"`
	Count        int                `json:"count"`
	Total        models.Amount      `json:"total"`
	TotalDisplay string             `json:"total_display"`
}

type addItemRequest struct {
	ID int `json:"id"`
}

type updateQuantityRequest struct {
	Delta int `json:"delta"`
}

// GetMenu handles GET /menu?category=veg|nonveg|all
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	filter, err := models.ParseFilter(r.URL.Query().Get("category"))
	if err != nil {
		server.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	items := catalog.Filter(filter)
	response := make([]menuItem, 0, len(items))
	for _, item := range items {
		response = append(response, menuItem{CatalogItem: item, PriceDisplay: item.Price.String()})
	}
	h.writeJSON(w, http.StatusOK, response, requestID)
}

// GetCart handles GET /cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	c, err := h.manager.Cart(r.Context())
	if err != nil {
		h.storeFailure(w, err, "load", requestID)
		return
	}
	h.writeCart(w, c, requestID)
}

// AddItem handles POST /cart/items {"id": n}
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	var req addItemRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		h.badRequest(w, err, requestID)
		return
	}

	item, ok := catalog.FindByID(req.ID)
	if !ok {
		server.WriteError(w, http.StatusNotFound, "Menu item not found", requestID)
		return
	}

	c, err := h.manager.AddItem(r.Context(), item)
	if err != nil {
		h.storeFailure(w, err, OpAddItem, requestID)
		return
	}

	h.logger.Debug("cart_item_added", "Item added to cart", requestID, map[string]interface{}{
		"item_id": item.ID,
		"count":   c.Count(),
	})
	h.writeCart(w, c, requestID)
}

// UpdateQuantity handles PATCH /cart/items/{id} {"delta": n}
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	id, ok := h.pathID(w, r, requestID)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		h.badRequest(w, err, requestID)
		return
	}

	c, err := h.manager.UpdateQuantity(r.Context(), id, req.Delta)
	if errors.Is(err, ErrDeltaOutOfRange) {
		server.WriteErrorFields(w, http.StatusBadRequest, "Invalid quantity change", requestID, map[string]string{
			"delta": err.Error(),
		})
		return
	}
	if err != nil {
		h.storeFailure(w, err, OpUpdateQuantity, requestID)
		return
	}
	h.writeCart(w, c, requestID)
}

// RemoveItem handles DELETE /cart/items/{id}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	id, ok := h.pathID(w, r, requestID)
	if !ok {
		return
	}

	c, err := h.manager.RemoveItem(r.Context(), id)
	if err != nil {
		h.storeFailure(w, err, OpRemoveItem, requestID)
		return
	}
	h.writeCart(w, c, requestID)
}

// ClearCart handles DELETE /cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	c, err := h.manager.ClearCart(r.Context())
	if err != nil {
		h.storeFailure(w, err, OpClearCart, requestID)
		return
	}
	h.writeCart(w, c, requestID)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, requestID string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		server.WriteError(w, http.StatusBadRequest, "Invalid item id", requestID)
		return 0, false
	}
	return id, true
}

func (h *Handler) badRequest(w http.ResponseWriter, err error, requestID string) {
	if errors.Is(err, server.ErrUnsupportedMediaType) {
		server.WriteError(w, http.StatusUnsupportedMediaType, err.Error(), requestID)
		return
	}
	server.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
}

func (h *Handler) storeFailure(w http.ResponseWriter, err error, op, requestID string) {
	h.logger.Error("cart_store_failed", "Cart store unavailable", requestID, err, map[string]interface{}{
		"operation": op,
	})
	server.WriteError(w, http.StatusServiceUnavailable, "Cart could not be updated, please try again", requestID)
}

func (h *Handler) writeCart(w http.ResponseWriter, c models.Cart, requestID string) {
	total := h.manager.Total(c)
	h.writeJSON(w, http.StatusOK, cartResponse{
		Items:        c.Lines,
		Count:        c.Count(),
		Total:        total,
		TotalDisplay: total.String(),
	}, requestID)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}, requestID string) {
	if err := server.WriteJSON(w, status, v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}
