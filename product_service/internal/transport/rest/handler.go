// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/inventario/inventario/pkg/web"
	producterrors "github.com/inventario/inventario/product_service/internal/errors"
	"github.com/inventario/inventario/product_service/internal/service"
)

// Handler serves the plain JSON product API.
// Mutations check existence first; the store still rejects a lost race with a sentinel error.
type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest", "api", "v1"),
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route(V1BasePath, func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)
		r.Get(ByIDsPath, h.FindAllByID)
		r.Get(ByIDsPath+"/", h.FindAllByID)
		r.Get(ItemPath, h.FindByID)
		r.Put(ItemPath, h.Update)
		r.Delete(ItemPath, h.DeleteByID)
	})
}

// FindAll responds with every product, or 204 when there are none.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	if len(list) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindByID checks existence before loading the product.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParsePathID(w, r, h.logger)
	if !ok {
		return
	}
	if !h.requireExisting(w, r, id) {
		return
	}
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, id, "retrieve")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// FindAllByID responds with the products found among the requested ids, possibly none.
func (h *Handler) FindAllByID(w http.ResponseWriter, r *http.Request) {
	ids, ok := web.ParseIDList(w, r, h.logger, idsParam)
	if !ok {
		return
	}
	list, err := h.service.FindAllByID(r.Context(), ids)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving products by IDs", "IDs", ids, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Retrieved products by IDs", "requested", len(ids), "found", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// Create stores a product under the id given in the body. 409 if the id is taken.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto service.ProductDto
	if !web.DecodeJSON(w, r, h.logger, &dto) {
		return
	}
	if !h.requireAbsent(w, r, dto.ID) {
		return
	}
	created, err := h.service.Save(r.Context(), dto)
	if err != nil {
		respondServiceError(w, r, h.logger, err, dto.ID, "create")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, created)
}

// Update replaces the product addressed by the path id.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParsePathID(w, r, h.logger)
	if !ok {
		return
	}
	var dto service.ProductDto
	if !web.DecodeJSON(w, r, h.logger, &dto) {
		return
	}
	if !h.requireExisting(w, r, id) {
		return
	}
	updated, err := h.service.Update(r.Context(), id, dto)
	if err != nil {
		respondServiceError(w, r, h.logger, err, id, "update")
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParsePathID(w, r, h.logger)
	if !ok {
		return
	}
	if !h.requireExisting(w, r, id) {
		return
	}
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, id, "delete")
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) requireExisting(w http.ResponseWriter, r *http.Request, id int64) bool {
	return checkExistence(w, r, h.service, h.logger, id, true)
}

func (h *Handler) requireAbsent(w http.ResponseWriter, r *http.Request, id int64) bool {
	return checkExistence(w, r, h.service, h.logger, id, false)
}

// checkExistence writes 404 (want true) or 409 (want false) when the product state differs and reports whether to go on.
func checkExistence(w http.ResponseWriter, r *http.Request, svc service.ProductService, logger *slog.Logger, id int64, want bool) bool {
	exists, err := svc.ExistsByID(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "Error checking product existence", "ID", id, "error", err)
		web.RespondError(w, logger, http.StatusInternalServerError, fmt.Sprintf("Failed to check product with ID %d", id))
		return false
	}
	if exists == want {
		return true
	}
	if want {
		logger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondError(w, logger, http.StatusNotFound, notFoundMessage(id))
		return false
	}
	logger.WarnContext(r.Context(), "Product already exists", "ID", id)
	web.RespondError(w, logger, http.StatusConflict, conflictMessage(id))
	return false
}

// respondServiceError maps service errors to status codes. action names the failed operation in the 500 message.
func respondServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, id int64, action string) {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		fieldErrors := make(map[string]string, len(validationErrors))
		for _, fieldErr := range validationErrors {
			fieldErrors[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
		logger.WarnContext(r.Context(), "Validation errors occurred", "errors", fieldErrors)
		web.RespondValidationErrors(w, logger, fieldErrors)
	case errors.Is(err, producterrors.ErrInvalidProduct):
		logger.WarnContext(r.Context(), "Invalid product", "ID", id, "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid request body")
	case errors.Is(err, producterrors.ErrProductNotFound):
		logger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondError(w, logger, http.StatusNotFound, notFoundMessage(id))
	case errors.Is(err, producterrors.ErrProductExists):
		logger.WarnContext(r.Context(), "Product already exists", "ID", id)
		web.RespondError(w, logger, http.StatusConflict, conflictMessage(id))
	default:
		logger.ErrorContext(r.Context(), "Error processing product", "action", action, "ID", id, "error", err)
		web.RespondError(w, logger, http.StatusInternalServerError, fmt.Sprintf("Failed to %s product with ID %d", action, id))
	}
}

func notFoundMessage(id int64) string {
	return fmt.Sprintf("Product with ID %d not found", id)
}

func conflictMessage(id int64) string {
	return fmt.Sprintf("Product with ID %d already exists", id)
}
