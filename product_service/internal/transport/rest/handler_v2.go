package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inventario/inventario/pkg/web"
	"github.com/inventario/inventario/product_service/internal/service"
	"github.com/inventario/inventario/product_service/internal/transport/rest/hal"
)

// productListRel is the relation under which collections embed their products.
const productListRel = "productList"

// ProductModel is a product decorated with its HAL links.
type ProductModel struct {
	service.ProductDto
	Links hal.Links `json:"_links"`
}

// HALHandler serves the hypermedia product API.
type HALHandler struct {
	service   service.ProductService
	assembler hal.Assembler
	logger    *slog.Logger
}

func NewHALHandler(service service.ProductService, logger *slog.Logger) *HALHandler {
	return &HALHandler{
		service:   service,
		assembler: hal.NewAssembler(V2BasePath, ItemPath),
		logger:    logger.With("component", "rest", "api", "v2"),
	}
}

// RegisterRoutes registers the HAL routes under V2BasePath.
func (h *HALHandler) RegisterRoutes(r chi.Router) {
	r.Route(V2BasePath, func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)
		r.Get(ByIDsPath, h.FindAllByID)
		r.Get(ByIDsPath+"/", h.FindAllByID)
		r.Get(ItemPath, h.FindByID)
		r.Put(ItemPath, h.Update)
		r.Delete(ItemPath, h.DeleteByID)
	})
}

func (h *HALHandler) FindAll(w http.ResponseWriter, r *http.Request) {
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

	origin := hal.Origin(r)
	models := make([]ProductModel, len(list))
	for i, p := range list {
		models[i] = h.toModel(origin, p)
	}
	web.RespondWithContentType(w, h.logger, http.StatusOK, web.ContentTypeHAL, hal.Collection[ProductModel]{
		Embedded: map[string][]ProductModel{productListRel: models},
		Links:    h.assembler.CollectionLinks(origin),
	})
}

// FindByID loads the product directly; a missing product maps to 404.
func (h *HALHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParsePathID(w, r, h.logger)
	if !ok {
		return
	}
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, id, "retrieve")
		return
	}
	h.respondModel(w, r, found)
}

// FindAllByID responds with a plain array. Items carry no links.
func (h *HALHandler) FindAllByID(w http.ResponseWriter, r *http.Request) {
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
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

func (h *HALHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto service.ProductDto
	if !web.DecodeJSON(w, r, h.logger, &dto) {
		return
	}
	if !checkExistence(w, r, h.service, h.logger, dto.ID, false) {
		return
	}
	created, err := h.service.Save(r.Context(), dto)
	if err != nil {
		respondServiceError(w, r, h.logger, err, dto.ID, "create")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	h.respondModel(w, r, created)
}

func (h *HALHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParsePathID(w, r, h.logger)
	if !ok {
		return
	}
	var dto service.ProductDto
	if !web.DecodeJSON(w, r, h.logger, &dto) {
		return
	}
	if !checkExistence(w, r, h.service, h.logger, id, true) {
		return
	}
	updated, err := h.service.Update(r.Context(), id, dto)
	if err != nil {
		respondServiceError(w, r, h.logger, err, id, "update")
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	h.respondModel(w, r, updated)
}

func (h *HALHandler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParsePathID(w, r, h.logger)
	if !ok {
		return
	}
	if !checkExistence(w, r, h.service, h.logger, id, true) {
		return
	}
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, id, "delete")
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *HALHandler) respondModel(w http.ResponseWriter, r *http.Request, product *service.ProductDto) {
	web.RespondWithContentType(w, h.logger, http.StatusOK, web.ContentTypeHAL, h.toModel(hal.Origin(r), *product))
}

func (h *HALHandler) toModel(origin string, product service.ProductDto) ProductModel {
	return ProductModel{
		ProductDto: product,
		Links:      h.assembler.ItemLinks(origin, product.ID),
	}
}
