package http

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facility-inventory-api/internal/application/dto"
)

// ProductHandler maneja recepción, consulta y validación de unidades.
type ProductHandler struct {
	products ProductService
	batches  BatchService
	configs  ConfigService
}

// NewProductHandler construye el handler.
func NewProductHandler(products ProductService, batches BatchService, configs ConfigService) *ProductHandler {
	return &ProductHandler{products: products, batches: batches, configs: configs}
}

// decodePayload JSON libre del producto; los números se conservan como json.Number.
func decodePayload(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.New("payload vacío")
	}
	return payload, nil
}

// Validate godoc
// @Summary      Validar producto contra la configuración
// @Description  Devuelve todos los errores (campos requeridos con rutas anidadas y formato de SKU), no solo el primero.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "Producto"
// @Success      200   {object}  facility.ValidationResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/validate [post]
func (h *ProductHandler) Validate(c *fiber.Ctx) error {
	payload, err := decodePayload(c.Body())
	if err != nil {
		return badBody(c)
	}
	res, err := h.configs.Validate(c.Context(), payload, GetFacilityID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Create godoc
// @Summary      Registrar recepción de producto
// @Description  Genera batchId y SKUs según la configuración. Con trackIndividualUnits crea un registro por unidad.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "name, quantity, pricePerUnit, category, sku, batchId, receivedDate, expiryDate, section y campos personalizados"
// @Success      201   {object}  dto.CreateProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	payload, err := decodePayload(c.Body())
	if err != nil {
		return badBody(c)
	}
	units, err := h.products.Create(c.Context(), GetFacilityID(c), payload)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.CreateProductResponse{Units: dto.ToProductUnitResponses(units)}
	if len(units) > 0 {
		out.BatchID = units[0].BatchID
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar unidades
// @Tags         products
// @Produce      json
// @Param        name    query  string  false  "Filtrar por nombre"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	if page.Limit > 100 {
		page.Limit = 100
	}
	units, err := h.products.List(c.Context(), GetFacilityID(c), c.Query("name"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ProductListResponse{
		Items: dto.ToProductUnitResponses(units),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID godoc
// @Summary      Obtener unidad por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID de la unidad"
// @Success      200  {object}  dto.ProductUnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	u, err := h.products.Get(c.Context(), GetFacilityID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductUnitResponse(u))
}

// Batches godoc
// @Summary      Resumen por lote
// @Description  Agregación de lectura: cantidad total, restante, precio promedio ponderado y total por batchId.
// @Tags         products
// @Produce      json
// @Param        name  query  string  false  "Filtrar por nombre"
// @Success      200   {object}  dto.BatchSummaryListResponse
// @Router       /api/products/batches [get]
func (h *ProductHandler) Batches(c *fiber.Ctx) error {
	items, err := h.batches.Summaries(c.Context(), GetFacilityID(c), c.Query("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BatchSummaryListResponse{Items: items})
}

// BatchReport godoc
// @Summary      Reporte PDF de lotes
// @Tags         products
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/batches/report [get]
func (h *ProductHandler) BatchReport(c *fiber.Ctx) error {
	facilityID := GetFacilityID(c)
	doc, err := h.batches.Report(c.Context(), facilityID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="lotes-`+facilityID+`.pdf"`)
	return c.Send(doc)
}
