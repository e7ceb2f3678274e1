package handler

import (
	"errors"
	"strconv"

	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/erp"
	"github.com/JakfarS/invoice-request-mceasy/internal/interfaces/http/dto"
	"github.com/JakfarS/invoice-request-mceasy/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// saleOrderFields is the field set read from the upstream sale.order model on
// listings; detail reads additionally pull the order lines and the note
var (
	saleOrderFields       = []string{"name", "partner_id", "date_order", "amount_total", "state", "invoice_status"}
	saleOrderDetailFields = append(append([]string{}, saleOrderFields...), "order_line", "note")
)

// workflow actions exposed on sale orders, mapped to upstream model methods
var saleOrderActions = map[string]string{
	"confirm": "action_confirm",
	"cancel":  "action_cancel",
	"reset":   "action_draft",
}

// GatewayHandler proxies a small REST surface onto the upstream ERP's
// JSON-RPC API.
type GatewayHandler struct {
	BaseHandler
	client *erp.Client
	logger *zap.Logger
}

// NewGatewayHandler creates a new gateway handler
func NewGatewayHandler(client *erp.Client, logger *zap.Logger) *GatewayHandler {
	return &GatewayHandler{
		client: client,
		logger: logger,
	}
}

// GatewaySaleOrder is the typed shape a sale order crosses the REST boundary
// in. The upstream relational tuple [id, display_name] for the partner is
// flattened into id + name fields.
type GatewaySaleOrder struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	PartnerID     int     `json:"partner_id"`
	PartnerName   string  `json:"partner_name"`
	DateOrder     string  `json:"date_order"`
	AmountTotal   float64 `json:"amount_total"`
	State         string  `json:"state"`
	InvoiceStatus string  `json:"invoice_status"`
	OrderLineIDs  []int   `json:"order_line,omitempty"`
	Note          string  `json:"note,omitempty"`
}

// saleOrderLineBody is one order line in a sale order creation payload
type saleOrderLineBody struct {
	ProductID     int     `json:"product_id" binding:"required,gt=0"`
	Name          string  `json:"name" binding:"max=2000"`
	ProductUomQty float64 `json:"product_uom_qty" binding:"required,gt=0"`
	PriceUnit     float64 `json:"price_unit" binding:"gte=0"`
}

// createSaleOrderBody is the payload for creating a sale order upstream. An
// order needs at least one line; Odoo will not confirm an empty order.
type createSaleOrderBody struct {
	PartnerID int                 `json:"partner_id" binding:"required,gt=0"`
	OrderLine []saleOrderLineBody `json:"order_line" binding:"required,min=1,dive"`
	DateOrder string              `json:"date_order"`
	Note      string              `json:"note" binding:"max=2000"`
}

// orderLineTuples converts the lines to Odoo's one2many create commands,
// the (0, 0, values) tuple per new line.
func (b *createSaleOrderBody) orderLineTuples() []interface{} {
	tuples := make([]interface{}, 0, len(b.OrderLine))
	for _, line := range b.OrderLine {
		values := map[string]interface{}{
			"product_id":      line.ProductID,
			"product_uom_qty": line.ProductUomQty,
		}
		if line.Name != "" {
			values["name"] = line.Name
		}
		if line.PriceUnit > 0 {
			values["price_unit"] = line.PriceUnit
		}
		tuples = append(tuples, []interface{}{0, 0, values})
	}
	return tuples
}

// updateSaleOrderBody carries the writable sale order fields. Pointers
// distinguish absent fields from zero values.
type updateSaleOrderBody struct {
	PartnerID *int    `json:"partner_id" binding:"omitempty,gt=0"`
	DateOrder *string `json:"date_order"`
	Note      *string `json:"note" binding:"omitempty,max=2000"`
}

// Health reports gateway liveness and upstream reachability
// GET /health
func (h *GatewayHandler) Health(c *gin.Context) {
	connected := true
	if _, err := h.client.Version(c.Request.Context()); err != nil {
		h.logger.Warn("upstream health probe failed", zap.Error(err))
		connected = false
	}

	c.JSON(200, gin.H{
		"status":         "ok",
		"service":        "sale-order-gateway",
		"odoo_connected": connected,
	})
}

// ListSaleOrders returns sale orders matching an optional upstream domain
// filter. A malformed domain parameter degrades to no filter.
// GET /api/sale-orders?limit=&offset=&domain=
func (h *GatewayHandler) ListSaleOrders(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 100)
	offset := parseIntQuery(c, "offset", 0)
	domain := erp.ParseDomain(c.Query("domain"))

	records, err := h.client.SearchRead(c.Request.Context(), "sale.order", domain, saleOrderFields, limit, offset)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	orders := make([]GatewaySaleOrder, 0, len(records))
	for _, rec := range records {
		orders = append(orders, mapSaleOrder(rec))
	}

	h.Success(c, gin.H{"sale_orders": orders, "count": len(orders)})
}

// GetSaleOrder returns one sale order by upstream id
// GET /api/sale-orders/:id
func (h *GatewayHandler) GetSaleOrder(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	records, err := h.client.Read(c.Request.Context(), "sale.order", []int{id}, saleOrderDetailFields)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	if len(records) == 0 {
		h.NotFound(c, "Sale order not found")
		return
	}

	h.Success(c, mapSaleOrder(records[0]))
}

// CreateSaleOrder creates a sale order upstream
// POST /api/sale-orders
func (h *GatewayHandler) CreateSaleOrder(c *gin.Context) {
	var body createSaleOrderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	values := map[string]interface{}{
		"partner_id": body.PartnerID,
		"order_line": body.orderLineTuples(),
	}
	if body.DateOrder != "" {
		values["date_order"] = body.DateOrder
	}
	if body.Note != "" {
		values["note"] = body.Note
	}

	id, err := h.client.Create(c.Request.Context(), "sale.order", values)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	h.Created(c, gin.H{"id": id})
}

// UpdateSaleOrder writes fields on a sale order upstream
// PUT /api/sale-orders/:id
func (h *GatewayHandler) UpdateSaleOrder(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var body updateSaleOrderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	values := map[string]interface{}{}
	if body.PartnerID != nil {
		values["partner_id"] = *body.PartnerID
	}
	if body.DateOrder != nil {
		values["date_order"] = *body.DateOrder
	}
	if body.Note != nil {
		values["note"] = *body.Note
	}
	if len(values) == 0 {
		h.BadRequest(c, "No writable fields in request body")
		return
	}

	if err := h.client.Write(c.Request.Context(), "sale.order", []int{id}, values); err != nil {
		h.upstreamError(c, err)
		return
	}

	h.Success(c, gin.H{"id": id, "updated": true})
}

// SaleOrderAction runs a workflow action (confirm, cancel, reset) upstream
// POST /api/sale-orders/:id/:action
func (h *GatewayHandler) SaleOrderAction(action string) gin.HandlerFunc {
	method := saleOrderActions[action]
	return func(c *gin.Context) {
		id, ok := h.pathID(c)
		if !ok {
			return
		}

		if err := h.client.CallMethod(c.Request.Context(), "sale.order", method, []int{id}); err != nil {
			h.upstreamError(c, err)
			return
		}

		h.Success(c, gin.H{"id": id, "action": action})
	}
}

// pathID parses the numeric upstream id from the route
func (h *GatewayHandler) pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.BadRequest(c, "Invalid sale order ID")
		return 0, false
	}
	return id, true
}

// upstreamError maps RPC-level rejections to 502 and transport failures to 503
func (h *GatewayHandler) upstreamError(c *gin.Context, err error) {
	var rpcErr *erp.RPCError
	if errors.As(err, &rpcErr) {
		h.logger.Error("upstream rpc error",
			zap.Int("code", rpcErr.Code),
			zap.String("message", rpcErr.Message),
		)
		h.ErrorWithCode(c, dto.ErrCodeUpstream, "Upstream ERP rejected the request")
		return
	}

	h.logger.Error("upstream unreachable", zap.Error(err))
	h.ErrorWithCode(c, dto.ErrCodeUpstreamUnavailable, "Upstream ERP is unavailable")
}

// mapSaleOrder flattens an upstream record into the REST shape. Odoo encodes
// absent scalars as boolean false, so every field is type-checked.
func mapSaleOrder(rec map[string]interface{}) GatewaySaleOrder {
	order := GatewaySaleOrder{
		ID:            intField(rec, "id"),
		Name:          stringField(rec, "name"),
		DateOrder:     stringField(rec, "date_order"),
		AmountTotal:   floatField(rec, "amount_total"),
		State:         stringField(rec, "state"),
		InvoiceStatus: stringField(rec, "invoice_status"),
		Note:          stringField(rec, "note"),
	}

	if lines, ok := rec["order_line"].([]interface{}); ok {
		order.OrderLineIDs = make([]int, 0, len(lines))
		for _, line := range lines {
			if id, ok := line.(float64); ok {
				order.OrderLineIDs = append(order.OrderLineIDs, int(id))
			}
		}
	}

	if tuple, ok := rec["partner_id"].([]interface{}); ok && len(tuple) == 2 {
		if id, ok := tuple[0].(float64); ok {
			order.PartnerID = int(id)
		}
		if name, ok := tuple[1].(string); ok {
			order.PartnerName = name
		}
	}

	return order
}

func intField(rec map[string]interface{}, key string) int {
	if v, ok := rec[key].(float64); ok {
		return int(v)
	}
	return 0
}

func floatField(rec map[string]interface{}, key string) float64 {
	if v, ok := rec[key].(float64); ok {
		return v
	}
	return 0
}

func stringField(rec map[string]interface{}, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
