package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/pkg/httpcontext"
	labelUC "github.com/taskforge/backend/usecase/label"
)

type LabelHandler struct {
	baseHandler
	uc *labelUC.UseCase
}

func NewLabelHandler(uc *labelUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *LabelHandler {
	return &LabelHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List labels with task counts
// @Tags labels
// @Router /api/v1/labels [get]
func (h *LabelHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	labels, err := h.uc.List(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, labels)
}

// @Summary Create label
// @Tags labels
// @Router /api/v1/labels [post]
func (h *LabelHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.LabelCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	label, err := h.uc.Create(stdCtx, userID, req.Name, req.Color)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, label)
}

// @Summary Get label
// @Tags labels
// @Router /api/v1/labels/{id} [get]
func (h *LabelHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	labelID, ok := h.labelID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	label, err := h.uc.Get(stdCtx, userID, labelID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, label)
}

// @Summary Update label
// @Tags labels
// @Router /api/v1/labels/{id} [put]
func (h *LabelHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	labelID, ok := h.labelID(ctx)
	if !ok {
		return
	}

	var req transport.LabelUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	label, err := h.uc.Update(stdCtx, userID, labelID, labelUC.LabelPatch{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, label)
}

// @Summary Delete label
// @Tags labels
// @Router /api/v1/labels/{id} [delete]
func (h *LabelHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	labelID, ok := h.labelID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, userID, labelID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *LabelHandler) labelID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing label id")
		return "", false
	}
	return id, true
}
