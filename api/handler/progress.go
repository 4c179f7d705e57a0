package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/pathcraft/backend/api/transport"
	"github.com/pathcraft/backend/domain"
	"github.com/pathcraft/backend/pkg/httpcontext"
	"github.com/pathcraft/backend/repository"
	progressUC "github.com/pathcraft/backend/usecase/progress"
)

type ProgressHandler struct {
	baseHandler
	uc *progressUC.UseCase
}

func NewProgressHandler(uc *progressUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Start tracking a path
// @Tags progress
// @Router /api/v1/progress/{pathId} [post]
func (h *ProgressHandler) StartTracking(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	view, created, err := h.uc.StartTracking(stdCtx, userID, pathParam(ctx, "pathId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if created {
		h.respondSuccess(ctx, http.StatusCreated, view, "Started tracking path")
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view, "Already tracking this path")
}

// @Summary Get progress for a path
// @Tags progress
// @Router /api/v1/progress/{pathId} [get]
func (h *ProgressHandler) GetProgress(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	view, err := h.uc.GetProgress(stdCtx, userID, pathParam(ctx, "pathId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view, "")
}

// @Summary Update progress status
// @Tags progress
// @Router /api/v1/progress/{pathId} [put]
func (h *ProgressHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ProgressStatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}
	if details := transport.Validate(req); details != nil {
		h.respondInvalid(ctx, details)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	record, err := h.uc.UpdateStatus(stdCtx, userID, pathParam(ctx, "pathId"), req.Status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"progress": record}, "Progress updated")
}

// @Summary Mark a step complete or incomplete
// @Tags progress
// @Router /api/v1/progress/{pathId}/steps/{stepId} [put]
func (h *ProgressHandler) ToggleStep(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ToggleStepRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}
	if details := transport.Validate(req); details != nil {
		h.respondInvalid(ctx, details)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	view, err := h.uc.ToggleStep(stdCtx, userID, pathParam(ctx, "pathId"), pathParam(ctx, "stepId"), *req.Completed)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view, "")
}

// @Summary List the user's progress across all paths
// @Tags progress
// @Router /api/v1/user/progress [get]
func (h *ProgressHandler) ListUserProgress(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.ProgressFilter{
		Status: string(ctx.QueryArgs().Peek("status")),
		Limit:  parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset: parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}
	if filter.Status != "" && !domain.ValidProgressStatus(filter.Status) {
		h.respondError(ctx, domain.ErrInvalidStatus)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	items, err := h.uc.ListUserProgress(stdCtx, userID, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"progress": items,
		"total":    len(items),
	}, "")
}
