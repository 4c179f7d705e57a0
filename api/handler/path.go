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
	pathUC "github.com/pathcraft/backend/usecase/path"
)

type PathHandler struct {
	baseHandler
	uc *pathUC.UseCase
}

func NewPathHandler(uc *pathUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *PathHandler {
	return &PathHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create a learning path
// @Tags paths
// @Router /api/v1/paths [post]
func (h *PathHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	req, details, err := decodePathRequest(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if details != nil {
		h.respondInvalid(ctx, details)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	path := req.ToDomain()
	path.AuthorID = userID

	created, err := h.uc.CreatePath(stdCtx, path)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, map[string]interface{}{"path": created}, "Path created")
}

// @Summary Get a learning path
// @Tags paths
// @Router /api/v1/paths/{pathId} [get]
func (h *PathHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	path, err := h.uc.GetPath(stdCtx, userID, pathParam(ctx, "pathId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"path": path}, "")
}

// @Summary List learning paths
// @Tags paths
// @Router /api/v1/paths [get]
func (h *PathHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	args := ctx.QueryArgs()
	filter := repository.PathFilter{
		Category:   string(args.Peek("category")),
		Limit:      parseInt(string(args.Peek("limit")), 50),
		Offset:     parseInt(string(args.Peek("offset")), 0),
		PublicOnly: true,
	}
	if string(args.Peek("mine")) == "true" {
		filter.AuthorID = userID
		filter.PublicOnly = false
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	paths, err := h.uc.ListPaths(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"paths": paths,
		"total": len(paths),
	}, "")
}

// @Summary List the user's own paths
// @Tags paths
// @Router /api/v1/user/paths [get]
func (h *PathHandler) ListMine(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	args := ctx.QueryArgs()
	filter := repository.PathFilter{
		AuthorID: userID,
		Limit:    parseInt(string(args.Peek("limit")), 50),
		Offset:   parseInt(string(args.Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	paths, err := h.uc.ListPaths(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"paths": paths,
		"total": len(paths),
	}, "")
}

// @Summary List public path categories with counts
// @Tags paths
// @Router /api/v1/categories [get]
func (h *PathHandler) Categories(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	categories, err := h.uc.ListCategories(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if categories == nil {
		categories = []domain.CategoryCount{}
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"categories": categories}, "")
}

// @Summary Update a learning path
// @Tags paths
// @Router /api/v1/paths/{pathId} [put]
func (h *PathHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	req, details, err := decodePathRequest(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if details != nil {
		h.respondInvalid(ctx, details)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	path := req.ToDomain()
	path.ID = pathParam(ctx, "pathId")

	updated, err := h.uc.UpdatePath(stdCtx, userID, path)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"path": updated}, "Path updated")
}

// @Summary Delete a learning path
// @Tags paths
// @Router /api/v1/paths/{pathId} [delete]
func (h *PathHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeletePath(stdCtx, userID, pathParam(ctx, "pathId")); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil, "Path deleted")
}

// @Summary Clone a public path into the user's account
// @Tags paths
// @Router /api/v1/paths/{pathId}/clone [post]
func (h *PathHandler) Clone(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	clone, err := h.uc.ClonePath(stdCtx, userID, pathParam(ctx, "pathId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, map[string]interface{}{"path": clone}, "Path cloned")
}

func decodePathRequest(ctx *fasthttp.RequestCtx) (*transport.PathRequest, []transport.FieldError, error) {
	var req transport.PathRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		return nil, nil, domain.ErrInvalidPayload
	}
	if details := transport.Validate(req); details != nil {
		return nil, details, nil
	}
	return &req, nil, nil
}
