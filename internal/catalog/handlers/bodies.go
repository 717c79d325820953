package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"celestial-server/internal/catalog"
	"celestial-server/internal/entity"
	"celestial-server/internal/shared/errors"
	"celestial-server/internal/shared/response"
)

// maxCreateBody bounds the JSON accepted by Create.
const maxCreateBody = 1 << 20

type BodyHandler struct {
	service *catalog.Service
}

func NewBodyHandler(service *catalog.Service) *BodyHandler {
	return &BodyHandler{service: service}
}

func parseHandle(r *http.Request) (entity.Handle, error) {
	raw := r.PathValue("handle")
	if raw == "" {
		return 0, errors.Validation("body handle is required")
	}
	h, err := entity.ParseHandle(raw)
	if err != nil {
		return 0, errors.WrapValidation("invalid body handle", err)
	}
	return h, nil
}

func (h *BodyHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_body")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	handle, err := parseHandle(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	view, err := h.service.Get(r.Context(), handle)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, view)
}

func (h *BodyHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_body_children")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	handle, err := parseHandle(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	children, err := h.service.Children(r.Context(), handle)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, children)
}

func (h *BodyHandler) GetAncestors(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_body_ancestors")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	handle, err := parseHandle(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	ancestors, err := h.service.Ancestors(r.Context(), handle)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if ancestors == nil {
		ancestors = []catalog.View{}
	}

	response.Success(w, http.StatusOK, ancestors)
}

func (h *BodyHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_body")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req catalog.CreateRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCreateBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	view, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, view)
}

func (h *BodyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "body_stats")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	counts, err := h.service.Counts(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if counts == nil {
		counts = []catalog.KindCount{}
	}

	response.Success(w, http.StatusOK, counts)
}
