package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"celestial-server/internal/entity"
	"celestial-server/internal/shared/errors"
	"celestial-server/internal/shared/response"
	"celestial-server/internal/system"
)

type SystemHandler struct {
	service *system.Service
}

func NewSystemHandler(service *system.Service) *SystemHandler {
	return &SystemHandler{service: service}
}

func (h *SystemHandler) Generate(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "generate_system")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req system.GenerateRequest
	if r.ContentLength != 0 {
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
			return
		}
	}

	result, err := h.service.GenerateSystem(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, result)
}

func (h *SystemHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_systems")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	systems, err := h.service.ListSystems(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if systems == nil {
		systems = []system.System{}
	}

	response.Success(w, http.StatusOK, systems)
}

func (h *SystemHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_system")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	star, err := entity.ParseHandle(r.PathValue("star"))
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid star handle", err))
		return
	}

	sys, err := h.service.GetSystem(r.Context(), star)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, sys)
}
