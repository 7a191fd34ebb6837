// Package handler exposes the member operations over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pauloqxm/adatualiza/internal/members/match"
	"github.com/pauloqxm/adatualiza/internal/members/models"
	"github.com/pauloqxm/adatualiza/internal/members/service"
	"github.com/pauloqxm/adatualiza/internal/platform/middleware"
	"github.com/pauloqxm/adatualiza/internal/transport/http/shared"
	dErrors "github.com/pauloqxm/adatualiza/pkg/domain-errors"
	"github.com/pauloqxm/adatualiza/pkg/format"
)

// Service defines the member operations the handler needs.
type Service interface {
	Search(ctx context.Context, q match.Query) ([]models.Member, error)
	Register(ctx context.Context, upd models.Update) (int, error)
	Amend(ctx context.Context, rowPosition int, upd models.Update) error
	Options(ctx context.Context) (service.Options, error)
}

// Handler handles member endpoints.
type Handler struct {
	logger  *slog.Logger
	members Service
}

// New creates a member Handler.
func New(members Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		members: members,
	}
}

// Register registers the member routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	mr := chi.NewRouter()
	mr.Use(middleware.Recovery(h.logger))
	mr.Use(middleware.RequestID)
	mr.Use(middleware.Logger(h.logger))
	mr.Use(middleware.Timeout(30 * time.Second))
	mr.Use(middleware.ContentTypeJSON)
	mr.Post("/members/search", h.handleSearch)
	mr.Post("/members", h.handleRegister)
	mr.Put("/members/{row}", h.handleAmend)
	mr.Get("/members/options", h.handleOptions)

	r.Mount("/", mr)
}

// searchRequest is the wire form of a member lookup. birth_date accepts the
// same flexible formats the registration form does.
type searchRequest struct {
	BirthDate    string `json:"birth_date"`
	MotherName   string `json:"mother_name"`
	NationalID   string `json:"national_id"`
	NameContains string `json:"name_contains"`
}

type searchResponse struct {
	Members []models.Member `json:"members"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid search request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	birth, ok := format.ParseDate(req.BirthDate)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "birth_date is required (dd/mm/yyyy)"))
		return
	}

	found, err := h.members.Search(ctx, match.Query{
		BirthDate:    birth,
		MotherName:   req.MotherName,
		NationalID:   req.NationalID,
		NameContains: req.NameContains,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "member search failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	if found == nil {
		found = []models.Member{}
	}
	shared.WriteJSON(w, http.StatusOK, searchResponse{Members: found})
}

type registerResponse struct {
	MemberID int `json:"member_id"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var upd models.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.logger.WarnContext(ctx, "invalid register request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	id, err := h.members.Register(ctx, upd)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeValidation) {
			h.logger.WarnContext(ctx, "member registration rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
		} else {
			h.logger.ErrorContext(ctx, "member registration failed",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, registerResponse{MemberID: id})
}

func (h *Handler) handleAmend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "row must be a number"))
		return
	}

	var upd models.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.logger.WarnContext(ctx, "invalid amend request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.members.Amend(ctx, row, upd); err != nil {
		if dErrors.Is(err, dErrors.CodeValidation) || dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.WarnContext(ctx, "member amendment rejected",
				"request_id", requestID,
				"row", row,
				"error", err.Error(),
			)
		} else {
			h.logger.ErrorContext(ctx, "member amendment failed",
				"request_id", requestID,
				"row", row,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts, err := h.members.Options(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "options lookup failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, opts)
}
