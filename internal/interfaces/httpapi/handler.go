package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/predictfc/football-predict/internal/domain/team"
	"github.com/predictfc/football-predict/internal/platform/logging"
	"github.com/predictfc/football-predict/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	syncService       *usecase.SyncService
	predictionService *usecase.PredictionService
	statsService      *usecase.StatsService
	resolver          usecase.NameResolver
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	syncService *usecase.SyncService,
	predictionService *usecase.PredictionService,
	statsService *usecase.StatsService,
	resolver usecase.NameResolver,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		syncService:       syncService,
		predictionService: predictionService,
		statsService:      statsService,
		resolver:          resolver,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type predictRequest struct {
	HomeTeam string `json:"home_team" validate:"required"`
	AwayTeam string `json:"away_team" validate:"required"`
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Predict")
	defer span.End()

	var req predictRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	prediction, err := h.predictionService.Predict(ctx, req.HomeTeam, req.AwayTeam)
	if err != nil {
		h.logger.WarnContext(ctx, "predict failed", "home", req.HomeTeam, "away", req.AwayTeam, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, prediction)
}

type resolvedTeamDTO struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	ZhName       string   `json:"zhName,omitempty"`
	OfficialName string   `json:"officialName,omitempty"`
	Aliases      []string `json:"aliases,omitempty"`
	Country      string   `json:"country,omitempty"`
	League       string   `json:"league,omitempty"`
}

func teamToResolvedDTO(t team.Team) resolvedTeamDTO {
	return resolvedTeamDTO{
		ID:           t.ID,
		Name:         t.Name,
		ZhName:       t.ZhName,
		OfficialName: t.OfficialName,
		Aliases:      t.Aliases,
		Country:      t.Country,
		League:       t.League,
	}
}

func (h *Handler) ResolveTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveTeam")
	defer span.End()

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(ctx, w, fmt.Errorf("%w: name query parameter is required", usecase.ErrInvalidInput))
		return
	}
	sourceName := strings.TrimSpace(r.URL.Query().Get("source"))
	if sourceName == "" {
		sourceName = "api"
	}

	resolved, ok := h.resolver.Resolve(ctx, name, sourceName)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no team matches %q", usecase.ErrNotFound, name))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToResolvedDTO(resolved))
}

type teamStatsDTO struct {
	TeamID       int64     `json:"teamId"`
	AvgGoalsHome float64   `json:"avgGoalsHome"`
	AvgGoalsAway float64   `json:"avgGoalsAway"`
	WinRateHome  float64   `json:"winRateHome"`
	WinRateAway  float64   `json:"winRateAway"`
	TotalMatches int       `json:"totalMatches"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamStats")
	defer span.End()

	teamID, err := strconv.ParseInt(r.PathValue("teamID"), 10, 64)
	if err != nil || teamID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: team id must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	teamStats, err := h.statsService.Recompute(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team stats failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamStatsDTO{
		TeamID:       teamStats.TeamID,
		AvgGoalsHome: teamStats.AvgGoalsHome,
		AvgGoalsAway: teamStats.AvgGoalsAway,
		WinRateHome:  teamStats.WinRateHome,
		WinRateAway:  teamStats.WinRateAway,
		TotalMatches: teamStats.TotalMatches,
		LastUpdated:  teamStats.LastUpdated,
	})
}

func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSync")
	defer span.End()

	report, err := h.syncService.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync run failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) GetResolverStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetResolverStats")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.resolver.Stats())
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeRequest")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}
	if err := sonic.Unmarshal(body, payload); err != nil {
		return fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
