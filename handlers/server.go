package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/clubstack/backoffice/models"
	apperrors "github.com/clubstack/backoffice/pkg/errors"
	"github.com/clubstack/backoffice/services"
	"github.com/clubstack/backoffice/shared/utils"
)

// APIServer manages all API routes and handlers
type APIServer struct {
	syncService     *services.SyncService
	memberService   *services.MemberService
	conflictService *services.ConflictService
	catalogService  *services.CatalogService
}

// NewAPIServer wires the service graph on top of one database handle and
// one commerce gateway.
func NewAPIServer(db *gorm.DB, gateway services.CommerceGateway) *APIServer {
	catalogService := services.NewCatalogService(db)
	converterService := services.NewConverterService(gateway)
	reconcileService := services.NewReconcileService(db, catalogService)
	conflictService := services.NewConflictService(db)
	syncService := services.NewSyncService(db, gateway, catalogService, converterService, reconcileService, conflictService)

	return &APIServer{
		syncService:     syncService,
		memberService:   services.NewMemberService(db),
		conflictService: conflictService,
		catalogService:  catalogService,
	}
}

// SetupRoutes configures all API routes
func (s *APIServer) SetupRoutes(mux *http.ServeMux) {
	// Sync routes
	mux.Handle("/api/sync/commerce", utils.PanicRecoveryMiddleware(http.HandlerFunc(s.handleCommerceSync)))
	mux.Handle("/api/sync/conflicts", utils.PanicRecoveryMiddleware(http.HandlerFunc(s.handleConflictAudit)))

	// Member routes
	mux.Handle("/api/members", utils.PanicRecoveryMiddleware(http.HandlerFunc(s.handleMembers)))
	mux.Handle("/api/members/", utils.PanicRecoveryMiddleware(http.HandlerFunc(s.handleMemberByID)))

	// Conflict routes
	mux.Handle("/api/conflicts", utils.PanicRecoveryMiddleware(http.HandlerFunc(s.handleConflicts)))
	mux.Handle("/api/conflicts/", utils.PanicRecoveryMiddleware(http.HandlerFunc(s.handleConflictByID)))

	// Transaction routes
	mux.Handle("/api/transactions/issues", utils.PanicRecoveryMiddleware(http.HandlerFunc(s.handleTransactionIssues)))
}

// respondWithServiceError maps service errors onto HTTP responses
func respondWithServiceError(w http.ResponseWriter, err error) {
	if apiErr := apperrors.GetAPIError(err); apiErr != nil {
		slog.Error("Request failed", "code", apiErr.Code, "error", err)
		utils.RespondWithError(w, apiErr.HTTPStatus, apiErr.Message)
		return
	}
	slog.Error("Request failed", "error", err)
	utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}

// handleCommerceSync runs one full ingestion pass. Called by the cron
// schedule and by the admin UI's manual sync button.
func (s *APIServer) handleCommerceSync(w http.ResponseWriter, r *http.Request) {
	if !utils.ValidateMethod(w, r, http.MethodPost) {
		return
	}

	summary, err := s.syncService.RunCommerceSync(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, summary)
}

// handleConflictAudit runs the pairwise member dedupe scan on demand
func (s *APIServer) handleConflictAudit(w http.ResponseWriter, r *http.Request) {
	if !utils.ValidateMethod(w, r, http.MethodPost) {
		return
	}

	count, err := s.conflictService.CalculateMemberConflicts(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("recorded %d new conflicts", count),
		"found":   count,
	})
}

func (s *APIServer) handleMembers(w http.ResponseWriter, r *http.Request) {
	if !utils.ValidateMethod(w, r, http.MethodGet) {
		return
	}

	members, err := s.memberService.GetAllMembers(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, members)
}

func (s *APIServer) handleMemberByID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ExtractIDFromPath(r, "/api/members/")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		if strings.HasSuffix(r.URL.Path, "/transactions") {
			links, err := s.memberService.GetMemberTransactions(r.Context(), id)
			if err != nil {
				respondWithServiceError(w, err)
				return
			}
			utils.RespondWithJSON(w, http.StatusOK, links)
			return
		}
		member, err := s.memberService.GetMember(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, member)
	case http.MethodPut:
		var req models.UpdateMemberRequest
		if err := utils.ParseJSONRequest(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON input")
			return
		}
		member, err := s.memberService.UpdateMember(r.Context(), id, req)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, member)
	default:
		w.Header().Set("Allow", "GET, PUT")
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *APIServer) handleConflicts(w http.ResponseWriter, r *http.Request) {
	if !utils.ValidateMethod(w, r, http.MethodGet) {
		return
	}

	var resolved *bool
	if raw := r.URL.Query().Get("resolved"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "resolved must be true or false")
			return
		}
		resolved = &value
	}

	conflicts, err := s.conflictService.ListConflicts(r.Context(), resolved)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, conflicts)
}

// handleConflictByID serves POST /api/conflicts/{id}/resolve
func (s *APIServer) handleConflictByID(w http.ResponseWriter, r *http.Request) {
	if !utils.ValidateMethod(w, r, http.MethodPost) {
		return
	}

	if !strings.HasSuffix(r.URL.Path, "/resolve") {
		utils.RespondWithError(w, http.StatusNotFound, "Not found")
		return
	}

	id, err := utils.ExtractIDFromPath(r, "/api/conflicts/")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	conflict, err := s.conflictService.ResolveConflict(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, conflict)
}

// handleTransactionIssues lists transactions whose issue trail is non-empty
func (s *APIServer) handleTransactionIssues(w http.ResponseWriter, r *http.Request) {
	if !utils.ValidateMethod(w, r, http.MethodGet) {
		return
	}

	txns, err := s.catalogService.TransactionsWithIssues(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, txns)
}
