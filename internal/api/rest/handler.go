package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/upravnik/assembly-engine/internal/adapter"
	"github.com/upravnik/assembly-engine/internal/agenda"
	"github.com/upravnik/assembly-engine/internal/api/shared/dto"
	"github.com/upravnik/assembly-engine/internal/attendance"
	"github.com/upravnik/assembly-engine/internal/broadcast"
	"github.com/upravnik/assembly-engine/internal/decision"
	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/ledger"
	"github.com/upravnik/assembly-engine/internal/logger"
	"github.com/upravnik/assembly-engine/internal/store"
	"github.com/upravnik/assembly-engine/internal/store/schema"
	"github.com/upravnik/assembly-engine/internal/tally"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// CreateAssembly schedules a new assembly
	// POST /api/v1/assemblies
	CreateAssembly(c *gin.Context)

	// GetAssembly retrieves a single assembly
	// GET /api/v1/assemblies/:id
	GetAssembly(c *gin.Context)

	// RegisterAttendee checks in an apartment representative
	// POST /api/v1/assemblies/:id/attendees
	RegisterAttendee(c *gin.Context)

	// ListAttendees retrieves the attendee roster
	// GET /api/v1/assemblies/:id/attendees
	ListAttendees(c *gin.Context)

	// RevokeAttendee removes an attendee and all their votes
	// DELETE /api/v1/assemblies/:id/attendees/:attendeeId
	RevokeAttendee(c *gin.Context)

	// CreateAgendaItem appends an item to the assembly agenda
	// POST /api/v1/assemblies/:id/agenda
	CreateAgendaItem(c *gin.Context)

	// ListAgendaItems retrieves the ordered agenda
	// GET /api/v1/assemblies/:id/agenda
	ListAgendaItems(c *gin.Context)

	// OpenAgendaItem starts voting on an item
	// POST /api/v1/assemblies/:id/agenda/:itemId/open
	OpenAgendaItem(c *gin.Context)

	// CloseAgendaItem ends voting on an item and freezes its outcome
	// POST /api/v1/assemblies/:id/agenda/:itemId/close
	CloseAgendaItem(c *gin.Context)

	// CastVote records or revises a vote on an open item
	// POST /api/v1/assemblies/:id/agenda/:itemId/votes
	CastVote(c *gin.Context)

	// GetLiveTally retrieves the current tally of an item
	// GET /api/v1/assemblies/:id/agenda/:itemId/results
	GetLiveTally(c *gin.Context)

	// GetFinalResult retrieves the frozen result of a closed item
	// GET /api/v1/assemblies/:id/agenda/:itemId/result
	GetFinalResult(c *gin.Context)

	// Live upgrades the request to a websocket tally subscription
	// GET /api/v1/assemblies/:id/live
	Live(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	agenda     agenda.Service
	attendance attendance.Registry
	ledger     ledger.Service
	resolver   decision.Resolver
	engine     tally.Engine
	hub        *broadcast.Hub
	store      store.Store
	clock      adapter.Clock
	json       adapter.JSON
}

// NewHandler creates a new REST API handler
func NewHandler(
	agendaSvc agenda.Service,
	registry attendance.Registry,
	ledgerSvc ledger.Service,
	resolver decision.Resolver,
	engine tally.Engine,
	hub *broadcast.Hub,
	st store.Store,
	clock adapter.Clock,
	jsonAdapter adapter.JSON,
) Handler {
	return &handler{
		agenda:     agendaSvc,
		attendance: registry,
		ledger:     ledgerSvc,
		resolver:   resolver,
		engine:     engine,
		hub:        hub,
		store:      st,
		clock:      clock,
		json:       jsonAdapter,
	}
}

// parseIDParam parses a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondBadRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// CreateAssembly schedules a new assembly
func (h *handler) CreateAssembly(c *gin.Context) {
	var req dto.CreateAssemblyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	assembly := &schema.Assembly{
		BuildingID:           req.BuildingID,
		Title:                req.Title,
		ScheduledAt:          req.ScheduledAt,
		TotalBuildingMills:   req.TotalBuildingMills,
		AllowConcurrentItems: req.AllowConcurrentItems,
	}

	if err := h.agenda.CreateAssembly(c.Request.Context(), assembly); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AssemblyToResponse(assembly))
}

// GetAssembly retrieves a single assembly
func (h *handler) GetAssembly(c *gin.Context) {
	assemblyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	assembly, err := h.agenda.GetAssembly(c.Request.Context(), assemblyID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	items, err := h.store.ListAgendaItems(c.Request.Context(), assemblyID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	attendees, err := h.store.ListAttendees(c.Request.Context(), assemblyID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := dto.AssemblyToResponse(assembly)
	resp.AgendaItemCount = len(items)
	resp.AttendeeCount = len(attendees)
	for i := range attendees {
		resp.RepresentedMills += attendees[i].Mills
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterAttendee checks in an apartment representative
func (h *handler) RegisterAttendee(c *gin.Context) {
	assemblyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.RegisterAttendeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	attendee, err := h.attendance.Register(
		c.Request.Context(),
		assemblyID,
		req.ApartmentID,
		req.RepresentativeName,
		req.Mills,
	)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AttendeeToResponse(attendee))
}

// ListAttendees retrieves the attendee roster
func (h *handler) ListAttendees(c *gin.Context) {
	assemblyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	attendees, err := h.attendance.List(c.Request.Context(), assemblyID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AttendeesToListResponse(attendees))
}

// RevokeAttendee removes an attendee and all their votes
func (h *handler) RevokeAttendee(c *gin.Context) {
	assemblyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	attendeeID, ok := parseIDParam(c, "attendeeId")
	if !ok {
		return
	}

	if err := h.attendance.Revoke(c.Request.Context(), assemblyID, attendeeID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateAgendaItem appends an item to the assembly agenda
func (h *handler) CreateAgendaItem(c *gin.Context) {
	assemblyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateAgendaItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	item := &schema.AgendaItem{
		AssemblyID:              assemblyID,
		Position:                req.Position,
		Title:                   req.Title,
		VotingType:              req.VotingType,
		MinParticipationPercent: req.MinParticipationPercent,
		Deadline:                req.Deadline,
	}
	if item.VotingType == "" {
		item.VotingType = "simple_majority"
	}

	if err := h.agenda.CreateAgendaItem(c.Request.Context(), item); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AgendaItemToResponse(item))
}

// ListAgendaItems retrieves the ordered agenda
func (h *handler) ListAgendaItems(c *gin.Context) {
	assemblyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.agenda.ListAgendaItems(c.Request.Context(), assemblyID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AgendaItemsToListResponse(items))
}

// OpenAgendaItem starts voting on an item
func (h *handler) OpenAgendaItem(c *gin.Context) {
	assemblyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	item, err := h.agenda.OpenAgendaItem(c.Request.Context(), assemblyID, itemID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AgendaItemToResponse(item))
}

// CloseAgendaItem ends voting on an item and freezes its outcome
func (h *handler) CloseAgendaItem(c *gin.Context) {
	assemblyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	result, err := h.resolver.Close(c.Request.Context(), assemblyID, itemID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.finalResultToResponse(result))
}

// CastVote records or revises a vote on an open item
func (h *handler) CastVote(c *gin.Context) {
	assemblyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	var req dto.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	vote, snap, err := h.ledger.Cast(
		c.Request.Context(),
		assemblyID,
		itemID,
		req.AttendeeID,
		domain.Choice(req.Choice),
	)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VoteToResponse(vote, snap))
}

// GetLiveTally retrieves the current tally of an item
func (h *handler) GetLiveTally(c *gin.Context) {
	assemblyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	snap, err := h.ledger.Snapshot(c.Request.Context(), assemblyID, itemID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// GetFinalResult retrieves the frozen result of a closed item
func (h *handler) GetFinalResult(c *gin.Context) {
	assemblyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	result, err := h.resolver.FinalResult(c.Request.Context(), assemblyID, itemID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.finalResultToResponse(result))
}

// finalResultToResponse decodes the frozen snapshot for the API payload
func (h *handler) finalResultToResponse(result *schema.FinalResult) *dto.FinalResultResponse {
	resp := &dto.FinalResultResponse{
		AgendaItemID: result.AgendaItemID,
		Outcome:      result.Outcome,
		ClosedAt:     result.ClosedAt,
	}

	var snap domain.TallySnapshot
	if err := h.json.Unmarshal(result.Snapshot, &snap); err != nil {
		logger.Error(err, zap.Uint64("itemID", result.AgendaItemID))
	} else {
		resp.Snapshot = &snap
	}

	return resp
}

// Live upgrades the request to a websocket tally subscription
func (h *handler) Live(c *gin.Context) {
	assemblyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.agenda.GetAssembly(c.Request.Context(), assemblyID); err != nil {
		respondDomainError(c, err)
		return
	}

	lister := &openItemLister{store: h.store}
	if err := h.hub.ServeWS(c.Writer, c.Request, assemblyID, lister, h.engine, h.clock.Now()); err != nil {
		// The upgrader already wrote the HTTP error response
		logger.Error(err, zap.Uint64("assemblyID", assemblyID))
	}
}

// openItemLister adapts the store to the join-time snapshot lookup
type openItemLister struct {
	store store.Store
}

func (l *openItemLister) OpenItemIDs(ctx context.Context, assemblyID uint64) ([]uint64, error) {
	items, err := l.store.ListOpenAgendaItems(ctx, assemblyID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids, nil
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Timestamp: h.clock.Now(),
	})
}
