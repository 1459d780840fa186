package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
	"github.com/rs/zerolog/log"
	"github.com/worshipkit/planner/apperr"
	"github.com/worshipkit/planner/entity"
	"github.com/worshipkit/planner/service"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type WebAppController struct {
	EventService      *service.EventService
	SetlistService    *service.SetlistService
	SuggestionService *service.SuggestionService
	RotationService   *service.RotationService
	SongService       *service.SongService
	UserService       *service.UserService
	RoleService       *service.RoleService
	BandService       *service.BandService
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func (h *WebAppController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/events", h.GetEvents)
	api.POST("/events", h.UpsertEvent)
	api.GET("/events/:id", h.GetEvent)
	api.GET("/events/:id/setlist", h.GetEventSetlist)
	api.GET("/events/:id/view", h.GetEventView)
	api.GET("/events/:id/html", h.GetEventHtml)
	api.DELETE("/events/:id", h.DeleteEvent)
	api.POST("/events/:id/assignments", h.ConfirmAssignment)
	api.GET("/events/:id/assignments", h.GetAssignments)

	api.GET("/bands", h.GetBands)
	api.POST("/bands", h.UpsertBand)
	api.GET("/bands/:id", h.GetBand)
	api.GET("/bands/:id/events/upcoming", h.GetUpcomingEvents)
	api.GET("/bands/:id/events/range", h.GetEventsBetweenDates)
	api.GET("/bands/:id/event-names", h.GetFrequentEventNames)
	api.GET("/bands/:id/roles", h.GetRoles)
	api.GET("/bands/:id/members", h.GetBandMembers)
	api.POST("/roles", h.UpsertRole)
	api.GET("/roles/:id", h.GetRole)
	api.GET("/users/:id", h.GetUser)
	api.POST("/users", h.UpsertUser)

	api.GET("/setlists/:id", h.GetSetlist)
	api.POST("/setlists/:id/items", h.AddSetlistItem)
	api.DELETE("/setlists/:id/items/:itemId", h.RemoveSetlistItem)
	api.PUT("/setlists/:id/order", h.ReorderSetlist)
	api.POST("/setlists/:id/publish", h.PublishSetlist)
	api.GET("/setlists/:id/can-add", h.CanAddSetlistItem)

	api.POST("/setlists/:id/slots", h.CreateSlot)
	api.GET("/setlists/:id/slots", h.GetSlots)
	api.GET("/slots/:id", h.GetSlot)
	api.POST("/slots/:id/suggestions", h.SubmitSuggestion)
	api.POST("/slots/:id/suggestions/:suggestionId/approve", h.ApproveSuggestion)
	api.POST("/slots/:id/suggestions/:suggestionId/reject", h.RejectSuggestion)

	api.GET("/roles/:id/rotation", h.GetRotationBoard)
	api.GET("/roles/:id/rotation/next", h.SuggestNext)
	api.PUT("/roles/:id/rotation/members", h.UpsertRotationMember)
	api.DELETE("/roles/:id/rotation/members/:userId", h.RemoveRotationMember)

	api.GET("/songs/search", h.SearchSongs)
	api.GET("/songs/:id", h.GetSong)
}

func respondErr(ctx *gin.Context, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusUnprocessableEntity
	switch kind {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindStorageUnavailable:
		status = http.StatusServiceUnavailable
	case apperr.KindUnknown:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("url", ctx.Request.URL.String()).Msg("request failed")
	} else {
		log.Warn().Err(err).Str("url", ctx.Request.URL.String()).Msg("request rejected")
	}

	ctx.JSON(status, gin.H{
		"error":     err.Error(),
		"kind":      kind,
		"retryable": apperr.Retryable(err),
	})
}

func objectIDParam(ctx *gin.Context, name string) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return bson.ObjectID{}, false
	}
	return id, true
}

// Events.

type getEventsQuery struct {
	BandID string `schema:"bandId,required"`
	Page   int    `schema:"page"`
}

func (h *WebAppController) GetEvents(ctx *gin.Context) {
	var query getEventsQuery
	if err := decoder.Decode(&query, ctx.Request.URL.Query()); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bandID, err := bson.ObjectIDFromHex(query.BandID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid bandId"})
		return
	}

	events, err := h.EventService.FindManyByBandIDAndPageNumber(ctx, bandID, query.Page)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

func (h *WebAppController) UpsertEvent(ctx *gin.Context) {
	var event entity.Event
	if err := ctx.ShouldBindJSON(&event); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newEvent, err := h.EventService.UpdateOne(ctx, event)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newEvent)
}

func (h *WebAppController) GetEvent(ctx *gin.Context) {
	eventID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	event, err := h.EventService.FindOneByID(ctx, eventID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

func (h *WebAppController) GetEventSetlist(ctx *gin.Context) {
	eventID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	setlist, err := h.SetlistService.FindOneByEventID(ctx, eventID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, setlist)
}

func (h *WebAppController) GetEventView(ctx *gin.Context) {
	eventID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	view, err := h.EventService.GetEventView(ctx, eventID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

func (h *WebAppController) DeleteEvent(ctx *gin.Context) {
	eventID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := h.EventService.DeleteOneByID(ctx, eventID); err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *WebAppController) GetEventHtml(ctx *gin.Context) {
	eventID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	lang := ctx.DefaultQuery("lang", "en")

	html, _, err := h.EventService.ToHtmlStringByID(ctx, eventID, lang)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"html": html})
}

// Bands, roles, members.

func (h *WebAppController) GetBands(ctx *gin.Context) {
	bands, err := h.BandService.FindAll(ctx)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, bands)
}

func (h *WebAppController) GetBand(ctx *gin.Context) {
	bandID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	band, err := h.BandService.FindOneByID(ctx, bandID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, band)
}

func (h *WebAppController) UpsertBand(ctx *gin.Context) {
	var band entity.Band
	if err := ctx.ShouldBindJSON(&band); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newBand, err := h.BandService.UpdateOne(ctx, band)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newBand)
}

func (h *WebAppController) GetEventsBetweenDates(ctx *gin.Context) {
	bandID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	from, err := time.Parse(time.RFC3339, ctx.Query("from"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
		return
	}
	to, err := time.Parse(time.RFC3339, ctx.Query("to"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
		return
	}

	events, err := h.EventService.FindManyBetweenDatesByBandID(ctx, from.UTC(), to.UTC(), bandID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

func (h *WebAppController) GetAssignments(ctx *gin.Context) {
	eventID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	assignments, err := h.RotationService.FindAssignmentsByEventID(ctx, eventID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, assignments)
}

func (h *WebAppController) GetUpcomingEvents(ctx *gin.Context) {
	bandID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	band, err := h.BandService.FindOneByID(ctx, bandID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	events, err := h.EventService.FindManyFromTodayByBandID(ctx, bandID, band.GetLocation())
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

func (h *WebAppController) GetFrequentEventNames(ctx *gin.Context) {
	bandID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	limit := 5
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	names, err := h.EventService.GetMostFrequentEventNames(ctx, bandID, limit)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, names)
}

func (h *WebAppController) GetRoles(ctx *gin.Context) {
	bandID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	roles, err := h.RoleService.FindManyByBandID(ctx, bandID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, roles)
}

func (h *WebAppController) GetBandMembers(ctx *gin.Context) {
	bandID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	users, err := h.UserService.FindManyByBandID(ctx, bandID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, users)
}

func (h *WebAppController) GetRole(ctx *gin.Context) {
	roleID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	role, err := h.RoleService.FindOneByID(ctx, roleID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, role)
}

func (h *WebAppController) GetUser(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	user, err := h.UserService.FindOneByID(ctx, userID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

func (h *WebAppController) UpsertUser(ctx *gin.Context) {
	var user entity.User
	if err := ctx.ShouldBindJSON(&user); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newUser, err := h.UserService.UpdateOne(ctx, user)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newUser)
}

func (h *WebAppController) UpsertRole(ctx *gin.Context) {
	var role entity.Role
	if err := ctx.ShouldBindJSON(&role); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newRole, err := h.RoleService.UpdateOne(ctx, role)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newRole)
}

// Setlists.

func (h *WebAppController) GetSetlist(ctx *gin.Context) {
	setlistID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	setlist, err := h.SetlistService.FindOneByID(ctx, setlistID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, setlist)
}

type addItemRequest struct {
	SongID        string     `json:"songId"`
	Key           entity.Key `json:"key"`
	Performer     string     `json:"performer"`
	MediaLink     string     `json:"mediaLink"`
	DisplayKey    string     `json:"displayKey"`
	Unfamiliar    bool       `json:"unfamiliar"`
	AfterPosition *int       `json:"afterPosition"`
}

func (h *WebAppController) AddSetlistItem(ctx *gin.Context) {
	setlistID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	var req addItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	songID, err := bson.ObjectIDFromHex(req.SongID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid songId"})
		return
	}

	item := &entity.SetlistItem{
		SongID:     songID,
		Key:        req.Key,
		Performer:  req.Performer,
		MediaLink:  req.MediaLink,
		DisplayKey: req.DisplayKey,
		Unfamiliar: req.Unfamiliar,
	}

	var setlist *entity.Setlist
	if req.AfterPosition != nil {
		setlist, err = h.SetlistService.AddItemAt(ctx, setlistID, item, *req.AfterPosition)
	} else {
		setlist, err = h.SetlistService.AddItem(ctx, setlistID, item)
	}
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, setlist)
}

func (h *WebAppController) RemoveSetlistItem(ctx *gin.Context) {
	setlistID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}
	itemID, ok := objectIDParam(ctx, "itemId")
	if !ok {
		return
	}

	setlist, err := h.SetlistService.RemoveItem(ctx, setlistID, itemID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, setlist)
}

type reorderRequest struct {
	ItemIDs []string `json:"itemIds"`
}

func (h *WebAppController) ReorderSetlist(ctx *gin.Context) {
	setlistID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	var req reorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ids := make([]bson.ObjectID, 0, len(req.ItemIDs))
	for _, hex := range req.ItemIDs {
		id, err := bson.ObjectIDFromHex(hex)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id " + hex})
			return
		}
		ids = append(ids, id)
	}

	setlist, err := h.SetlistService.Reorder(ctx, setlistID, ids)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, setlist)
}

func (h *WebAppController) PublishSetlist(ctx *gin.Context) {
	setlistID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := h.SetlistService.Publish(ctx, setlistID); err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

type canAddQuery struct {
	Unfamiliar bool `schema:"unfamiliar"`
}

// CanAddSetlistItem is the speculative guard check the web app uses to
// grey out the add button. Nothing is committed here.
func (h *WebAppController) CanAddSetlistItem(ctx *gin.Context) {
	setlistID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	var query canAddQuery
	if err := decoder.Decode(&query, ctx.Request.URL.Query()); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caps := gin.H{
		"itemCap":       h.SetlistService.ItemCap(),
		"unfamiliarCap": h.SetlistService.UnfamiliarCap(),
	}

	err := h.SetlistService.CanAdd(ctx, setlistID, &entity.SetlistItem{Unfamiliar: query.Unfamiliar})
	if err != nil {
		if kind := apperr.KindOf(err); kind == apperr.KindCapacityExceeded || kind == apperr.KindUnfamiliarQuotaExceeded {
			ctx.JSON(http.StatusOK, gin.H{"allowed": false, "kind": kind, "caps": caps})
			return
		}
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"allowed": true, "caps": caps})
}

// Suggestion slots.

type createSlotRequest struct {
	UserID   int64     `json:"userId"`
	MinItems int       `json:"minItems"`
	MaxItems int       `json:"maxItems"`
	DueAt    time.Time `json:"dueAt"`
}

func (h *WebAppController) CreateSlot(ctx *gin.Context) {
	setlistID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	var req createSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.SuggestionService.CreateSlot(ctx, setlistID, req.UserID, req.MinItems, req.MaxItems, req.DueAt)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, slot)
}

func (h *WebAppController) GetSlot(ctx *gin.Context) {
	slotID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	slot, err := h.SuggestionService.FindOneByID(ctx, slotID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, slot)
}

func (h *WebAppController) GetSlots(ctx *gin.Context) {
	setlistID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	slots, err := h.SuggestionService.FindManyBySetlistID(ctx, setlistID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, slots)
}

type submitSuggestionRequest struct {
	SongID    string     `json:"songId"`
	Key       entity.Key `json:"key"`
	Note      string     `json:"note"`
	MediaLink string     `json:"mediaLink"`
}

func (h *WebAppController) SubmitSuggestion(ctx *gin.Context) {
	slotID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	var req submitSuggestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	songID, err := bson.ObjectIDFromHex(req.SongID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid songId"})
		return
	}

	suggestion := &entity.Suggestion{
		SongID:    songID,
		Key:       req.Key,
		Note:      req.Note,
		MediaLink: req.MediaLink,
	}

	slot, err := h.SuggestionService.Submit(ctx, slotID, suggestion)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, slot)
}

func (h *WebAppController) ApproveSuggestion(ctx *gin.Context) {
	slotID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}
	suggestionID, ok := objectIDParam(ctx, "suggestionId")
	if !ok {
		return
	}

	var input service.ApproveInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setlist, err := h.SuggestionService.Approve(ctx, slotID, suggestionID, input)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, setlist)
}

func (h *WebAppController) RejectSuggestion(ctx *gin.Context) {
	slotID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}
	suggestionID, ok := objectIDParam(ctx, "suggestionId")
	if !ok {
		return
	}

	if err := h.SuggestionService.Reject(ctx, slotID, suggestionID); err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Rotation.

func (h *WebAppController) GetRotationBoard(ctx *gin.Context) {
	roleID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	entries, err := h.RotationService.Board(ctx, roleID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, entries)
}

func (h *WebAppController) SuggestNext(ctx *gin.Context) {
	roleID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	member, err := h.RotationService.SuggestNext(ctx, roleID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	// An empty rotation list is a normal, displayable state.
	ctx.JSON(http.StatusOK, gin.H{"member": member})
}

type upsertMemberRequest struct {
	UserID int64 `json:"userId"`
	Order  int   `json:"order"`
}

func (h *WebAppController) UpsertRotationMember(ctx *gin.Context) {
	roleID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	var req upsertMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.RotationService.UpsertMember(ctx, entity.RotationMember{
		RoleID: roleID,
		UserID: req.UserID,
		Order:  req.Order,
	})
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, member)
}

func (h *WebAppController) RemoveRotationMember(ctx *gin.Context) {
	roleID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	userID, err := strconv.ParseInt(ctx.Param("userId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
		return
	}

	if err := h.RotationService.RemoveMember(ctx, roleID, userID); err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

type confirmAssignmentRequest struct {
	RoleID string `json:"roleId"`
	UserID int64  `json:"userId"`
}

func (h *WebAppController) ConfirmAssignment(ctx *gin.Context) {
	eventID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	var req confirmAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roleID, err := bson.ObjectIDFromHex(req.RoleID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid roleId"})
		return
	}

	fulfillment, err := h.RotationService.ConfirmAssignment(ctx, eventID, roleID, req.UserID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, fulfillment)
}

// Songs.

type searchSongsQuery struct {
	BandID string `schema:"bandId,required"`
	Query  string `schema:"q"`
}

func (h *WebAppController) GetSong(ctx *gin.Context) {
	songID, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	song, err := h.SongService.FindOneByID(ctx, songID)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, song)
}

func (h *WebAppController) SearchSongs(ctx *gin.Context) {
	var query searchSongsQuery
	if err := decoder.Decode(&query, ctx.Request.URL.Query()); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bandID, err := bson.ObjectIDFromHex(query.BandID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid bandId"})
		return
	}

	songs, err := h.SongService.SearchByName(ctx, bandID, query.Query)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	results := make([]songSearchResult, 0, len(songs))
	for _, song := range songs {
		results = append(results, songSearchResult{Song: song, Caption: song.Caption()})
	}

	ctx.JSON(http.StatusOK, results)
}

type songSearchResult struct {
	Song    *entity.Song `json:"song"`
	Caption string       `json:"caption,omitempty"`
}
