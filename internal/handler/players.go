package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/logger"
	"github.com/osse101/brandish-progression/internal/progression"
)

type AddExperienceRequest struct {
	Amount int64  `json:"amount" validate:"gte=0"`
	Source string `json:"source" validate:"notblank,max=100"`
}

type CheckBadgesRequest struct {
	Trigger domain.BadgeTrigger `json:"trigger" validate:"omitempty,oneof=all quest level daily_login perfect_score"`
}

type AddItemRequest struct {
	ItemID   string `json:"item_id" validate:"notblank,max=100"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=10000"`
	Source   string `json:"source" validate:"notblank,max=100"`
}

type UseItemRequest struct {
	ItemID   string `json:"item_id" validate:"notblank,max=100"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=10000"`
}

type QuestCompletionRequest struct {
	QuestID string `json:"quest_id" validate:"notblank,max=100"`
	Subject string `json:"subject" validate:"max=100"`
	Perfect bool   `json:"perfect"`
}

type ApplyRewardRequest struct {
	Reward domain.RewardSpec `json:"reward"`
	Source string            `json:"source" validate:"notblank,max=100"`
}

type BadgeCheckResponse struct {
	Awarded []domain.Badge `json:"awarded"`
}

type QuestCompletionResponse struct {
	Stats   *domain.PlayerStats `json:"stats"`
	Awarded []domain.Badge      `json:"awarded"`
}

type TitlesResponse struct {
	Titles []string `json:"titles"`
}

type ReconcileResponse struct {
	Reapplied int `json:"reapplied"`
}

// PlayerHandlers serves the player API over an engine
type PlayerHandlers struct {
	engine progression.Engine
}

func NewPlayerHandlers(engine progression.Engine) *PlayerHandlers {
	return &PlayerHandlers{engine: engine}
}

// RegisterRoutes mounts the player routes on r, which must be routed with a
// {playerID} parameter
func (h *PlayerHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/progress", h.HandleGetProgress())
	r.Post("/experience", h.HandleAddExperience())
	r.Get("/daily", h.HandleGetDailyStatus())
	r.Post("/daily/claim", h.HandleClaimDaily())
	r.Get("/badges", h.HandleListBadges())
	r.Post("/badges/check", h.HandleCheckBadges())
	r.Get("/inventory", h.HandleGetInventory())
	r.Post("/inventory", h.HandleAddItem())
	r.Post("/inventory/use", h.HandleUseItem())
	r.Post("/quests", h.HandleRecordQuest())
	r.Get("/rewards", h.HandleRewardHistory())
	r.Post("/rewards", h.HandleApplyReward())
	r.Get("/wallet", h.HandleGetWallet())
	r.Get("/titles", h.HandleListTitles())
	r.Get("/statistics", h.HandleGetStatistics())
	r.Post("/reconcile", h.HandleReconcile())
}

// HandleGetProgress returns level, experience and perks
func (h *PlayerHandlers) HandleGetProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		progress, err := h.engine.GetProgress(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "get_progress", err)
			return
		}
		respondJSON(w, http.StatusOK, progress)
	}
}

// HandleAddExperience grants experience and reports any level ups
func (h *PlayerHandlers) HandleAddExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		var req AddExperienceRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Add experience"); err != nil {
			return
		}

		result, err := h.engine.AddExperience(r.Context(), id, req.Amount, req.Source)
		if err != nil {
			respondServiceError(w, r, "add_experience", err)
			return
		}
		if result.LeveledUp {
			logger.FromContext(r.Context()).Info(LogMsgLevelUp,
				"player_id", id, "old_level", result.OldLevel, "new_level", result.NewLevel)
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleClaimDaily claims today's login reward. An already claimed day is a
// 200 with success=false.
func (h *PlayerHandlers) HandleClaimDaily() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		result, err := h.engine.ClaimDailyReward(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "claim_daily", err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

func (h *PlayerHandlers) HandleGetDailyStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		status, err := h.engine.GetDailyStatus(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "daily_status", err)
			return
		}
		respondJSON(w, http.StatusOK, status)
	}
}

// HandleCheckBadges evaluates badges for the trigger, all kinds when empty
func (h *PlayerHandlers) HandleCheckBadges() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		var req CheckBadgesRequest
		if r.ContentLength != 0 {
			if err := DecodeAndValidateRequest(r, w, &req, "Check badges"); err != nil {
				return
			}
		}
		trigger := req.Trigger
		if trigger == "" {
			trigger = domain.TriggerAll
		}

		awarded, err := h.engine.CheckAndAwardBadges(r.Context(), id, trigger)
		if err != nil {
			respondServiceError(w, r, "check_badges", err)
			return
		}
		respondJSON(w, http.StatusOK, BadgeCheckResponse{Awarded: nonNil(awarded)})
	}
}

func (h *PlayerHandlers) HandleListBadges() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		badges, err := h.engine.ListPlayerBadges(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "list_badges", err)
			return
		}
		respondJSON(w, http.StatusOK, nonNil(badges))
	}
}

func (h *PlayerHandlers) HandleGetInventory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		slots, err := h.engine.GetInventory(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "get_inventory", err)
			return
		}
		respondJSON(w, http.StatusOK, nonNil(slots))
	}
}

// HandleAddItem adds items to the player's stack of item_id
func (h *PlayerHandlers) HandleAddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		var req AddItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Add item"); err != nil {
			return
		}

		slot, err := h.engine.AddItemToInventory(r.Context(), id, req.ItemID, req.Quantity, req.Source)
		if err != nil {
			respondServiceError(w, r, "add_item", err)
			return
		}
		respondJSON(w, http.StatusOK, slot)
	}
}

// HandleUseItem consumes items and applies their effects
func (h *PlayerHandlers) HandleUseItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		var req UseItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Use item"); err != nil {
			return
		}

		result, err := h.engine.UseItem(r.Context(), id, req.ItemID, req.Quantity)
		if err != nil {
			respondServiceError(w, r, "use_item", err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleRecordQuest records a quest completion and evaluates quest badges
func (h *PlayerHandlers) HandleRecordQuest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		var req QuestCompletionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Record quest"); err != nil {
			return
		}

		stats, awarded, err := h.engine.RecordQuestCompletion(r.Context(), id, domain.QuestCompletion{
			QuestID: req.QuestID,
			Subject: req.Subject,
			Perfect: req.Perfect,
		})
		if err != nil {
			respondServiceError(w, r, "record_quest", err)
			return
		}
		respondJSON(w, http.StatusOK, QuestCompletionResponse{Stats: stats, Awarded: nonNil(awarded)})
	}
}

// HandleApplyReward grants one reward described by its spec
func (h *PlayerHandlers) HandleApplyReward() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		var req ApplyRewardRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Apply reward"); err != nil {
			return
		}
		reward, err := req.Reward.Reward()
		if err != nil {
			respondServiceError(w, r, "apply_reward", err)
			return
		}

		applied, err := h.engine.ApplyReward(r.Context(), id, reward, req.Source)
		if err != nil {
			respondServiceError(w, r, "apply_reward", err)
			return
		}
		respondJSON(w, http.StatusOK, applied)
	}
}

// HandleRewardHistory lists applied rewards, newest first
func (h *PlayerHandlers) HandleRewardHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		limit, ok := GetIntQueryParam(w, r, QueryLimit, DefaultHistoryLimit, MaxHistoryLimit)
		if !ok {
			return
		}
		entries, err := h.engine.RewardHistory(r.Context(), id, limit)
		if err != nil {
			respondServiceError(w, r, "reward_history", err)
			return
		}
		respondJSON(w, http.StatusOK, nonNil(entries))
	}
}

func (h *PlayerHandlers) HandleGetWallet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		wallet, err := h.engine.GetWallet(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "get_wallet", err)
			return
		}
		respondJSON(w, http.StatusOK, wallet)
	}
}

func (h *PlayerHandlers) HandleListTitles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		titles, err := h.engine.ListTitles(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "list_titles", err)
			return
		}
		respondJSON(w, http.StatusOK, TitlesResponse{Titles: nonNil(titles)})
	}
}

// HandleGetStatistics returns the snapshot badge requirements are evaluated against
func (h *PlayerHandlers) HandleGetStatistics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		stats, err := h.engine.Statistics(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "statistics", err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

// HandleReconcile re-applies level rewards missing from the history
func (h *PlayerHandlers) HandleReconcile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(w, r)
		if !ok {
			return
		}
		n, err := h.engine.ReconcileLevelRewards(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "reconcile", err)
			return
		}
		respondJSON(w, http.StatusOK, ReconcileResponse{Reapplied: n})
	}
}

// nonNil keeps empty lists encoded as [] rather than null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
