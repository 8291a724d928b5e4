package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"meetbot/db"
	"meetbot/engine"
)

func HandleCreateRule(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule payload")
		return
	}

	rule := db.Rule{
		Name:        req.Name,
		Description: req.Description,
		AccountID:   req.AccountID,
		IsGlobal:    req.IsGlobal,
		Conditions:  req.Conditions,
		Actions:     req.Actions,
		Priority:    req.Priority,
		IsActive:    true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := engine.ValidateRule(&rule); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := db.CreateRule(&rule); err != nil {
		log.Error("failed to create rule", "name", rule.Name, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to create rule")
		return
	}

	invalidateRuleScope(&rule)
	log.Info("rule created", "ruleID", rule.ID, "name", rule.Name, "priority", rule.Priority)
	writeJSON(w, http.StatusCreated, rule)
}

func HandleListRules(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	rules, err := db.ListRules(accountID)
	if err != nil {
		log.Error("failed to list rules", "accountID", accountID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list rules")
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func HandleGetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := db.GetRule(chi.URLParam(r, "id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "rule not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch rule")
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func HandleUpdateRule(w http.ResponseWriter, r *http.Request) {
	rule, err := db.GetRule(chi.URLParam(r, "id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "rule not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch rule")
		return
	}

	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule payload")
		return
	}

	rule.Name = req.Name
	rule.Description = req.Description
	rule.Conditions = req.Conditions
	rule.Actions = req.Actions
	rule.Priority = req.Priority
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := engine.ValidateRule(rule); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := db.UpdateRule(rule); err != nil {
		log.Error("failed to update rule", "ruleID", rule.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to update rule")
		return
	}

	invalidateRuleScope(rule)
	log.Info("rule updated", "ruleID", rule.ID, "name", rule.Name)
	writeJSON(w, http.StatusOK, rule)
}

func HandleDeleteRule(w http.ResponseWriter, r *http.Request) {
	rule, err := db.GetRule(chi.URLParam(r, "id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "rule not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch rule")
		return
	}

	if err := db.DeleteRule(rule.ID); err != nil {
		log.Error("failed to delete rule", "ruleID", rule.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to delete rule")
		return
	}

	invalidateRuleScope(rule)
	log.Info("rule deleted", "ruleID", rule.ID, "name", rule.Name)
	w.WriteHeader(http.StatusNoContent)
}

// Rule mutations must be visible to the next evaluation immediately, not
// after the cache TTL runs out.
func invalidateRuleScope(rule *db.Rule) {
	if rule.IsGlobal {
		ruleCache.InvalidateAll()
		return
	}
	ruleCache.Invalidate(rule.AccountID)
}
