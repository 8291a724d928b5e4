package api

import (
	"encoding/json"
	"net/http"

	log15 "github.com/inconshreveable/log15/v3"

	"meetbot/engine"
	"meetbot/notion"
)

var (
	processor    *engine.Processor
	ruleCache    *engine.RuleCache
	notionClient *notion.Client

	log = log15.New("module", "api")
)

// Init wires the handlers to the engine built in main.
func Init(p *engine.Processor, cache *engine.RuleCache, n *notion.Client) {
	processor = p
	ruleCache = cache
	notionClient = n
}

func HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
