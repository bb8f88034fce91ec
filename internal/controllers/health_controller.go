package controllers

import (
	"fmt"
	"net/http"
	"time"
	"topfived/internal/providers"
	"topfived/internal/services"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	votes     services.VoteServiceInterface
	ledger    providers.LedgerSizer
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Sessions      int     `json:"sessions"`
	Identities    int     `json:"identities"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Sessions:      hc.votes.SessionCount(),
		Identities:    hc.ledger.IdentityCount(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(votes services.VoteServiceInterface, ledger providers.LedgerSizer) *HealthController {
	return &HealthController{
		votes:     votes,
		ledger:    ledger,
		startTime: time.Now(),
	}
}
