package controllers

import (
	"errors"
	"net/http"
	"topfived/internal/models"
	"topfived/internal/providers"
	"topfived/internal/services"
	"topfived/internal/storage"
	"topfived/internal/voting"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const errNoVoter = "user or device is required"

type ApiController struct {
	logger  providers.Logger
	ranking services.RankingServiceInterface
	votes   services.VoteServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, ranking services.RankingServiceInterface, votes services.VoteServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		ranking: ranking,
		votes:   votes,
		cache:   cache,
	}
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, voting.ErrUnknownCandidate):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUnknownSort):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (ac *ApiController) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
		http.Error(w, "Internal Server Error", status)
		return
	}
	http.Error(w, http.StatusText(status), status)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.fail(w, r, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, http.StatusOK, gson)
}

func (ac *ApiController) GetLists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sort, err := services.ParseSortMode(q.Get("sort"))
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	tag := q.Get("tag")
	ac.serveFromCacheOrCompute(w, r, "lists:"+string(sort)+":"+tag, func() (any, error) {
		return ac.ranking.Lists(r.Context(), sort, tag)
	})
}

func (ac *ApiController) GetList(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ac.serveFromCacheOrCompute(w, r, "list:"+id, func() (any, error) {
		return ac.ranking.ListSnapshot(r.Context(), id)
	})
}

func (ac *ApiController) GetDebates(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, "debates", func() (any, error) {
		return ac.ranking.Debates(r.Context())
	})
}

// GetGroup reports the caller's standing in a group challenge. Without a
// user the device's anonymous history is consulted; one of them is required.
func (ac *ApiController) GetGroup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := q.Get("id")
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	voter := models.Voter{UserID: q.Get("user"), Device: q.Get("device")}
	if !voter.Identified() {
		http.Error(w, errNoVoter, http.StatusBadRequest)
		return
	}

	status, err := ac.votes.Status(r.Context(), id, voter)
	if err != nil {
		ac.fail(w, r, err)
		return
	}

	gson, err := json.Marshal(status)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, gson)
}

func voteStatus(outcome voting.Outcome) int {
	switch outcome {
	case voting.OutcomeAlreadyVoted:
		return http.StatusConflict
	case voting.OutcomeBusy:
		return http.StatusTooManyRequests
	case voting.OutcomeRolledBack:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

func (ac *ApiController) Vote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if v := validate.Struct(&payload); !v.Validate() {
		http.Error(w, v.Errors.One(), http.StatusBadRequest)
		return
	}
	if !payload.Identified() {
		http.Error(w, errNoVoter, http.StatusBadRequest)
		return
	}

	res, err := ac.votes.Vote(r.Context(), payload)
	if err != nil {
		ac.fail(w, r, err)
		return
	}

	gson, err := json.Marshal(res)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, voteStatus(res.Outcome), gson)
}
