package coaching

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/liftado/liftado/internal/coaching/deload"
	"github.com/liftado/liftado/internal/coaching/fatigue"
	"github.com/liftado/liftado/internal/coaching/signals"
	"github.com/liftado/liftado/internal/coaching/suggest"
	"github.com/liftado/liftado/internal/metrics"
	"github.com/liftado/liftado/internal/telemetry/tracing"
	"github.com/liftado/liftado/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type signalsAggregator interface {
	AggregateSignals(ctx context.Context, userID string, asOf time.Time) (*signals.TrainingSignal, error)
}

type fatigueScorer interface {
	CalculateFatigue(ctx context.Context, userID string) (*fatigue.Assessment, error)
}

type deloadPolicy interface {
	CheckDeloadNeeded(ctx context.Context, userID string) (*deload.Decision, error)
	GetActiveDeload(ctx context.Context, userID string) (*deload.ActiveDeload, error)
	StartDeload(ctx context.Context, userID string, decision deload.Decision, triggeringScore float64) (int, error)
	EndDeload(ctx context.Context, userID string) error
}

type suggestEngine interface {
	SuggestWeight(ctx context.Context, userID, exerciseID string, setNumber int, isWarmup bool) (*suggest.WeightSuggestion, error)
	SuggestionAfterSet(in suggest.AfterSetInput) (*suggest.SetFeedback, error)
	WarmupSets(workingWeight float64) ([]suggest.WarmupSet, error)
	RestTimerConfig(slot suggest.SlotType, category suggest.ExerciseCategory) (*suggest.RestTimer, error)
}

// Handler is the HTTP surface over the coaching engines. The engines
// themselves take and return plain data, the handler only decodes,
// dispatches and encodes.
type Handler struct {
	aggregator signalsAggregator
	scorer     fatigueScorer
	policy     deloadPolicy
	suggester  suggestEngine
	metrics    *metrics.Manager
}

func NewHandler(
	aggregator signalsAggregator,
	scorer fatigueScorer,
	policy deloadPolicy,
	suggester suggestEngine,
	metrics *metrics.Manager,
) *Handler {
	return &Handler{
		aggregator: aggregator,
		scorer:     scorer,
		policy:     policy,
		suggester:  suggester,
		metrics:    metrics,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/coaching/{userId}/signals", handler.HandleGetSignals).Methods("GET", "OPTIONS").Name("get-signals")
	r.HandleFunc("/coaching/{userId}/fatigue", handler.HandleGetFatigue).Methods("GET", "OPTIONS").Name("get-fatigue")
	r.HandleFunc("/coaching/{userId}/deload/check", handler.HandleCheckDeload).Methods("GET", "OPTIONS").Name("check-deload")
	r.HandleFunc("/coaching/{userId}/deload/active", handler.HandleGetActiveDeload).Methods("GET", "OPTIONS").Name("active-deload")
	r.HandleFunc("/coaching/{userId}/deload/start", handler.HandleStartDeload).Methods("POST", "OPTIONS").Name("start-deload")
	r.HandleFunc("/coaching/{userId}/deload/end", handler.HandleEndDeload).Methods("POST", "OPTIONS").Name("end-deload")
	r.HandleFunc("/coaching/{userId}/suggest/{exerciseId}/set/{setNumber}", handler.HandleSuggestWeight).Methods("GET", "OPTIONS").Name("suggest-weight")
	r.HandleFunc("/coaching/suggest/after-set", handler.HandleAfterSet).Methods("POST", "OPTIONS").Name("suggest-after-set")
	r.HandleFunc("/coaching/warmup", handler.HandleWarmupSets).Methods("GET", "OPTIONS").Name("warmup-sets")
	r.HandleFunc("/coaching/rest/{slot}/{category}", handler.HandleRestTimer).Methods("GET", "OPTIONS").Name("rest-timer")
}

func (handler *Handler) HandleGetSignals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coaching.signals")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	signal, err := handler.aggregator.AggregateSignals(ctx, userID, time.Now())
	if err != nil {
		log.Errorf("failed to aggregate signals for [%s]: %s", userID, err)
		http.Error(w, "failed to aggregate signals", http.StatusInternalServerError)
		return
	}

	writeJSON(w, signal, http.StatusOK)
}

func (handler *Handler) HandleGetFatigue(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coaching.fatigue")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	assessment, err := handler.scorer.CalculateFatigue(ctx, userID)
	if err != nil {
		log.Errorf("failed to calculate fatigue for [%s]: %s", userID, err)
		http.Error(w, "failed to calculate fatigue", http.StatusInternalServerError)
		return
	}

	handler.metrics.HistFatigueScore.Observe(assessment.Score)

	writeJSON(w, assessment, http.StatusOK)
}

func (handler *Handler) HandleCheckDeload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coaching.deload.check")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	decision, err := handler.policy.CheckDeloadNeeded(ctx, userID)
	if err != nil {
		log.Errorf("failed to check deload for [%s]: %s", userID, err)
		http.Error(w, "failed to check deload", http.StatusInternalServerError)
		return
	}

	writeJSON(w, decision, http.StatusOK)
}

func (handler *Handler) HandleGetActiveDeload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coaching.deload.active")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	active, err := handler.policy.GetActiveDeload(ctx, userID)
	if err != nil {
		log.Errorf("failed to get active deload for [%s]: %s", userID, err)
		http.Error(w, "failed to get active deload", http.StatusInternalServerError)
		return
	}
	if active == nil {
		pkg.WriteJSONResponseOK(w, "null")
		return
	}

	writeJSON(w, active, http.StatusOK)
}

type startDeloadRequest struct {
	Decision        deload.Decision `json:"decision"`
	TriggeringScore float64         `json:"triggeringScore"`
}

func (handler *Handler) HandleStartDeload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coaching.deload.start")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req startDeloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("start deload, unmarshal json params: %s", err)
		http.Error(w, "start deload failed", http.StatusBadRequest)
		return
	}

	userID := mux.Vars(r)["userId"]
	id, err := handler.policy.StartDeload(ctx, userID, req.Decision, req.TriggeringScore)
	if err != nil {
		switch {
		case errors.Is(err, deload.ErrDeloadAlreadyActive):
			http.Error(w, "a deload is already active", http.StatusConflict)
		case errors.Is(err, deload.ErrInvalidDecision):
			http.Error(w, "invalid deload decision", http.StatusBadRequest)
		default:
			log.Errorf("failed to start deload for [%s]: %s", userID, err)
			http.Error(w, "failed to start deload", http.StatusInternalServerError)
		}
		return
	}

	handler.metrics.CounterDeloadsStarted.Inc()
	log.Debugf("deload started: [%s]: %d", userID, id)

	writeJSON(w, struct {
		DeloadID int `json:"deloadId"`
	}{DeloadID: id}, http.StatusCreated)
}

func (handler *Handler) HandleEndDeload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coaching.deload.end")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if err := handler.policy.EndDeload(ctx, userID); err != nil {
		if errors.Is(err, deload.ErrNoActiveDeload) {
			http.Error(w, "no active deload", http.StatusNotFound)
			return
		}
		log.Errorf("failed to end deload for [%s]: %s", userID, err)
		http.Error(w, "failed to end deload", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterDeloadsEnded.Inc()

	pkg.WriteJSONResponseOK(w, `{"ended":true}`)
}

func (handler *Handler) HandleSuggestWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coaching.suggest.weight")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	exerciseID := vars["exerciseId"]
	setNumber, err := strconv.Atoi(vars["setNumber"])
	if err != nil {
		http.Error(w, "error, set number NaN", http.StatusBadRequest)
		return
	}
	isWarmup := r.URL.Query().Get("warmup") == "true"

	suggestion, err := handler.suggester.SuggestWeight(ctx, userID, exerciseID, setNumber, isWarmup)
	if err != nil {
		if errors.Is(err, suggest.ErrInvalidInput) {
			http.Error(w, "invalid suggestion input", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to suggest weight for [%s] [%s]: %s", userID, exerciseID, err)
		http.Error(w, "failed to suggest weight", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterSuggestionsServed.Inc()

	writeJSON(w, suggestion, http.StatusOK)
}

func (handler *Handler) HandleAfterSet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.coaching.suggest.afterset")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var in suggest.AfterSetInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("after set suggestion, unmarshal json params: %s", err)
		http.Error(w, "after set suggestion failed", http.StatusBadRequest)
		return
	}

	feedback, err := handler.suggester.SuggestionAfterSet(in)
	if err != nil {
		if errors.Is(err, suggest.ErrInvalidInput) {
			http.Error(w, "invalid set feedback input", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to build after set suggestion: %s", err)
		http.Error(w, "failed to build after set suggestion", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterSuggestionsServed.Inc()

	writeJSON(w, feedback, http.StatusOK)
}

func (handler *Handler) HandleWarmupSets(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.coaching.suggest.warmup")
	defer span.End()

	weightStr := r.URL.Query().Get("weight")
	weight, err := strconv.ParseFloat(weightStr, 64)
	if err != nil {
		http.Error(w, "error, weight NaN", http.StatusBadRequest)
		return
	}

	sets, err := handler.suggester.WarmupSets(weight)
	if err != nil {
		if errors.Is(err, suggest.ErrInvalidInput) {
			http.Error(w, "invalid working weight", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to build warmup sets: %s", err)
		http.Error(w, "failed to build warmup sets", http.StatusInternalServerError)
		return
	}

	writeJSON(w, sets, http.StatusOK)
}

func (handler *Handler) HandleRestTimer(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.coaching.suggest.rest")
	defer span.End()

	vars := mux.Vars(r)
	timer, err := handler.suggester.RestTimerConfig(
		suggest.SlotType(vars["slot"]),
		suggest.ExerciseCategory(vars["category"]),
	)
	if err != nil {
		if errors.Is(err, suggest.ErrInvalidInput) {
			http.Error(w, "unknown slot or category", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to get rest timer config: %s", err)
		http.Error(w, "failed to get rest timer config", http.StatusInternalServerError)
		return
	}

	writeJSON(w, timer, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, payload any, statusCode int) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, payloadJson, statusCode)
}
