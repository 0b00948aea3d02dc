package training

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/liftado/liftado/internal/metrics"
	"github.com/liftado/liftado/internal/telemetry/tracing"
	"github.com/liftado/liftado/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type trainingRepo interface {
	AddSet(ctx context.Context, set Set) (*Set, error)
	GetSet(ctx context.Context, id int) (*Set, error)
	UpdateSet(ctx context.Context, set Set) error
	DeleteSet(ctx context.Context, id int) error
	ListSets(ctx context.Context, params SetParams) ([]Set, error)
	SetsCount(ctx context.Context, params SetParams) (int, error)
	StartSession(ctx context.Context, userID string, startedAt time.Time) (*Session, error)
	FinishSession(ctx context.Context, id int, finishedAt time.Time) error
	AddRecoveryLog(ctx context.Context, rl RecoveryLog) (*RecoveryLog, error)
	ListRecoveryLogs(ctx context.Context, userID string, from, to time.Time) ([]RecoveryLog, error)
	UpsertExerciseDefault(ctx context.Context, def ExerciseDefault) error
}

type ListSetsResponse struct {
	Sets  []Set `json:"sets"`
	Total int   `json:"total"`
}

type Handler struct {
	repo    trainingRepo
	metrics *metrics.Manager
}

func NewHandler(repo trainingRepo, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metrics,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/training/{userId}/sets", handler.HandleAddSet).Methods("POST", "OPTIONS").Name("new-set")
	r.HandleFunc("/training/{userId}/sets", handler.HandleListSets).Methods("GET", "OPTIONS").Name("list-sets")
	r.HandleFunc("/training/{userId}/sets/{id}", handler.HandleGetSet).Methods("GET", "OPTIONS").Name("get-set")
	r.HandleFunc("/training/{userId}/sets/{id}", handler.HandleUpdateSet).Methods("PUT", "OPTIONS").Name("update-set")
	r.HandleFunc("/training/{userId}/sets/{id}", handler.HandleDeleteSet).Methods("DELETE", "OPTIONS").Name("remove-set")
	r.HandleFunc("/training/{userId}/sessions/start", handler.HandleStartSession).Methods("POST", "OPTIONS").Name("start-session")
	r.HandleFunc("/training/{userId}/sessions/{id}/finish", handler.HandleFinishSession).Methods("POST", "OPTIONS").Name("finish-session")
	r.HandleFunc("/training/{userId}/recovery", handler.HandleAddRecoveryLog).Methods("POST", "OPTIONS").Name("new-recovery-log")
	r.HandleFunc("/training/{userId}/recovery", handler.HandleListRecoveryLogs).Methods("GET", "OPTIONS").Name("list-recovery-logs")
}

func (handler *Handler) HandleAddSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.sets.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var set Set
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		log.Errorf("new set, unmarshal json params: %s", err)
		http.Error(w, "add set failed", http.StatusBadRequest)
		return
	}

	set.UserID = mux.Vars(r)["userId"]
	if set.UserID == "" || set.ExerciseID == "" {
		http.Error(w, "error, user id or exercise id empty", http.StatusBadRequest)
		return
	}
	if set.Weight < 0 || set.Reps < 0 {
		http.Error(w, "error, negative weight or reps", http.StatusBadRequest)
		return
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now()
	}

	addedSet, err := handler.repo.AddSet(ctx, set)
	if err != nil {
		log.Errorf("failed to add new set [%s] [%s]: %s", set.UserID, set.ExerciseID, err)
		http.Error(w, "error, failed to add new set", http.StatusInternalServerError)
		return
	}

	// working sets become the base for the next weight suggestion
	if !addedSet.IsWarmup {
		if err := handler.repo.UpsertExerciseDefault(ctx, ExerciseDefault{
			UserID:     addedSet.UserID,
			ExerciseID: addedSet.ExerciseID,
			LastWeight: addedSet.Weight,
			LastReps:   addedSet.Reps,
			LastRPE:    addedSet.RPE,
			UpdatedAt:  addedSet.CreatedAt,
		}); err != nil {
			log.Errorf("failed to update exercise default [%s] [%s]: %s", addedSet.UserID, addedSet.ExerciseID, err)
		}
	}

	handler.metrics.CounterSetsAdded.Inc()
	log.Debugf("new set added: [%s] [%s]: %d", addedSet.UserID, addedSet.ExerciseID, addedSet.ID)

	addedSetJson, err := json.Marshal(addedSet)
	if err != nil {
		log.Errorf("failed to marshal new set: %s", err)
		http.Error(w, "error, failed to add new set", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedSetJson, http.StatusCreated)
}

func (handler *Handler) HandleListSets(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.sets.list")
	defer span.End()

	params := SetParams{
		UserID:     mux.Vars(r)["userId"],
		ExerciseID: r.URL.Query().Get("exerciseId"),
	}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			http.Error(w, "error, invalid from", http.StatusBadRequest)
			return
		}
		params.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			http.Error(w, "error, invalid to", http.StatusBadRequest)
			return
		}
		params.To = &to
	}

	sets, err := handler.repo.ListSets(ctx, params)
	if err != nil {
		log.Errorf("failed to list sets for [%s]: %s", params.UserID, err)
		http.Error(w, "failed to list sets", http.StatusInternalServerError)
		return
	}

	total, err := handler.repo.SetsCount(ctx, params)
	if err != nil {
		log.Errorf("failed to count sets for [%s]: %s", params.UserID, err)
		http.Error(w, "failed to list sets", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ListSetsResponse{
		Sets:  sets,
		Total: total,
	})
	if err != nil {
		log.Errorf("failed to marshal sets: %s", err)
		http.Error(w, "failed to marshal sets", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleGetSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.sets.get")
	defer span.End()

	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	set, err := handler.repo.GetSet(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSetNotFound) {
			http.Error(w, "set not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get set %d: %s", id, err)
		http.Error(w, "failed to get set", http.StatusInternalServerError)
		return
	}

	setJson, err := json.Marshal(set)
	if err != nil {
		http.Error(w, "failed to marshal set", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, setJson, http.StatusOK)
}

func (handler *Handler) HandleUpdateSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.sets.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	var set Set
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		log.Errorf("update set, unmarshal json params: %s", err)
		http.Error(w, "update set failed", http.StatusBadRequest)
		return
	}
	if set.Weight < 0 || set.Reps < 0 {
		http.Error(w, "error, negative weight or reps", http.StatusBadRequest)
		return
	}

	set.ID = id
	if err := handler.repo.UpdateSet(ctx, set); err != nil {
		if errors.Is(err, ErrSetNotFound) {
			http.Error(w, "set not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update set %d: %s", id, err)
		http.Error(w, "failed to update set", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(struct {
		UpdatedID int `json:"updatedId"`
	}{UpdatedID: id})
	if err != nil {
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusOK)
}

func (handler *Handler) HandleDeleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.sets.delete")
	defer span.End()

	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeleteSet(ctx, id); err != nil {
		if errors.Is(err, ErrSetNotFound) {
			http.Error(w, "set not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete set %d: %s", id, err)
		http.Error(w, "failed to delete set", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(struct {
		DeletedID int `json:"deletedId"`
	}{DeletedID: id})
	if err != nil {
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusOK)
}

func (handler *Handler) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.sessions.start")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	session, err := handler.repo.StartSession(ctx, userID, time.Now())
	if err != nil {
		log.Errorf("failed to start session for [%s]: %s", userID, err)
		http.Error(w, "failed to start session", http.StatusInternalServerError)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		http.Error(w, "failed to marshal session", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, http.StatusCreated)
}

func (handler *Handler) HandleFinishSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.sessions.finish")
	defer span.End()

	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.FinishSession(ctx, id, time.Now()); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to finish session %d: %s", id, err)
		http.Error(w, "failed to finish session", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"finished":true}`)
}

func (handler *Handler) HandleAddRecoveryLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.recovery.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var rl RecoveryLog
	if err := json.NewDecoder(r.Body).Decode(&rl); err != nil {
		log.Errorf("new recovery log, unmarshal json params: %s", err)
		http.Error(w, "add recovery log failed", http.StatusBadRequest)
		return
	}

	rl.UserID = mux.Vars(r)["userId"]
	if rl.Date.IsZero() {
		rl.Date = time.Now().Truncate(24 * time.Hour)
	}

	addedLog, err := handler.repo.AddRecoveryLog(ctx, rl)
	if err != nil {
		log.Errorf("failed to add recovery log [%s]: %s", rl.UserID, err)
		http.Error(w, "error, failed to add recovery log", http.StatusBadRequest)
		return
	}

	handler.metrics.CounterRecoveryLogs.Inc()

	addedLogJson, err := json.Marshal(addedLog)
	if err != nil {
		http.Error(w, "failed to marshal recovery log", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedLogJson, http.StatusCreated)
}

func (handler *Handler) HandleListRecoveryLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.training.recovery.list")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	to := time.Now().Add(24 * time.Hour)
	from := to.AddDate(0, 0, -31)

	logs, err := handler.repo.ListRecoveryLogs(ctx, userID, from, to)
	if err != nil {
		log.Errorf("failed to list recovery logs for [%s]: %s", userID, err)
		http.Error(w, "failed to list recovery logs", http.StatusInternalServerError)
		return
	}

	logsJson, err := json.Marshal(logs)
	if err != nil {
		http.Error(w, "failed to marshal recovery logs", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, logsJson, http.StatusOK)
}
