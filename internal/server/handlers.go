package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/yeabuddy/internal/models"
	"github.com/claude/yeabuddy/internal/storage"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error  string                    `json:"error"`
	Fields []*models.ValidationError `json:"fields,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.repo.ListWorkouts(r.Context())
	if err != nil {
		s.log.Error("listing workouts", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "listing workouts failed"})
		return
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	workout, err := s.repo.GetWorkout(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "workout not found"})
		return
	}
	if err != nil {
		s.log.Error("getting workout", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "getting workout failed"})
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var payload models.Workout
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&payload); err != nil {
		if bodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON: " + err.Error()})
		return
	}

	if err := payload.Validate(); err != nil {
		body := errorBody{Error: err.Error()}
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			body.Fields = verrs
		}
		writeJSON(w, http.StatusBadRequest, body)
		return
	}

	created, err := s.repo.CreateWorkout(r.Context(), payload)
	if err != nil {
		s.log.Error("creating workout", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "creating workout failed"})
		return
	}
	w.Header().Set("Location", "/api/workouts/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	result, err := s.alpha.Ingest(r.Context(), http.MaxBytesReader(w, r.Body, 16*maxBodyBytes))
	if err != nil {
		s.log.Error("alpha import error", "error", err)
		if bodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "export too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func bodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
