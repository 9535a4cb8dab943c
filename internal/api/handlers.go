package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/chrisdamba/foodiq/internal/models"
)

// RestaurantService is the part of the query service the handlers use.
type RestaurantService interface {
	Search(ctx context.Context, term, location string, limit int) ([]models.RestaurantSummary, error)
	SearchByCategory(ctx context.Context, category, location string) ([]models.RestaurantSummary, error)
	GetByID(ctx context.Context, id string) (*models.RestaurantDetail, bool, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

// SearchHandler answers GET /api/restaurants?term=&location=&limit=.
func SearchHandler(svc RestaurantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit := -1
		if raw := q.Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
				return
			}
			limit = n
		}

		results, err := svc.Search(r.Context(), q.Get("term"), q.Get("location"), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// CategoryHandler answers GET /api/categories/{category}?location=.
func CategoryHandler(svc RestaurantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := svc.SearchByCategory(r.Context(), r.PathValue("category"), r.URL.Query().Get("location"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// DetailsHandler answers GET /api/restaurants/{id}.
func DetailsHandler(svc RestaurantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, found, err := svc.GetByID(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if !found {
			writeError(w, models.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

func HealthHandler(providerName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "provider": providerName})
	}
}

// writeError maps service errors to a status and the neutral user message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, models.ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Error: models.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
