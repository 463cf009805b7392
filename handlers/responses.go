package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"kingdoms/internal/database/repositories"
)

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	ErrorMessage string `json:"error_message"`
	ErrorCode    int    `json:"error_code"`
}

func writeData(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dataEnvelope{Data: payload})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorEnvelope{ErrorMessage: message, ErrorCode: 1})
}

// writeServiceError maps persistence failures onto the HTTP surface.
func writeServiceError(w http.ResponseWriter, log *logrus.Logger, err error) {
	log.WithError(err).Warn("service error")

	switch {
	case errors.Is(err, repositories.ErrNameTaken):
		writeError(w, http.StatusUnprocessableEntity, "Player already exists")
	case errors.Is(err, repositories.ErrNotFound):
		writeError(w, http.StatusForbidden, "Query forbidden error")
	default:
		writeError(w, http.StatusInternalServerError, "Sqlite internal error")
	}
}
