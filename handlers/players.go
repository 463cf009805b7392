package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"kingdoms/internal/database/repositories"
	"kingdoms/internal/network"
	"kingdoms/pkg/config"
)

// nameStems seed generated display names, suffixed with a random number.
var nameStems = []string{"Sylvain", "Risitas", "Shermaine", "June"}

// PlayerHandler serves the player registration and naming endpoints.
type PlayerHandler struct {
	cfg  config.GameConfig
	repo *repositories.PlayerRepository
	hub  *network.Hub
	log  *logrus.Logger
}

// NewPlayerHandler creates the handler over the name store and the hub.
func NewPlayerHandler(cfg config.GameConfig, repo *repositories.PlayerRepository, hub *network.Hub, log *logrus.Logger) *PlayerHandler {
	return &PlayerHandler{cfg: cfg, repo: repo, hub: hub, log: log}
}

type newPlayerResponse struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type nameValidity struct {
	IsValid bool    `json:"is_valid"`
	Reason  *string `json:"reason"`
}

// NewPlayer allocates an unused display name, persists the player and
// returns the fresh uuid together with the name.
func (h *PlayerHandler) NewPlayer(w http.ResponseWriter, r *http.Request) {
	name, err := h.generateAvailableName()
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	playerUUID, err := h.repo.Create(name)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, newPlayerResponse{UUID: playerUUID, Name: name})
}

// RandomName returns a fresh unused display name without persisting it.
func (h *PlayerHandler) RandomName(w http.ResponseWriter, r *http.Request) {
	name, err := h.generateAvailableName()
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, name)
}

// IsValidName reports whether a submitted name could be claimed, with the
// rejection reason when it could not.
func (h *PlayerHandler) IsValidName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Internal error")
		return
	}

	validity, err := h.checkName(req.Name)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeData(w, validity)
}

// UpdateName validates and persists a new display name for the player, then
// refreshes the connected registry record if there is one.
func (h *PlayerHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	playerUUID := mux.Vars(r)["player_uuid"]

	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Internal error")
		return
	}

	validity, err := h.checkName(req.Name)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	if !validity.IsValid {
		writeError(w, http.StatusUnprocessableEntity, "Player already exists")
		return
	}

	if err := h.repo.UpdateName(playerUUID, req.Name); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	h.hub.Rename(playerUUID, req.Name)
	writeData(w, req.Name)
}

func (h *PlayerHandler) checkName(name string) (nameValidity, error) {
	length := utf8.RuneCountInString(name)
	if length < h.cfg.NameMinLen {
		reason := fmt.Sprintf("player name is too short (%d characters), it should be at least %d",
			length, h.cfg.NameMinLen)
		return nameValidity{Reason: &reason}, nil
	}
	if length > h.cfg.NameMaxLen {
		reason := fmt.Sprintf("player name is too long (%d characters), it should be at most %d",
			length, h.cfg.NameMaxLen)
		return nameValidity{Reason: &reason}, nil
	}

	_, err := h.repo.GetByName(name)
	switch {
	case err == nil:
		reason := "player name already exists"
		return nameValidity{Reason: &reason}, nil
	case errors.Is(err, repositories.ErrNotFound):
		return nameValidity{IsValid: true}, nil
	default:
		return nameValidity{}, err
	}
}

// generateAvailableName draws from the stem list until an unused name comes
// up.
func (h *PlayerHandler) generateAvailableName() (string, error) {
	for {
		stem := nameStems[rand.Intn(len(nameStems))]
		candidate := fmt.Sprintf("#%s%d", stem, rand.Intn(99999))

		_, err := h.repo.GetByName(candidate)
		switch {
		case err == nil:
			h.log.WithField("name", candidate).Debug("generated name taken, drawing another")
		case errors.Is(err, repositories.ErrNotFound):
			return candidate, nil
		default:
			return "", err
		}
	}
}
