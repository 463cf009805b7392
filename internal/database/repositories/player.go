package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("player not found")

	// ErrNameTaken is returned when an insert or rename hits the UNIQUE
	// constraint on the player name.
	ErrNameTaken = errors.New("player name already taken")
)

// Player is one row of the Players table.
type Player struct {
	UUID string
	Name string
}

// PlayerRepository handles database operations for registered players.
type PlayerRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

// NewPlayerRepository creates a new player repository.
func NewPlayerRepository(db *sql.DB, log *logrus.Logger) *PlayerRepository {
	return &PlayerRepository{db: db, log: log}
}

// Create inserts a player under a freshly generated uuid and returns the uuid.
func (r *PlayerRepository) Create(name string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate player uuid: %w", err)
	}

	_, err = r.db.Exec("INSERT INTO Players (uuid, name) VALUES (?, ?)", id.String(), name)
	if err != nil {
		if isConstraintViolation(err) {
			return "", fmt.Errorf("failed to create player %s: %w", name, ErrNameTaken)
		}
		return "", fmt.Errorf("failed to create player %s: %w", name, err)
	}

	r.log.WithFields(logrus.Fields{"uuid": id.String(), "name": name}).Debug("player created")
	return id.String(), nil
}

// GetByUUID retrieves a player by uuid.
func (r *PlayerRepository) GetByUUID(playerUUID string) (*Player, error) {
	var player Player
	err := r.db.QueryRow("SELECT uuid, name FROM Players WHERE uuid = ? LIMIT 1", playerUUID).
		Scan(&player.UUID, &player.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("player %s: %w", playerUUID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get player %s: %w", playerUUID, err)
	}
	return &player, nil
}

// GetByName retrieves a player by display name.
func (r *PlayerRepository) GetByName(name string) (*Player, error) {
	var player Player
	err := r.db.QueryRow("SELECT uuid, name FROM Players WHERE name = ? LIMIT 1", name).
		Scan(&player.UUID, &player.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("player named %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get player named %s: %w", name, err)
	}
	return &player, nil
}

// UpdateName renames the player identified by playerUUID.
func (r *PlayerRepository) UpdateName(playerUUID, name string) error {
	_, err := r.db.Exec("UPDATE Players SET name = ? WHERE uuid = ?", name, playerUUID)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("failed to rename player %s: %w", playerUUID, ErrNameTaken)
		}
		return fmt.Errorf("failed to rename player %s: %w", playerUUID, err)
	}

	r.log.WithFields(logrus.Fields{"uuid": playerUUID, "name": name}).Debug("player renamed")
	return nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
