package privategames

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gamehub/internal/db"
	"gamehub/internal/gateway"
	"gamehub/internal/logging"
	"gamehub/internal/metrics"
)

type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Recorder
	// CascadeDelete also removes the Game row when a private game is
	// deleted. Off by default so finished games stay on record.
	CascadeDelete bool
}

// Service runs the private game lifecycle on top of a Store and the game
// server gateway.
type Service struct {
	store   Store
	gateway gateway.Allocator
	logger  *slog.Logger
	metrics *metrics.Recorder
	cascade bool
}

// Created is what a successful create hands back to the caller.
type Created struct {
	ID   uint   `json:"id"`
	Link string `json:"link"`
}

func NewService(store Store, alloc gateway.Allocator, opts Options) *Service {
	return &Service{
		store:   store,
		gateway: alloc,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		cascade: opts.CascadeDelete,
	}
}

// CreatePrivateGame asks the game server for a session link, then stores the
// Game and PrivateGame rows together. Nothing is stored when the gateway
// fails.
func (s *Service) CreatePrivateGame(ctx context.Context, passwd string, maxPlayers int) (Created, error) {
	if maxPlayers < 0 {
		s.record(OpCreate, metrics.ResultRejected)
		return Created{}, wrap(OpCreate, ErrInvalidMaxPlayers)
	}

	link, err := s.allocate(ctx)
	if err != nil {
		s.record(OpCreate, metrics.ResultError)
		logging.Error(s.log(ctx), "game server allocation failed", err)
		return Created{}, wrap(OpCreate, err)
	}

	game := &db.PrivateGame{
		Passwd:     passwd,
		Link:       link,
		MaxPlayers: maxPlayers,
	}
	if err := s.store.Create(ctx, game); err != nil {
		s.record(OpCreate, metrics.ResultError)
		logging.Error(s.log(ctx), "private game insert failed", err)
		return Created{}, wrap(OpCreate, err)
	}

	s.record(OpCreate, metrics.ResultOK)
	logging.Info(s.log(ctx), "private game created", logging.FieldGameID, game.ID, "max_players", maxPlayers)
	return Created{ID: game.ID, Link: game.Link}, nil
}

// ListPrivateGames returns every private game without its password or link.
func (s *Service) ListPrivateGames(ctx context.Context) ([]Summary, error) {
	games, err := s.store.List(ctx)
	if err != nil {
		s.record(OpQuery, metrics.ResultError)
		return nil, wrap(OpQuery, err)
	}
	s.record(OpQuery, metrics.ResultOK)
	return games, nil
}

// JoinPrivateGame returns the session link when id and passwd both match.
// A wrong password is indistinguishable from an unknown id.
func (s *Service) JoinPrivateGame(ctx context.Context, id uint, passwd string) (string, bool, error) {
	game, found, err := s.store.FindByCredentials(ctx, id, passwd)
	if err != nil {
		s.record(OpJoin, metrics.ResultError)
		return "", false, wrap(OpJoin, err)
	}
	if !found {
		s.record(OpJoin, metrics.ResultNotFound)
		return "", false, nil
	}
	s.record(OpJoin, metrics.ResultOK)
	return game.Link, true, nil
}

// DeletePrivateGame removes the private game and returns how many rows went.
func (s *Service) DeletePrivateGame(ctx context.Context, id uint) (int64, bool, error) {
	removed, err := s.store.Delete(ctx, id, s.cascade)
	if err != nil {
		s.record(OpDelete, metrics.ResultError)
		return 0, false, wrap(OpDelete, err)
	}
	if removed == 0 {
		s.record(OpDelete, metrics.ResultNotFound)
		return 0, false, nil
	}
	s.record(OpDelete, metrics.ResultOK)
	if s.cascade {
		logging.Info(s.log(ctx), "private game deleted", logging.FieldGameID, id)
	} else {
		logging.Info(s.log(ctx), "private game deleted, game record retained", logging.FieldGameID, id)
	}
	return removed, true, nil
}

// Players returns the current occupancy of a private game.
func (s *Service) Players(ctx context.Context, id uint) (int, bool, error) {
	players, found, err := s.store.Players(ctx, id)
	if err != nil {
		s.record(OpPlayers, metrics.ResultError)
		return 0, false, wrap(OpPlayers, err)
	}
	if !found {
		s.record(OpPlayers, metrics.ResultNotFound)
		return 0, false, nil
	}
	s.record(OpPlayers, metrics.ResultOK)
	return players, true, nil
}

// ClaimSeat takes one seat. It fails with ErrGameFull at capacity.
func (s *Service) ClaimSeat(ctx context.Context, id uint) (int, bool, error) {
	return s.adjust(ctx, id, 1)
}

// ReleaseSeat frees one seat. It fails with ErrNoSeatsTaken when empty.
func (s *Service) ReleaseSeat(ctx context.Context, id uint) (int, bool, error) {
	return s.adjust(ctx, id, -1)
}

func (s *Service) adjust(ctx context.Context, id uint, delta int) (int, bool, error) {
	players, found, err := s.store.AdjustPlayers(ctx, id, delta)
	switch {
	case errors.Is(err, ErrGameFull), errors.Is(err, ErrNoSeatsTaken):
		s.record(OpSeat, metrics.ResultRejected)
		return players, found, wrap(OpSeat, err)
	case err != nil:
		s.record(OpSeat, metrics.ResultError)
		return 0, false, wrap(OpSeat, err)
	case !found:
		s.record(OpSeat, metrics.ResultNotFound)
		return 0, false, nil
	}
	s.record(OpSeat, metrics.ResultOK)
	return players, true, nil
}

func (s *Service) allocate(ctx context.Context) (string, error) {
	if s.gateway == nil {
		return "", fmt.Errorf("%w: %w", ErrGatewayUnavailable, gateway.ErrNoEndpoint)
	}
	started := time.Now()
	link, err := s.gateway.Allocate(ctx)
	if err == nil && strings.TrimSpace(link) == "" {
		err = gateway.ErrNoEndpoint
	}
	s.metrics.ObserveGateway(time.Since(started), err)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}
	return link, nil
}

func (s *Service) record(op Op, result string) {
	s.metrics.RecordOperation(string(op), result)
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}
