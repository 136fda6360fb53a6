package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/mod/semver"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/kv"
)

// FormatVersion is written into every stored history envelope.
const FormatVersion = "v1.0.0"

// envelope is the stored layout of one user's history, newest first.
type envelope struct {
	Version  string          `json:"version"`
	Sessions []SessionRecord `json:"sessions"`
}

// ErrUnsupportedVersion is returned when stored history was written with a
// different major format version.
var ErrUnsupportedVersion = errors.New("unsupported history version")

// Key returns the storage key of a user's history.
func Key(uid string) string {
	return "progress:" + uid
}

// Store persists session histories through a kv.Store.
type Store struct {
	kv     kv.Store
	logger *slog.Logger
}

// NewStore creates a Store. A nil logger discards log output.
func NewStore(backend kv.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{kv: backend, logger: logger}
}

// Append prepends rec to the user's history. Unreadable existing history is
// replaced, but history from another major format version is left alone and
// ErrUnsupportedVersion is returned. Storage errors are returned to the
// caller.
func (s *Store) Append(ctx context.Context, uid string, rec SessionRecord) error {
	raw, found, err := s.kv.Get(ctx, Key(uid))
	if err != nil {
		return fmt.Errorf("read history for %q: %w", uid, err)
	}

	var history []SessionRecord
	if found {
		history, err = decode(raw)
		if errors.Is(err, ErrUnsupportedVersion) {
			return fmt.Errorf("append to history for %q: %w", uid, err)
		}
		if err != nil {
			s.logger.Warn("discarding unreadable history", "uid", uid, "error", err)
			history = nil
		}
	}

	history = append([]SessionRecord{rec}, history...)
	return s.write(ctx, uid, history)
}

// Load returns the user's history, newest first. Missing, unreadable or
// corrupt history yields an empty list.
func (s *Store) Load(ctx context.Context, uid string) []SessionRecord {
	raw, found, err := s.kv.Get(ctx, Key(uid))
	if err != nil {
		s.logger.Warn("reading history failed", "uid", uid, "error", err)
		return []SessionRecord{}
	}
	if !found {
		return []SessionRecord{}
	}
	history, err := decode(raw)
	if err != nil {
		s.logger.Warn("ignoring unreadable history", "uid", uid, "error", err)
		return []SessionRecord{}
	}
	return history
}

// Aggregate folds the user's history crediting each session to every topic
// it lists.
func (s *Store) Aggregate(ctx context.Context, uid string) Aggregate {
	return Fold(s.Load(ctx, uid))
}

// AttributedAggregate folds the user's history crediting each answered
// question to its own topic.
func (s *Store) AttributedAggregate(ctx context.Context, uid string) Aggregate {
	return FoldAttributed(s.Load(ctx, uid))
}

// Reset replaces the user's history with an empty one.
func (s *Store) Reset(ctx context.Context, uid string) error {
	return s.write(ctx, uid, []SessionRecord{})
}

func (s *Store) write(ctx context.Context, uid string, history []SessionRecord) error {
	data, err := json.Marshal(envelope{Version: FormatVersion, Sessions: history})
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Set(ctx, Key(uid), string(data)); err != nil {
		return fmt.Errorf("write history for %q: %w", uid, err)
	}
	return nil
}

// decode parses a stored history. Both the versioned envelope and the
// legacy bare array are accepted.
func decode(raw string) ([]SessionRecord, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return nil, fmt.Errorf("empty history document")
	}

	if data[0] == '[' {
		var history []SessionRecord
		if err := json.Unmarshal(data, &history); err != nil {
			return nil, fmt.Errorf("parse legacy history: %w", err)
		}
		return normalize(history), nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	if !semver.IsValid(env.Version) {
		return nil, fmt.Errorf("history version %q is not a semantic version", env.Version)
	}
	if semver.Major(env.Version) != semver.Major(FormatVersion) {
		return nil, fmt.Errorf("%w %s", ErrUnsupportedVersion, env.Version)
	}
	return normalize(env.Sessions), nil
}

func normalize(history []SessionRecord) []SessionRecord {
	if history == nil {
		return []SessionRecord{}
	}
	for i := range history {
		if history[i].Topics == nil {
			history[i].Topics = []bank.Topic{}
		}
	}
	return history
}
