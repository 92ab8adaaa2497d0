package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/store"
	"github.com/inkwell-blog/inkwell/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func recentEvents(t *testing.T, db *sql.DB) []model.Event {
	t.Helper()

	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_Handle_ErrorLevel(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Error("database connection failed", "host", "localhost", "port", 5432)

	// Give it a moment to write
	time.Sleep(50 * time.Millisecond)

	events := recentEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Level != model.EventLevelError {
		t.Errorf("Level = %q, want %q", events[0].Level, model.EventLevelError)
	}
	if events[0].Message != "database connection failed" {
		t.Errorf("Message = %q", events[0].Message)
	}
}

func TestEventLogHandler_Handle_InfoNotForwarded(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Info("routine startup message")

	time.Sleep(50 * time.Millisecond)

	if events := recentEvents(t, db); len(events) != 0 {
		t.Fatalf("expected 0 events for INFO log, got %d", len(events))
	}
}

func TestEventLogHandler_CategoryAttribute(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Warn("something odd", "category", model.EventCategoryComment)

	time.Sleep(50 * time.Millisecond)

	events := recentEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Category != model.EventCategoryComment {
		t.Errorf("Category = %q, want %q", events[0].Category, model.EventCategoryComment)
	}
}

func TestEventLogHandler_CategoryInference(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"login rate limit exceeded", model.EventCategoryAuth},
		{"post not found", model.EventCategoryPost},
		{"comment rejected", model.EventCategoryComment},
		{"user record inconsistent", model.EventCategoryUser},
		{"disk almost full", model.EventCategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			db, cleanup := testutil.TestDB(t)
			defer cleanup()

			logger := slog.New(NewEventLogHandler(discardHandler{}, db))
			logger.Warn(tt.message)

			time.Sleep(50 * time.Millisecond)

			events := recentEvents(t, db)
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0].Category != tt.want {
				t.Errorf("Category = %q, want %q", events[0].Category, tt.want)
			}
		})
	}
}

func TestEventLogHandler_MetadataJSON(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Warn("odd input", "field", `va"lue`, "category", "system")

	time.Sleep(50 * time.Millisecond)

	events := recentEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	want := `{"field":"va\"lue"}`
	if events[0].Metadata != want {
		t.Errorf("Metadata = %q, want %q", events[0].Metadata, want)
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))

	logger.Warn("below threshold")
	logger.Error("at threshold")

	time.Sleep(50 * time.Millisecond)

	events := recentEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Message != "at threshold" {
		t.Errorf("Message = %q", events[0].Message)
	}
}
