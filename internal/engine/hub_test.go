package engine

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jasonbender-c3x/coedit/internal/config"
	"github.com/jasonbender-c3x/coedit/internal/event"
	"github.com/jasonbender-c3x/coedit/internal/logging"
	"github.com/jasonbender-c3x/coedit/internal/store"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	return cfg
}

func TestNewHub_RequiresConfig(t *testing.T) {
	if _, err := NewHub(Config{}); err == nil {
		t.Fatal("NewHub should fail without a config")
	}
}

func TestNewHub_DefaultsToMemoryStore(t *testing.T) {
	hub, err := NewHub(Config{Cfg: testConfig(), Logger: logging.Nop()})
	if err != nil {
		t.Fatalf("NewHub: %v", err)
	}
	if _, ok := hub.Store().(*store.Memory); !ok {
		t.Errorf("store = %T, want *store.Memory", hub.Store())
	}
	if hub.Registry() == nil || hub.Bus() == nil || hub.Server() == nil {
		t.Error("all components should be wired")
	}
}

func TestNewHub_InjectedStoreAndBus(t *testing.T) {
	mem := store.NewMemory()
	bus := event.NewBus()
	hub, err := NewHub(Config{Cfg: testConfig(), Logger: logging.Nop()},
		WithStore(mem), WithBus(bus))
	if err != nil {
		t.Fatalf("NewHub: %v", err)
	}
	if hub.Store() != store.Store(mem) {
		t.Error("injected store not used")
	}
	if hub.Bus() != bus {
		t.Error("injected bus not used")
	}
}

func TestHub_StartStop(t *testing.T) {
	hub, err := NewHub(Config{Cfg: testConfig(), Logger: logging.Nop()})
	if err != nil {
		t.Fatalf("NewHub: %v", err)
	}

	if hub.Running() {
		t.Error("hub should not be running before Start")
	}
	if err := hub.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !hub.Running() {
		t.Error("hub should be running after Start")
	}
	if err := hub.Start(context.Background()); err == nil {
		t.Error("second Start should fail")
	}

	if err := hub.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if hub.Running() {
		t.Error("hub should not be running after Stop")
	}
	// Stop is idempotent.
	if err := hub.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"editor.example.com", "localhost:3000"})

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true}, // non-browser clients send no Origin
		{"https://editor.example.com", true},
		{"http://localhost:3000", true},
		{"https://evil.example.com", false},
		{"://bad", false},
	}
	for _, tt := range tests {
		r, _ := http.NewRequest(http.MethodGet, "/ws/doc-1", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := check(r); got != tt.want {
			t.Errorf("originChecker(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestHub_StopUnblocksListener(t *testing.T) {
	hub, err := NewHub(Config{Cfg: testConfig(), Logger: logging.Nop()})
	if err != nil {
		t.Fatalf("NewHub: %v", err)
	}
	if err := hub.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- hub.Stop() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Stop: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
	if hub.ServeErr() != nil {
		t.Errorf("clean shutdown should leave no listener error, got %v", hub.ServeErr())
	}
}

func TestHub_StopImmediatelyAfterStart(t *testing.T) {
	// Stop landing before the serve goroutine is scheduled must still
	// tear the listener down instead of hanging.
	for range 20 {
		hub, err := NewHub(Config{Cfg: testConfig(), Logger: logging.Nop()})
		if err != nil {
			t.Fatalf("NewHub: %v", err)
		}
		if err := hub.Start(context.Background()); err != nil {
			t.Fatalf("Start: %v", err)
		}

		done := make(chan error, 1)
		go func() { done <- hub.Stop() }()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("Stop: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Stop deadlocked")
		}
	}
}

func TestHub_StartBindFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Addr = "256.256.256.256:0"
	hub, err := NewHub(Config{Cfg: cfg, Logger: logging.Nop()})
	if err != nil {
		t.Fatalf("NewHub: %v", err)
	}
	if err := hub.Start(context.Background()); err == nil {
		t.Fatal("Start should fail when the address cannot be bound")
	}
	if hub.Running() {
		t.Error("hub should not be running after a failed Start")
	}
}
