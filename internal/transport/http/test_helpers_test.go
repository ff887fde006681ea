package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/beixa/Reactivities/internal/auth"
	"github.com/beixa/Reactivities/internal/comments"
	"github.com/beixa/Reactivities/internal/config"
	"github.com/beixa/Reactivities/internal/core"
	"github.com/beixa/Reactivities/internal/proto"
	"github.com/beixa/Reactivities/internal/store"
	"github.com/beixa/Reactivities/internal/store/sqlite"
)

// testServer bundles everything a transport test needs: a running HTTP
// server over an in-memory store with one seeded activity.
type testServer struct {
	ts         *httptest.Server
	jwtConfig  *auth.JWTConfig
	activityID string
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	activityID := uuid.NewString()
	if err := st.CreateActivity(context.Background(), &store.Activity{
		ID:    activityID,
		Title: "Test activity",
		Date:  time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("seed activity: %v", err)
	}

	logger := zerolog.Nop()
	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)
	processor := comments.NewService(st, &logger)
	hub := core.NewHub(processor, &logger, true)
	t.Cleanup(hub.Shutdown)

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.JWTSecret = "test-secret"

	server := NewServer(hub, authService, &cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testServer{ts: ts, jwtConfig: jwtConfig, activityID: activityID}
}

func (s *testServer) token(t *testing.T, username string) string {
	t.Helper()
	token, err := auth.GenerateToken(s.jwtConfig, 1, username, false)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

// chatURL builds the ws:// URL for /chat, optionally with an access token.
func (s *testServer) chatURL(token string) string {
	u := "ws" + s.ts.URL[len("http"):] + ChatPath
	if token != "" {
		u += "?access_token=" + token
	}
	return u
}

func dialChat(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string, data any) {
	t.Helper()
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", msgType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// readUntilEvent reads outbound frames until it sees the wanted event
// name, skipping presence noise and other events along the way.
func readUntilEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()
	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read outbound waiting for %q: %v", event, err)
		}
		if outbound.Type == proto.OutboundTypeEvent && outbound.Event == event {
			return outbound.Data
		}
	}
}

// readUntilError reads outbound frames until an error frame arrives.
func readUntilError(t *testing.T, ctx context.Context, conn *websocket.Conn) *proto.Error {
	t.Helper()
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read outbound waiting for error: %v", err)
		}
		if outbound.Type == proto.OutboundTypeError && outbound.Error != nil {
			return outbound.Error
		}
	}
}
