package mongodb

import (
	"testing"

	"github.com/sirupsen/logrus"

	"cbt-server/internal/config"
)

func TestParseTarget(t *testing.T) {
	t.Parallel()

	cases := []struct {
		uri      string
		wantHost string
		wantName string
	}{
		{"mongodb://localhost:27017/cbt", "localhost:27017", "cbt"},
		{"mongodb+srv://cluster0.abc.mongodb.net/exams", "cluster0.abc.mongodb.net", "exams"},
		{"mongodb://h1:27017,h2:27017/cbt", "h1:27017", "cbt"},
		{"mongodb://localhost:27017", "localhost:27017", "cbt"},
	}
	for _, tc := range cases {
		host, name := parseTarget(tc.uri)
		if host != tc.wantHost || name != tc.wantName {
			t.Fatalf("parseTarget(%q) = (%q, %q), want (%q, %q)", tc.uri, host, name, tc.wantHost, tc.wantName)
		}
	}
}

func TestConnector_InitialState(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	var cfg config.Config
	cfg.Database.URI = "mongodb://localhost:27017/cbt"

	conn := NewConnector(cfg, logger)
	if conn.State() != StateDisconnected {
		t.Fatalf("new connector state: %v", conn.State())
	}

	h := conn.Health()
	if h.Connected {
		t.Fatalf("disconnected connector reports connected")
	}
	if h.State != "disconnected" || h.Host != "localhost:27017" || h.Name != "cbt" {
		t.Fatalf("unexpected health snapshot: %+v", h)
	}

	if _, err := conn.Collection("users"); err == nil {
		t.Fatalf("expected error resolving collection before connect")
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	want := map[State]string{
		StateDisconnected: "disconnected",
		StateConnecting:   "connecting",
		StateConnected:    "connected",
		StateDegraded:     "degraded",
	}
	for st, s := range want {
		if st.String() != s {
			t.Fatalf("State(%d).String() = %q, want %q", st, st.String(), s)
		}
	}
}
