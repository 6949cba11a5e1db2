package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fleet_console/internal/repository"

	"github.com/gorilla/websocket"
)

func TestParseSnapshot(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		wantErr bool
		wantLen int
	}{
		{
			name:    "valid snapshot",
			raw:     `{"items":[{"stationId":"S1","chargerId":"C1","lat":1,"lon":1,"derived":{"health":"OK","risk":"NONE"}}]}`,
			wantLen: 1,
		},
		{
			name:    "empty items is a valid empty fleet",
			raw:     `{"items":[]}`,
			wantLen: 0,
		},
		{
			name:    "missing items field is an empty fleet",
			raw:     `{}`,
			wantLen: 0,
		},
		{
			name:    "malformed json",
			raw:     `{"items": [`,
			wantErr: true,
		},
		{
			name:    "wrong items type",
			raw:     `{"items": "nope"}`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			items, err := parseSnapshot([]byte(tc.raw))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected parse error, got %d items", len(items))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != tc.wantLen {
				t.Fatalf("len = %d, want %d", len(items), tc.wantLen)
			}
		})
	}
}

func TestApply_MalformedMessageLeavesCollectionUnchanged(t *testing.T) {
	t.Parallel()

	twins := repository.NewTwinStore()
	s := NewSubscriber("ws://unused", twins, nil)

	s.apply([]byte(`{"items":[{"stationId":"S1","chargerId":"C1"}]}`))
	if got := twins.All(); len(got) != 1 {
		t.Fatalf("first snapshot not applied: %+v", got)
	}

	s.apply([]byte(`{"items": [oops`))
	got := twins.All()
	if len(got) != 1 || got[0].Key().String() != "S1::C1" {
		t.Fatalf("malformed message must not disturb the collection: %+v", got)
	}

	// The next valid message fully replaces the survivor.
	s.apply([]byte(`{"items":[{"stationId":"S2","chargerId":"C2"}]}`))
	got = twins.All()
	if len(got) != 1 || got[0].Key().String() != "S2::C2" {
		t.Fatalf("replace semantics broken: %+v", got)
	}
}

var feedUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func TestSubscriber_ConsumesLiveFeed(t *testing.T) {
	t.Parallel()

	messages := []string{
		`{"items":[{"stationId":"S1","chargerId":"C1","derived":{"health":"DOWN","risk":"ALERT"}}]}`,
		`not json at all`,
		`{"items":[{"stationId":"S2","chargerId":"C1"},{"stationId":"S2","chargerId":"C2"}]}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := feedUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	twins := repository.NewTwinStore()
	sub := NewSubscriber("ws"+strings.TrimPrefix(srv.URL, "http"), twins, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sub.Run(ctx)

	// Wait for the final snapshot to land.
	deadline := time.Now().Add(3 * time.Second)
	for {
		got := twins.All()
		if len(got) == 2 && got[0].Key().String() == "S2::C1" {
			if !twins.Healthy() {
				t.Fatal("store should be healthy while connected")
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("feed snapshot never applied, have %+v", got)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
