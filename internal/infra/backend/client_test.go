package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"aslan-support-client/internal/domain/model"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestClient_StartSession(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{
			"id":         "sess-42",
			"start_time": "2025-06-01T10:00:00Z",
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "tok-1", time.Second, false, testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	started, err := c.StartSession(context.Background(), "user-1", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if gotPath != "POST /sessions/start" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody["user_id"] != "user-1" {
		t.Errorf("body = %v", gotBody)
	}
	if started.ID != "sess-42" {
		t.Errorf("id = %q", started.ID)
	}
	if !started.StartTime.Equal(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("start time = %v", started.StartTime)
	}
}

func TestClient_EndSession(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "", time.Second, false, testLogger())
	if err := c.EndSession(context.Background(), "sess-42", time.Now(), 120); err != nil {
		t.Fatalf("end: %v", err)
	}
	if gotPath != "PUT /sessions/sess-42/end" {
		t.Errorf("path = %q", gotPath)
	}
	if int(gotBody["token_consumed"].(float64)) != 120 {
		t.Errorf("body = %v", gotBody)
	}
}

func TestClient_ClassifyMessage(t *testing.T) {
	t.Run("maps response fields", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/messages/validate" {
				t.Errorf("path = %q", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"valid":       true,
				"emotion":     "anxious",
				"colorFlag":   "yellow",
				"totalTokens": 37,
			})
		}))
		defer srv.Close()

		c, _ := NewClient(srv.URL, "", time.Second, false, testLogger())
		cls, err := c.ClassifyMessage(context.Background(), "worried about tomorrow")
		if err != nil {
			t.Fatalf("classify: %v", err)
		}
		if !cls.Valid || cls.Emotion != "anxious" || cls.ColorFlag != "yellow" || cls.TotalTokens != 37 {
			t.Errorf("unexpected classification %+v", cls)
		}
	})

	t.Run("rejection comes back with valid=false", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"valid": false, "error": "content policy"})
		}))
		defer srv.Close()

		c, _ := NewClient(srv.URL, "", time.Second, false, testLogger())
		cls, err := c.ClassifyMessage(context.Background(), "x")
		if err != nil {
			t.Fatalf("classify: %v", err)
		}
		if cls.Valid || cls.Error != "content policy" {
			t.Errorf("unexpected classification %+v", cls)
		}
	})

	t.Run("server error surfaces as transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c, _ := NewClient(srv.URL, "", time.Second, false, testLogger())
		if _, err := c.ClassifyMessage(context.Background(), "x"); err == nil {
			t.Fatal("expected error on 502")
		}
	})
}

func TestClient_FetchTokenUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/token-usage" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]int{"monthly_token_limit": 10000, "consumed": 4200})
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "", time.Second, false, testLogger())
	usage, err := c.FetchTokenUsage(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if usage.MonthlyLimit != 10000 || usage.Consumed != 4200 {
		t.Errorf("usage = %+v", usage)
	}
}

func TestClient_CreateAlert(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/alerts/create" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "", time.Second, false, testLogger())
	alert, _ := model.NewAlert("a1", "sess-1", "msg-1", "user-1", model.AlertCrisis, "keyword match", time.Now())
	if err := c.CreateAlert(context.Background(), alert); err != nil {
		t.Fatalf("create: %v", err)
	}
	if gotBody["chat_history_id"] != "msg-1" {
		t.Errorf("message id must travel as chat_history_id: %v", gotBody)
	}
	if gotBody["alert_type"] != "crisis" {
		t.Errorf("body = %v", gotBody)
	}
}
