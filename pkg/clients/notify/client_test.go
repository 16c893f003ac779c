package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mamadbah2/chickenfarm/internal/config"
)

func TestSend(t *testing.T) {
	var got Message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(config.NotifyConfig{WebhookURL: srv.URL, Token: "secret"})
	err := client.Send(context.Background(), Message{Title: "Daily report", Text: "Total Eggs: 10"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got.Title != "Daily report" || got.Text != "Total Eggs: 10" {
		t.Errorf("body = %+v", got)
	}
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", auth)
	}
}

func TestSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad token"}`))
	}))
	defer srv.Close()

	client := NewClient(config.NotifyConfig{WebhookURL: srv.URL})
	err := client.Send(context.Background(), Message{Text: "hi"})
	if err == nil {
		t.Fatal("Send() error = nil, want webhook error")
	}
	if !strings.Contains(err.Error(), "code=401") || !strings.Contains(err.Error(), "bad token") {
		t.Errorf("Send() error = %v", err)
	}
}
