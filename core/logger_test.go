package core

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

func TestNewLogger_LevelFollowsDebugLogs(t *testing.T) {
	log := NewLogger("prod", Config{DebugLogs: true})
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", log.GetLevel())
	}

	log = NewLogger("prod", Config{})
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info level, got %s", log.GetLevel())
	}
}

func TestNewLogger_FormatterPerEnv(t *testing.T) {
	if _, ok := NewLogger("dev", Config{}).Formatter.(*logrus.TextFormatter); !ok {
		t.Error("expected text formatter in dev")
	}
	if _, ok := NewLogger("prod", Config{}).Formatter.(*logrus.JSONFormatter); !ok {
		t.Error("expected JSON formatter in prod")
	}
}

func TestRequestLogger_LogsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	var seen logrus.FieldLogger
	handler := middleware.RequestID(RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = WithContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quiz", nil))

	if seen == nil {
		t.Fatal("expected request logger in context")
	}

	out := buf.String()
	for _, want := range []string{`"status":418`, `"path":"/quiz"`, `"request_id":"`, `"msg":"request served"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in log output, got: %s", want, out)
		}
	}
}

func TestRequestLogger_DefaultsStatusToOK(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), `"status":200`) {
		t.Errorf("expected status 200 in log, got: %s", buf.String())
	}
}

func TestWithContext_FallsBackToStandardLogger(t *testing.T) {
	if WithContext(context.Background()) == nil {
		t.Error("expected a logger for a bare context")
	}
}
