package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]interface{}{"user_id", "u1", "password", "hunter2", "Email", "a@b.c", "dangling"})
	want := []interface{}{"user_id", "u1", "password", "[REDACTED]", "Email", "[REDACTED]", "dangling"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kv[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLoggerRedactsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}
	l.With("request_id", "r1").Info("login", "token", "abc.def.ghi")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["token"] != "[REDACTED]" {
		t.Fatalf("token = %v", fields["token"])
	}
	if fields["request_id"] != "r1" {
		t.Fatalf("request_id = %v", fields["request_id"])
	}
}
