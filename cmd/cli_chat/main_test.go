package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"ai-assistant/internal/app"
	"ai-assistant/internal/config"
)

func TestChatREPL_Session(t *testing.T) {
	cfg := &config.Config{
		StoreBackend:       config.StoreMemory,
		HistoryLimit:       10,
		PromptHistoryTurns: 4,
		DefaultSessionID:   "default",
	}
	a := app.New(context.Background(), cfg, nil)
	defer a.Close()

	input := strings.Join([]string{
		"/style technical",
		"how do I fix my ssl certificate?",
		"/history",
		"/export",
		"/bogus",
		"/quit",
		"never read",
	}, "\n") + "\n"

	var out bytes.Buffer
	repl := &chatREPL{
		app:       a,
		sessionID: "cli_test",
		in:        bufio.NewReader(strings.NewReader(input)),
		out:       &out,
	}
	if err := repl.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Estilo technical (ok)",
		"Bot > For SSL/TLS",
		"[user] how do I fix my ssl certificate?",
		`"userMessage": "how do I fix my ssl certificate?"`,
		"Comando desconocido: /bogus",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "never read") {
		t.Fatalf("expected /quit to stop the loop")
	}
}

func TestChatREPL_EOF(t *testing.T) {
	a := app.New(context.Background(), &config.Config{StoreBackend: config.StoreNone, HistoryLimit: 10}, nil)
	repl := &chatREPL{app: a, sessionID: "s", in: bufio.NewReader(strings.NewReader("")), out: &bytes.Buffer{}}
	if err := repl.run(context.Background()); err != nil {
		t.Fatalf("expected clean exit on EOF, got %v", err)
	}
}
