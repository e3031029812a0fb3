package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ai-assistant/internal/app"
	"ai-assistant/internal/config"
	"ai-assistant/internal/domain"
	"ai-assistant/internal/service"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	application := app.New(ctx, cfg, logger)
	defer application.Close()

	sessionID := "cli_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	repl := &chatREPL{
		app:       application,
		sessionID: sessionID,
		in:        bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}
	if err := repl.run(ctx); err != nil {
		log.Fatal(err)
	}
}

type chatREPL struct {
	app       *app.App
	sessionID string
	style     string
	in        *bufio.Reader
	out       io.Writer
}

func (r *chatREPL) run(ctx context.Context) error {
	fmt.Fprintf(r.out, "---- Chat (sesion %s, store %s) ----\n", r.sessionID, r.app.Backend)
	fmt.Fprintln(r.out, "Comandos: /style <friendly|technical|concise>, /history, /export, /quit")

	for {
		fmt.Fprint(r.out, "Tu > ")
		line, err := r.in.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("leer input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := r.command(ctx, line); quit {
				return nil
			}
			continue
		}

		res, err := r.app.Chat.Reply(ctx, service.ChatRequest{
			Message:   line,
			SessionID: r.sessionID,
			Style:     r.style,
		})
		if err != nil {
			fmt.Fprintln(r.out, "Bot >", service.FallbackResponse)
			continue
		}
		fmt.Fprintln(r.out, "Bot >", res.Response)
		if res.Persist.Status == service.PersistDegraded {
			fmt.Fprintln(r.out, "(aviso: el turno no se pudo guardar)")
		}
	}
}

func (r *chatREPL) command(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/style":
		if len(fields) < 2 || !service.KnownStyle(fields[1]) {
			fmt.Fprintln(r.out, "Uso: /style <friendly|technical|concise>")
			return false
		}
		r.style = strings.ToLower(fields[1])
		raw, _ := json.Marshal(map[string]string{"responseStyle": r.style})
		res, err := r.app.Settings.Save(ctx, raw)
		if err != nil {
			fmt.Fprintf(r.out, "Error guardando estilo: %v\n", err)
			return false
		}
		fmt.Fprintf(r.out, "Estilo %s (%s)\n", r.style, res.Status)
	case "/history":
		r.printHistory(r.app.Conversations.History(ctx, r.sessionID))
	case "/export":
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r.app.Conversations.Export(ctx)); err != nil {
			fmt.Fprintf(r.out, "Error exportando: %v\n", err)
		}
	default:
		fmt.Fprintf(r.out, "Comando desconocido: %s\n", fields[0])
	}
	return false
}

func (r *chatREPL) printHistory(history []domain.Message) {
	if len(history) == 0 {
		fmt.Fprintln(r.out, "(historial vacio)")
		return
	}
	for _, m := range history {
		fmt.Fprintf(r.out, "[%s] %s\n", m.Role, m.Content)
	}
}
