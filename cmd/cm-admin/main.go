package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/guilhermemouraovc/cm-admin/internal/api"
	"github.com/guilhermemouraovc/cm-admin/internal/config"
	"github.com/guilhermemouraovc/cm-admin/internal/model"
	"github.com/guilhermemouraovc/cm-admin/internal/session"
	"github.com/guilhermemouraovc/cm-admin/internal/storage"
	"github.com/guilhermemouraovc/cm-admin/internal/tui"
)

const usage = `Uso: cm-admin [comando]

Comandos:
  (nenhum)          abre o painel administrativo
  login -u USUÁRIO  autentica e guarda a sessão
  logout            encerra a sessão guardada
  whoami            mostra o usuário da sessão guardada
`

type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	client  *api.Client
	session *session.Store
	kv      storage.Store
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.kv.Close()

	ctx := context.Background()
	if len(args) == 0 {
		return a.runTUI(ctx)
	}

	switch args[0] {
	case "login":
		return a.login(ctx, args[1:])
	case "logout":
		a.session.Logout()
		fmt.Println("Sessão encerrada.")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("comando desconhecido %q", args[0])
	}
}

// newLogger writes JSON logs to the configured file; stdout belongs to the TUI
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, func() { f.Close() }, nil
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	kv, err := storage.Open(storage.Backend(cfg.Storage), cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	client := api.NewClient(cfg.APIURL, api.WithTimeout(cfg.Timeout), api.WithLogger(logger))
	sess := session.New(client, kv, logger)
	client.UseSession(sess)

	logger.Info("cm-admin starting", "api_url", cfg.APIURL, "storage", cfg.Storage)
	return &app{cfg: cfg, logger: logger, client: client, session: sess, kv: kv}, nil
}

func (a *app) runTUI(ctx context.Context) error {
	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = "."
	}

	root := tui.NewRootModel(ctx, tui.Deps{
		Client:    a.client,
		Session:   a.session,
		Logger:    a.logger,
		ExportDir: exportDir,
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "usuário")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := bufio.NewReader(os.Stdin)
	user := strings.TrimSpace(*username)
	if user == "" {
		u, err := prompt(in, "Usuário: ")
		if err != nil {
			return err
		}
		user = u
	}

	password, err := readPassword(in, "Senha: ")
	if err != nil {
		return err
	}
	if user == "" || password == "" {
		return errors.New("usuário e senha são obrigatórios")
	}

	sess, err := a.session.Login(ctx, model.Credentials{Username: user, Password: password})
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			return errors.New("usuário ou senha inválidos")
		}
		return err
	}
	fmt.Printf("Conectado como %s.\n", displayName(sess.Profile))
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	cur := a.session.Current()
	if cur == nil {
		fmt.Println("Nenhuma sessão ativa.")
		return nil
	}
	if !a.session.IsValid(ctx) {
		fmt.Println("Sessão expirada. Faça login novamente.")
		return nil
	}
	fmt.Printf("%s (%s)\n", displayName(cur.Profile), cur.Profile.Role)
	return nil
}

func displayName(p model.Profile) string {
	if p.Nome != "" {
		return p.Nome + " <" + p.Username + ">"
	}
	return p.Username
}

func prompt(r *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo when stdin is a terminal
func readPassword(in *bufio.Reader, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(in, label)
	}
	fmt.Print(label)
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
