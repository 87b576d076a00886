package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/mailgate/internal/client/client"
	"github.com/dmitrijs2005/mailgate/internal/client/config"
)

type App struct {
	config *config.Config
	api    client.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewMailgateClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return newApp(c, apiClient, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, api: api, reader: bufio.NewReader(in), out: out}
}

func (a *App) Run(ctx context.Context) {
	defer a.api.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.api.Username() != ""
}

// withTimeout bounds a single API call by the configured request timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) getStatus() string {
	if u := a.api.Username(); u != "" {
		return "(" + u + ")"
	}
	return ""
}

// Root runs the REPL on the app's input until exit or EOF.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to mailgate CLI (type 'help' for commands)")

	pingCtx, cancel := a.withTimeout(ctx)
	if err := a.api.Ping(pingCtx); err != nil {
		printlnFn("Warning: server is not reachable:", err)
	}
	cancel()

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
