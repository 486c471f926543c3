package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chronicblondiee/mcp-sandbox/internal/audit"
	"github.com/chronicblondiee/mcp-sandbox/internal/config"
	"github.com/chronicblondiee/mcp-sandbox/internal/httpserver"
	"github.com/chronicblondiee/mcp-sandbox/internal/observability"
	"github.com/chronicblondiee/mcp-sandbox/internal/security"
	"github.com/chronicblondiee/mcp-sandbox/internal/toolset"
)

var (
	version = "dev"
	commit  = ""
)

func main() {
	if err := newApp().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bash-command-server",
		Short:         "MCP server for guarded bash command execution",
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newServeCommand(),
		newInfoCommand(),
		newAuditCommand(),
	)
	return cmd
}

func buildVersion() string {
	v := version
	if commit != "" {
		v += " (" + commit + ")"
	}
	return v
}

func newServer() *mcp.Server {
	impl := &mcp.Implementation{
		Name:    "bash-command-server",
		Title:   "Bash command server, for guarded execution of shell commands",
		Version: version,
	}
	serverOpts := &mcp.ServerOptions{
		Instructions: `This MCP server executes bash commands under a conservative security
policy: a fixed blocklist of commands and patterns, a 1000 character
limit, a reduced environment, and a 30 second timeout.

Call list_safe_commands for examples that always pass validation, and
get_security_info for the full policy.
`,
	}
	return mcp.NewServer(impl, serverOpts)
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over HTTP or stdio",
		Args:  cobra.NoArgs,
		RunE:  serveAction,
	}
	flags := cmd.Flags()
	flags.String("host", "127.0.0.1", "listen address for the HTTP transport")
	flags.Int("port", 8000, "listen port for the HTTP transport")
	flags.String("transport", "http", `transport to serve ("http" or "stdio")`)
	flags.String("config", "", "path to a YAML config file")
	return cmd
}

func serveAction(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Flags given explicitly win over the config file.
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("transport") {
		cfg.Server.Transport, _ = flags.GetString("transport")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := observability.InitLogger("bash-command-server", cfg.Log.Level)

	sink, err := openSink(cfg, logger)
	if err != nil {
		return err
	}

	ts := toolset.New(cfg.Policy(), sink, logger)
	defer func() { _ = ts.Close() }()

	server := newServer()
	if err := ts.RegisterServer(server); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Transport == "stdio" {
		logger.Info().Str("transport", "stdio").Msg("serving MCP")
		return server.Run(ctx, &mcp.StdioTransport{})
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return httpserver.New(addr, server, logger, buildVersion()).Serve(ctx)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func openSink(cfg config.Config, logger zerolog.Logger) (audit.Sink, error) {
	if !cfg.Audit.Enabled {
		return audit.NopSink{}, nil
	}
	sink, err := audit.OpenSQLite(cfg.Audit.Path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	logger.Info().Str("path", cfg.Audit.Path).Msg("audit log enabled")
	return sink, nil
}

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the tools the server exposes",
		Args:  cobra.NoArgs,
		RunE:  infoAction,
	}
}

func infoAction(cmd *cobra.Command, _ []string) error {
	info, err := inspectInfo(cmd.Context())
	if err != nil {
		return err
	}
	j, err := json.MarshalIndent(info, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(j))
	return err
}

// inspectInfo lists the registered tools by connecting an in-memory
// client to a throwaway server instance.
func inspectInfo(ctx context.Context) (*Info, error) {
	ts := toolset.New(security.DefaultPolicy(), nil, zerolog.Nop())
	defer func() { _ = ts.Close() }()

	server := newServer()
	if err := ts.RegisterServer(server); err != nil {
		return nil, err
	}
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		return nil, err
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		return nil, err
	}
	toolsResult, err := clientSession.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, err
	}
	if err = clientSession.Close(); err != nil {
		return nil, err
	}
	if err = serverSession.Wait(); err != nil {
		return nil, err
	}
	return &Info{Tools: toolsResult.Tools}, nil
}

type Info struct {
	Tools []*mcp.Tool `json:"tools"`
}

func newAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent entries from the audit log",
		Args:  cobra.NoArgs,
		RunE:  auditAction,
	}
	flags := cmd.Flags()
	flags.String("config", "", "path to a YAML config file")
	flags.Int("limit", 20, "maximum number of entries to show")
	return cmd
}

func auditAction(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	sink, err := audit.OpenSQLite(cfg.Audit.Path)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer func() { _ = sink.Close() }()

	entries, err := sink.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	j, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(j))
	return err
}
