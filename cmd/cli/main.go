package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/goasset/internal/infrastructure/config"
	"github.com/iho/goasset/internal/infrastructure/logger"
	"github.com/iho/goasset/internal/infrastructure/postgres"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apiClient talks to the depreciation HTTP API.
type apiClient struct {
	baseURL  string
	token    string
	business string
	http     *http.Client
	out      io.Writer
}

func (c *apiClient) depreciationPath(parts ...string) string {
	segments := []string{"api", "v1", "businesses", url.PathEscape(c.business), "depreciation"}
	for _, p := range parts {
		segments = append(segments, url.PathEscape(p))
	}
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.Join(segments, "/")
}

func (c *apiClient) do(method, target string, body any, idempotencyKey string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	return c.http.Do(req)
}

// call sends a request and pretty-prints the JSON response. 207 is reported
// as success because the run itself committed.
func (c *apiClient) call(method, target string, body any, idempotencyKey string) error {
	resp, err := c.do(method, target, body, idempotencyKey)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if resp.StatusCode == http.StatusMultiStatus {
		fmt.Fprintln(c.out, "warning: some assets failed, see \"failed\"")
	}

	return printJSON(c.out, raw)
}

func (c *apiClient) download(target, path string) error {
	resp, err := c.do(http.MethodGet, target, nil, "")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("export failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	n, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "wrote %d bytes to %s\n", n, path)
	return nil
}

func printJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, err = w.Write(raw)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		timeout time.Duration
		client  = &apiClient{out: out}
	)

	rootCmd := &cobra.Command{
		Use:           "goasset-cli",
		Short:         "GoAsset CLI tool",
		Long:          `A command line interface for running, posting and reversing fixed-asset depreciation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client.http = &http.Client{Timeout: timeout}
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&client.baseURL, "url", "http://localhost:8080", "Base URL of the GoAsset API")
	rootCmd.PersistentFlags().StringVar(&client.token, "token", os.Getenv("GOASSET_TOKEN"), "Bearer token (defaults to $GOASSET_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&client.business, "business", "", "Business ID")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newRunCmd(client),
		newPeriodCmd(client, "post", "Post the period's draft entries", http.MethodPost, "post"),
		newPeriodCmd(client, "reverse", "Reverse every entry of the period", http.MethodPost, "reverse"),
		newPeriodCmd(client, "entries", "List the period's entries", http.MethodGet, "entries"),
		newPeriodCmd(client, "summary", "Summarise the period by category", http.MethodGet, "summary"),
		newExportCmd(client),
		newMigrateCmd(),
	)

	return rootCmd
}

func requireBusiness(c *apiClient) error {
	if c.business == "" {
		return fmt.Errorf("--business is required")
	}
	return nil
}

func newRunCmd(client *apiClient) *cobra.Command {
	var period, key string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run depreciation for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBusiness(client); err != nil {
				return err
			}
			body := map[string]string{"period_end": period}
			return client.call(http.MethodPost, client.depreciationPath("runs"), body, key)
		},
	}
	cmd.Flags().StringVar(&period, "period", "", "Period end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&key, "idempotency-key", "", "Idempotency key for safe retries")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func newPeriodCmd(client *apiClient, use, short, method, action string) *cobra.Command {
	var period, key string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBusiness(client); err != nil {
				return err
			}
			return client.call(method, client.depreciationPath("periods", period, action), nil, key)
		},
	}
	cmd.Flags().StringVar(&period, "period", "", "Period end date (YYYY-MM-DD)")
	if method == http.MethodPost {
		cmd.Flags().StringVar(&key, "idempotency-key", "", "Idempotency key for safe retries")
	}
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func newExportCmd(client *apiClient) *cobra.Command {
	var period, format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the period's schedule as XLSX or PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBusiness(client); err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("depreciation-%s-%s.%s", client.business, period, format)
			}
			target := client.depreciationPath("periods", period, "export") + "?format=" + url.QueryEscape(format)
			return client.download(target, output)
		},
	}
	cmd.Flags().StringVar(&period, "period", "", "Period end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&format, "format", "xlsx", "Export format: xlsx or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations (DATABASE_URL, MIGRATIONS_PATH)",
	}

	migrator := func() (*postgres.Migrator, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Output: os.Stderr})
		return postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log.With().Str("component", "migrate").Logger()), nil
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				return m.Up()
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				return m.Down()
			},
		},
	)

	return migrateCmd
}
