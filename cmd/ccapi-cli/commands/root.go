package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"ccapi/lib/ccapi"
	"ccapi/lib/ccapi/core"
	"ccapi/lib/configutil"
	"ccapi/lib/dispatchmail"
	"ccapi/lib/restyutil"
	"ccapi/lib/serviceutil"
	"ccapi/lib/stockstore"
	"ccapi/lib/telemetry"
	"ccapi/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Config struct {
	BaseUrl           string              `json:"base_url"`
	Username          string              `json:"username"`
	Password          string              `json:"password"`
	BrandID           int                 `json:"brand_id"`
	RequestsPerSecond float64             `json:"requests_per_second"`
	CloudflareBypass  bool                `json:"cloudflare_bypass"`
	Store             stockstore.Config   `json:"store"`
	Mail              dispatchmail.Config `json:"mail"`
}

var (
	verbose    *bool
	configPath *string
)

var rootCmd = &cobra.Command{
	Use:   "ccapi-cli",
	Short: "ccapi-cli is a CLI for the Cloud Commerce Pro back office.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output and dump every request to dev/.state/resty/ccapi.")
	configPath = rootCmd.PersistentFlags().String("config", "ccapi.json5", "The config file to read the account from.")
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if err != nil {
		serviceutil.Fatal(fmt.Sprintf("failed to read config '%s'", *configPath), err)
	}
	if cfg.Store.File == "" && cfg.Store.Url == "" {
		cfg.Store.File = "ccapi-stock.db"
	}
	return cfg
}

func login(ctx context.Context, cfg Config) *ccapi.API {
	opts := core.ClientOptions{
		BaseUrl:           cfg.BaseUrl,
		Username:          cfg.Username,
		Password:          cfg.Password,
		BrandID:           cfg.BrandID,
		RequestsPerSecond: cfg.RequestsPerSecond,
		CloudflareBypass:  cfg.CloudflareBypass,
	}
	if *verbose {
		output, err := restyutil.NewFilesystemOutput("<dev_state>/resty/ccapi")
		if err != nil {
			slog.Warn("not dumping requests", "err", err)
		} else {
			opts.Output = output
		}
	}

	api, err := ccapi.New(ctx, opts)
	if err != nil {
		serviceutil.Fatal("failed to login", err)
	}
	return api
}

// connect reads the config and logs in.
func connect(cmd *cobra.Command) *ccapi.API {
	return login(cmd.Context(), readConfig())
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func intArg(name, value string) int {
	id, err := strconv.Atoi(value)
	if err != nil {
		serviceutil.Fatal(fmt.Sprintf("invalid %s '%s'", name, value), err)
	}
	return id
}

func intArgs(name string, values []string) []int {
	ids := make([]int, len(values))
	for i, v := range values {
		ids[i] = intArg(name, v)
	}
	return ids
}

func floatArg(name, value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		serviceutil.Fatal(fmt.Sprintf("invalid %s '%s'", name, value), err)
	}
	return f
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(timezone.Location).Format("02/01/2006 15:04")
}
