// cmd is the application entry point. The root command carries the shared
// flags; serve, api and web select which halves of the system to run.
package main

import (
	"os"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/activity-signup/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var v = config.NewViper()

var rootCmd = &cobra.Command{
	Use:   "signup",
	Short: "Extracurricular activity sign-up service",
	Long: `Serves the activity API (list, signup, unregister) and a server-rendered
sign-up page that talks to it. Settings come from flags, SIGNUP_* environment
variables or config.toml.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the activity API and the sign-up page in one process",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), modeAPI|modeWeb)
	},
}

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run only the activity API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), modeAPI)
	},
}

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run only the sign-up page against a remote activity API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), modeWeb)
	},
}

func init() {
	pflags := rootCmd.PersistentFlags()
	pflags.SortFlags = false
	pflags.String("port", "8080", "HTTP listen port")
	pflags.String("log-level", "info", "log level: debug, info, warn, error")
	pflags.Bool("metrics", true, "expose prometheus metrics on /metrics")

	for _, cmd := range []*cobra.Command{serveCmd, apiCmd} {
		flags := cmd.Flags()
		flags.SortFlags = false
		flags.String("store", config.StoreMemory, "activity store: memory, postgres or redis")
		flags.String("database-url", "", "postgres connection string (store=postgres)")
		flags.String("redis-url", "localhost:6379", "redis address or URL (store=redis)")
		flags.Bool("seed", true, "insert the default activity catalogue on startup")
		flags.StringSlice("cors-origin", []string{"*"}, "origins allowed to call the API from a browser")
	}
	for _, cmd := range []*cobra.Command{serveCmd, webCmd} {
		flags := cmd.Flags()
		flags.Duration("notice-duration", 5*time.Second, "how long status notices stay visible")
		flags.Duration("session-ttl", 30*time.Minute, "idle time after which a browser session is dropped")
		flags.Int("max-sessions", 10000, "upper bound on live browser sessions")
	}
	webCmd.Flags().String("api-url", "", "base URL of the activity API, e.g. http://localhost:8080")

	rootCmd.AddCommand(serveCmd, apiCmd, webCmd)
}

// flagKeys maps flag names whose config key is not the flag name with
// dashes turned into underscores.
var flagKeys = map[string]string{
	"metrics":     "enable_metrics",
	"cors-origin": "cors_origins",
}

// bindFlags binds the running command's flags, inherited ones included,
// to their viper keys. Only flags set on the command line override the
// environment and config file.
func bindFlags(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Name == "help" {
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
