package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vigila-io/vigilfetch/internal/api"
	"github.com/vigila-io/vigilfetch/internal/artifact"
	"github.com/vigila-io/vigilfetch/internal/output"
	"github.com/vigila-io/vigilfetch/internal/transfer"
	"github.com/vigila-io/vigilfetch/internal/utils"
)

var (
	cfgFile     string
	apiURL      string
	userID      string
	outputDir   string
	timeout     time.Duration
	kaTimeout   time.Duration
	idleTimeout time.Duration
	proxyURL    string
	userAgent   string
	headers     []string
	logFile     string
	debug       bool
)

var VigilfetchVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "vigilfetch",
	Short:   "Vigilfetch pulls recorded footage off a Vigila recorder",
	Version: VigilfetchVersion,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(debug)
		initConfig()
		if logFile != "" {
			if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
				utils.SetLogOutput(f)
			}
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.vigilfetch.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Vigila API base URL (e.g. http://dvr:8000)")
	rootCmd.PersistentFlags().StringVar(&userID, "user-id", "", "User id sent as X-User-Id")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for downloaded archives (default current directory)")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 60*time.Second, "API request timeout (eg. 5s, 10m); archive streams are unbounded")
	rootCmd.PersistentFlags().DurationVarP(&kaTimeout, "keep-alive-timeout", "k", 90*time.Second, "Keep-alive timeout for the HTTP client (eg. 10s, 1m)")
	rootCmd.PersistentFlags().DurationVar(&idleTimeout, "idle-timeout", 0, "Abort a transfer when no data arrives for this long (0 disables)")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")
	rootCmd.PersistentFlags().StringVarP(&userAgent, "user-agent", "a", utils.ToolUserAgent, "User agent")
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'Authorization: Basic dXNlcjpwYXNz'); can be specified multiple times")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("user_id", rootCmd.PersistentFlags().Lookup("user-id"))
	viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
	viper.BindPFlag("idle_timeout", rootCmd.PersistentFlags().Lookup("idle-timeout"))
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("min_free_bytes", int64(artifact.DefaultMinFreeBytes))
	viper.SetEnvPrefix("VIGIL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vigilfetch")
	}
	if err := viper.ReadInConfig(); err == nil {
		log := utils.GetLogger("config")
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("Config loaded")
	}
}

func requireAPIURL() string {
	url := viper.GetString("api_url")
	if url == "" {
		output.PrintError("No API URL configured; set --api-url, VIGIL_API_URL, or api_url in the config file")
		os.Exit(1)
	}
	return url
}

// clientConfig builds the HTTP client settings. Streaming clients drop the
// overall deadline; an archive of a day's footage can legitimately take
// longer than any fixed timeout.
func clientConfig(streaming bool) utils.HTTPClientConfig {
	cfg := utils.HTTPClientConfig{
		Timeout:       timeout,
		KATimeout:     kaTimeout,
		ProxyURL:      proxyURL,
		ProxyUsername: viper.GetString("proxy_username"),
		ProxyPassword: viper.GetString("proxy_password"),
		UserAgent:     userAgent,
		Headers:       utils.ParseHeaderArgs(headers),
	}
	if streaming {
		cfg.Timeout = 0
	}
	return cfg
}

func newAPIClient() *api.Client {
	return api.NewClient(requireAPIURL(), viper.GetString("user_id"), utils.NewVigilHTTPClient(clientConfig(false)))
}

func newController(sink artifact.Sink) *transfer.Controller {
	return transfer.NewController(utils.NewVigilHTTPClient(clientConfig(true)), sink, transfer.Options{
		IdleTimeout: viper.GetDuration("idle_timeout"),
	})
}

func newFileSink() *artifact.FileSink {
	sink := artifact.NewFileSink(viper.GetString("output_dir"))
	minFree := viper.GetInt64("min_free_bytes")
	if minFree < 0 {
		minFree = 0
	}
	sink.MinFreeBytes = uint64(minFree)
	return sink
}

// runTransfer drives one transfer with a live progress line and Ctrl-C
// cancellation.
func runTransfer(req transfer.Request, sink artifact.Sink) {
	ctrl := newController(sink)
	display := output.NewTransferDisplay(ctrl.State())
	display.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			ctrl.Cancel()
		case <-done:
		}
	}()

	location, err := ctrl.Start(req)
	close(done)
	signal.Stop(sigCh)
	display.Stop()
	if err != nil {
		output.PrintError(fmt.Sprintf("%s Download failed: %v", output.StyleSymbols["fail"], err))
		os.Exit(1)
	}
	if location == "" {
		output.PrintWarning(fmt.Sprintf("%s Download cancelled", output.StyleSymbols["warning"]))
		return
	}
	output.PrintSuccess(fmt.Sprintf("%s Saved %s", output.StyleSymbols["pass"], location))
}
