// Package main provides the songbridge CLI application entry point.
package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"songbridge/internal/convert"
	"songbridge/internal/converter"
	"songbridge/internal/core"
	httpserver "songbridge/internal/http"
	"songbridge/internal/i18n"
	"songbridge/internal/messaging"
	"songbridge/internal/popup"
	"songbridge/internal/spotify"
	"songbridge/internal/store"
	"songbridge/pkg/musiclink"
	"songbridge/pkg/text"
)

const envPrefix = "SONGBRIDGE"

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "songbridge",
	Short: "songbridge - open a track on every streaming platform",
	Long: `songbridge recognises Spotify, Deezer and YouTube Music track pages and converts
a track link into links for the same track on the other platforms.`,
	SilenceUsage: true,
	RunE:         runRoot,
}

var classifyCmd = &cobra.Command{
	Use:   "classify <url>...",
	Short: "Report which platform's track page each URL is",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

var popupCmd = &cobra.Command{
	Use:   "popup <url-or-shared-text>",
	Short: "Convert a track link through the conversion API and show the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runPopup,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local conversion API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := core.DefaultConfig()
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "config file (default is .env)")
	flags.String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	flags.String("endpoint", defaults.Client.Endpoint, "Conversion API endpoint used by the popup")
	flags.Duration("client-timeout", defaults.Client.Timeout, "Conversion API request timeout")
	flags.String("server-host", defaults.Server.Host, "HTTP server host")
	flags.Int("server-port", defaults.Server.Port, "HTTP server port")
	flags.Duration("server-read-timeout", defaults.Server.ReadTimeout, "HTTP server read timeout")
	flags.Duration("server-write-timeout", defaults.Server.WriteTimeout, "HTTP server write timeout")
	flags.Int("rate-limit-per-minute", defaults.Server.RateLimitPerMinute,
		"Maximum conversions per client per minute (0 disables limiting)")
	flags.String("allowed-origin", defaults.Server.AllowedOrigin, "Access-Control-Allow-Origin for the API")
	flags.String("spotify-client-id", "", "Spotify client ID")
	flags.String("spotify-client-secret", "", "Spotify client secret")
	flags.String("youtube-api-key", "", "YouTube Data API key used to search YouTube Music")
	flags.Int("cache-size", defaults.Cache.Size, "Maximum number of cached conversions")
	flags.Duration("cache-ttl", defaults.Cache.TTL, "How long a conversion stays cached")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	flags.String("language", i18n.DefaultLanguage, fmt.Sprintf("Message language (%s)", supportedLangs))
	flags.Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	popupCmd.Flags().Bool("only-track-pages", false, "Skip the conversion unless the URL was announced as a track page")

	rootCmd.AddCommand(classifyCmd, popupCmd, serveCmd)

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		// A missing .env file is fine.
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	configureViper()

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func configureViper() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureClient(cfg)
	configureServer(cfg)
	configureProviders(cfg)
	configureCache(cfg)
	configureApp(cfg)

	return cfg
}

func configureClient(cfg *core.Config) {
	cfg.Client.Endpoint = viper.GetString("endpoint")
	cfg.Client.Timeout = viper.GetDuration("client-timeout")
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = core.DefaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Server.ReadTimeout = viper.GetDuration("server-read-timeout")
	cfg.Server.WriteTimeout = viper.GetDuration("server-write-timeout")
	cfg.Server.RateLimitPerMinute = viper.GetInt("rate-limit-per-minute")
	cfg.Server.AllowedOrigin = viper.GetString("allowed-origin")
	cfg.Log.Level = viper.GetString("log-level")
}

func configureProviders(cfg *core.Config) {
	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
	cfg.YouTube.APIKey = viper.GetString("youtube-api-key")
}

func configureCache(cfg *core.Config) {
	cfg.Cache.Size = viper.GetInt("cache-size")
	cfg.Cache.TTL = viper.GetDuration("cache-ttl")
}

func configureApp(cfg *core.Config) {
	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}

	if !i18n.IsSupported(cfg.App.Language) {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(i18n.GetSupportedLanguages(), ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runRoot(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}
	return cmd.Help()
}

func runClassify(cmd *cobra.Command, args []string) error {
	localizer := i18n.NewLocalizer(config.App.Language)
	bus := messaging.NewBus(len(args), logger.Named("messaging"))
	out := cmd.OutOrStdout()

	for _, pageURL := range args {
		track, ok := messaging.OnPageLoad(bus, pageURL)
		if !ok {
			fmt.Fprintln(out, localizer.T("classify.not_track_page", pageURL))
			continue
		}
		fmt.Fprintln(out, localizer.T("classify.track_page", pageURL, track.Platform.DisplayName()))
		if msg, received := bus.Receive(); received {
			fmt.Fprintf(out, "  %s %s\n", msg.Type, track.ID)
		}
	}

	if dropped := bus.Dropped(); dropped > 0 {
		logger.Warn("Page notifications dropped", zap.Int("dropped", dropped))
	}
	return nil
}

func runPopup(cmd *cobra.Command, args []string) error {
	pageURL := popupURL(args[0])
	localizer := i18n.NewLocalizer(config.App.Language)
	out := cmd.OutOrStdout()

	onlyTrackPages, err := cmd.Flags().GetBool("only-track-pages")
	if err != nil {
		return err
	}
	if onlyTrackPages {
		bus := messaging.NewBus(messaging.DefaultBufferSize, logger.Named("messaging"))
		messaging.OnPageLoad(bus, pageURL)
		if !messaging.SawTrackPage(bus, pageURL) {
			fmt.Fprintln(out, localizer.T("popup.skipped"))
			return nil
		}
	}

	if err := config.ValidateClient(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	fmt.Fprintln(out, popup.View(popup.Loading(), localizer))

	client := convert.NewClient(&config.Client, logger.Named("convert"))
	logger.Debug("Converting page",
		zap.String("url", pageURL),
		zap.String("endpoint", client.Endpoint()),
		zap.String("language", localizer.Language()))
	result, convErr := client.Convert(cmd.Context(), pageURL)
	if convErr != nil {
		logger.Debug("Conversion failed", zap.String("url", pageURL), zap.Error(convErr))
	}

	state := popup.NewRenderer(localizer).Render(popup.Loading(), result, convErr)
	fmt.Fprintln(out, popup.View(state, localizer))
	return nil
}

// popupURL returns arg unchanged when it is already a page URL; otherwise it pulls
// a music link out of shared text.
func popupURL(arg string) string {
	arg = strings.TrimSpace(arg)
	if u, err := url.Parse(arg); err == nil && !strings.ContainsAny(arg, " \t\n") &&
		(u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return arg
	}
	if link, ok := text.NewParser().TrackLink(arg); ok {
		return link
	}
	return arg
}

func runServe(_ *cobra.Command, _ []string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting songbridge",
		zap.String("addr", config.Server.Addr()),
		zap.Bool("spotify_enabled", config.Spotify.ClientID != ""),
		zap.Bool("youtube_search_enabled", config.YouTube.APIKey != ""),
		zap.Int("cache_size", config.Cache.Size))

	httpServer := initializeServer(ctx)
	return runServices(ctx, httpServer)
}

func initializeServer(ctx context.Context) *httpserver.Server {
	manager := musiclink.NewManager(
		spotify.NewClient(ctx, &config.Spotify, logger.Named("spotify")),
		musiclink.NewDeezerResolver(),
		musiclink.NewYouTubeMusicResolver(config.YouTube.APIKey),
		musiclink.NewAppleMusicResolver(),
		musiclink.NewSoundCloudResolver(),
	)

	cache := store.NewResultCache[*converter.Response](config.Cache.Size, config.Cache.TTL,
		store.DefaultFalsePositiveRate)
	metrics := httpserver.NewMetrics()
	metrics.ObserveCache(cache.Len)
	service := converter.NewService(manager, cache, metrics, logger.Named("converter"))

	return httpserver.NewServer(&config.Server, service, metrics, logger.Named("http"))
}

func runServices(ctx context.Context, httpServer *httpserver.Server) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpServer.Start(gCtx)
	})

	logger.Info("songbridge started successfully",
		zap.String("http_addr", config.Server.Addr()))

	if err := g.Wait(); err != nil {
		logger.Error("songbridge stopped with error", zap.Error(err))
		return err
	}

	logger.Info("songbridge stopped gracefully")
	return nil
}
