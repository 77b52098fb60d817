package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	adminPassword  string
	adminUsername  string
	allowedOrigin  string
	bind           string
	cookieName     string
	dbPath         string
	jwtExpires     time.Duration
	jwtSecret      string
	logLevel       string
	port           int
	pretty         bool
	rateLimitBurst int
	rateLimitRPS   int
	redisURL       string
	requestTimeout time.Duration
	secureCookies  bool
	sessionStore   string
	timezone       string
	wordsFile      string
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.sessionStore {
	case "memory":
	case "redis":
		if c.redisURL == "" {
			return errors.New("--redis-url is required when --session-store=redis")
		}
	default:
		return fmt.Errorf("invalid session store %q (must be memory or redis)", c.sessionStore)
	}
	if c.jwtExpires <= 0 {
		return fmt.Errorf("invalid jwt expiry: %s", c.jwtExpires)
	}
	if c.rateLimitRPS < 1 || c.rateLimitBurst < 1 {
		return errors.New("rate limit rps and burst must be positive")
	}
	if c.adminUsername == "" || c.adminPassword == "" {
		return errors.New("admin username and password must not be empty")
	}
	return nil
}

func (c *Config) addr() string {
	return fmt.Sprintf("%s:%d", c.bind, c.port)
}

// bindEnv lets GUESSWORD_<FLAG> fill any flag not given on the command line.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("GUESSWORD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "guessword",
		Short:   "A daily five-letter word guessing game server.",
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfg.adminPassword, "admin-password", "Admin@123", "password for the seeded admin account (env: GUESSWORD_ADMIN_PASSWORD)")
	pf.StringVar(&cfg.adminUsername, "admin-username", "admin", "username for the seeded admin account (env: GUESSWORD_ADMIN_USERNAME)")
	pf.StringVar(&cfg.dbPath, "db-path", "./data/guessword.db", "path to the SQLite database (env: GUESSWORD_DB_PATH)")
	pf.StringVar(&cfg.logLevel, "log-level", "info", "zerolog level: debug, info, warn, error (env: GUESSWORD_LOG_LEVEL)")
	pf.BoolVar(&cfg.pretty, "pretty", false, "human-readable console logs (env: GUESSWORD_PRETTY)")
	pf.StringVar(&cfg.timezone, "timezone", "Local", "IANA zone that defines the game day (env: GUESSWORD_TIMEZONE)")
	pf.StringVar(&cfg.wordsFile, "words-file", "", "newline-separated word list; embedded list when empty (env: GUESSWORD_WORDS_FILE)")
	bindEnv(v, pf)

	fs := cmd.Flags()
	fs.StringVar(&cfg.allowedOrigin, "allowed-origin", "", "origin allowed for credentialed CORS requests (env: GUESSWORD_ALLOWED_ORIGIN)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: GUESSWORD_BIND)")
	fs.StringVar(&cfg.cookieName, "cookie-name", "guessword_token", "name of the auth cookie (env: GUESSWORD_COOKIE_NAME)")
	fs.DurationVar(&cfg.jwtExpires, "jwt-expires", 7*24*time.Hour, "lifetime of login tokens (env: GUESSWORD_JWT_EXPIRES)")
	fs.StringVar(&cfg.jwtSecret, "jwt-secret", "", "HS256 signing secret; random per process when empty (env: GUESSWORD_JWT_SECRET)")
	fs.IntVarP(&cfg.port, "port", "p", 5175, "port to listen on (env: GUESSWORD_PORT)")
	fs.IntVar(&cfg.rateLimitBurst, "rate-limit-burst", 10, "requests a client may burst (env: GUESSWORD_RATE_LIMIT_BURST)")
	fs.IntVar(&cfg.rateLimitRPS, "rate-limit-rps", 5, "sustained requests per second per client (env: GUESSWORD_RATE_LIMIT_RPS)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis:// URL for the shared session store (env: GUESSWORD_REDIS_URL)")
	fs.DurationVar(&cfg.requestTimeout, "request-timeout", 10*time.Second, "maximum time per request (env: GUESSWORD_REQUEST_TIMEOUT)")
	fs.BoolVar(&cfg.secureCookies, "secure-cookies", false, "mark cookies Secure and SameSite=None (env: GUESSWORD_SECURE_COOKIES)")
	fs.StringVar(&cfg.sessionStore, "session-store", "memory", "where active games are cached: memory or redis (env: GUESSWORD_SESSION_STORE)")
	bindEnv(v, fs)

	cmd.AddCommand(newReportCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("guessword v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
