package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/overcastlabs/skycast/internal/keystore"
	"github.com/overcastlabs/skycast/pkg/slogx"
	"github.com/overcastlabs/skycast/pkg/weathersdk"
)

const BuildVersion = "v0.1.0"

// Application wires the SQLite keyring and the weather client behind a small
// command-line front end.
type Application struct {
	cfg    Config
	logger *slog.Logger

	store  *keystore.Store
	client *weathersdk.Client

	out io.Writer
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			App:    "skycast",
			Env:    cfg.Env,
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
		}),
		out: os.Stdout,
	}

	if err := os.MkdirAll(filepath.Dir(cfg.KeyringFile), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create keyring directory: %w", err)
	}

	store, err := keystore.Open(cfg.KeyringFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	app.store = store

	app.client = weathersdk.New(cfg.BaseURL,
		weathersdk.WithKeyring(store),
		weathersdk.WithLogger(app.logger),
		weathersdk.WithTimeout(cfg.Timeout),
		weathersdk.WithLegacyTimeout(cfg.AuthTimeout),
	)

	return app, nil
}

// Close releases the keyring database.
func (a *Application) Close() error {
	return a.store.Close()
}

// Run dispatches a single command. Every command restores the stored session
// first so authenticated calls carry a live token.
func (a *Application) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return errors.New("no command given")
	}

	if err := a.client.Resume(ctx); err != nil {
		a.logger.Warn("stored session could not be resumed", "error", err)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "signup":
		return a.cmdSignup(ctx, rest)
	case "login":
		return a.cmdLogin(ctx, rest)
	case "logout":
		return a.client.Logout(ctx)
	case "whoami":
		return a.cmdWhoami(ctx)
	case "forecast":
		return a.cmdForecast(ctx, rest)
	case "prefs":
		return a.cmdPrefs(ctx, rest)
	case "passwd":
		return a.cmdPasswd(ctx, rest)
	case "schema":
		return a.cmdSchema(ctx)
	case "help", "-h", "--help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *Application) usage() {
	fmt.Fprintln(a.out, `skycast - weather forecast client

Usage:
  skycast signup   -username NAME -email ADDR -password PASS
  skycast login    -username NAME -password PASS
  skycast logout
  skycast whoami
  skycast forecast [-city NAME | -zip CODE | -id ID | -lat L -lon L] [-fresh]
  skycast prefs    [-units metric|imperial] [-theme light|dark] [-location NAME]
  skycast passwd   -current PASS -new PASS
  skycast schema`)
}

func (a *Application) cmdSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	username := fs.String("username", "", "account name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.client.Signup(ctx, *username, *email, *password); err != nil {
		return err
	}
	if err := a.client.Login(ctx, *username, *password); err != nil {
		return fmt.Errorf("account created but login failed: %w", err)
	}

	fmt.Fprintf(a.out, "signed up and logged in as %s\n", a.client.Username())
	return nil
}

func (a *Application) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", "", "account name")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.client.Login(ctx, *username, *password); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "logged in as %s\n", a.client.Username())
	return nil
}

func (a *Application) cmdWhoami(ctx context.Context) error {
	if !a.client.Authenticated() {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}

	profile, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s <%s>\n", profile.Username, profile.Email)
	return nil
}

func (a *Application) cmdForecast(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forecast", flag.ContinueOnError)
	city := fs.String("city", "", "city name")
	zip := fs.String("zip", "", "zip or postal code")
	cityID := fs.Int("id", 0, "provider city id")
	lat := fs.Float64("lat", 0, "latitude")
	lon := fs.Float64("lon", 0, "longitude")
	fresh := fs.Bool("fresh", false, "bypass the forecast cache")
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := weathersdk.ForecastQuery{
		ZipCode:  *zip,
		CityName: *city,
		CityID:   *cityID,
	}
	if flagGiven(fs, "lat") && flagGiven(fs, "lon") {
		query.Lat, query.Lon = lat, lon
	}
	if query.CityName == "" && query.ZipCode == "" && query.CityID == 0 && query.Lat == nil {
		query.CityName = a.defaultLocation(ctx)
	}

	var (
		resp *weathersdk.ForecastResponse
		err  error
	)
	if *fresh {
		resp, err = a.client.ForecastFresh(ctx, query)
	} else {
		resp, err = a.client.Forecast(ctx, query)
	}
	if err != nil {
		return err
	}

	units := a.units(ctx)
	fmt.Fprintf(a.out, "%s, %s\n", resp.City.Name, resp.City.Country)
	for _, entry := range resp.Entries {
		desc := ""
		if len(entry.Weather) > 0 {
			desc = entry.Weather[0].Description
		}
		fmt.Fprintf(a.out, "  %s  %6.1f%s  %s\n",
			entry.TimestampText, fromKelvin(entry.Main.Temp, units), unitSuffix(units), desc)
	}
	return nil
}

// defaultLocation falls back to the stored preference when no location flag
// was given. Errors just mean there is no default.
func (a *Application) defaultLocation(ctx context.Context) string {
	prefs, err := a.client.Preferences(ctx)
	if err != nil {
		return ""
	}
	return prefs.DefaultLocation
}

func (a *Application) units(ctx context.Context) string {
	prefs, err := a.client.Preferences(ctx)
	if err != nil {
		return "metric"
	}
	return prefs.Units
}

func (a *Application) cmdPrefs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("prefs", flag.ContinueOnError)
	units := fs.String("units", "", "metric or imperial")
	theme := fs.String("theme", "", "light or dark")
	location := fs.String("location", "", "default forecast location")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prefs, err := a.client.Preferences(ctx)
	if err != nil {
		return err
	}

	if *units == "" && *theme == "" && *location == "" {
		fmt.Fprintf(a.out, "units:    %s\ntheme:    %s\nlocation: %s\n",
			prefs.Units, prefs.Theme, prefs.DefaultLocation)
		return nil
	}

	if *units != "" {
		prefs.Units = *units
	}
	if *theme != "" {
		prefs.Theme = *theme
	}
	if *location != "" {
		prefs.DefaultLocation = *location
	}

	updated, err := a.client.UpdatePreferences(ctx, prefs)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "units:    %s\ntheme:    %s\nlocation: %s\n",
		updated.Units, updated.Theme, updated.DefaultLocation)
	return nil
}

func (a *Application) cmdPasswd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("passwd", flag.ContinueOnError)
	current := fs.String("current", "", "current password")
	next := fs.String("new", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.client.ChangePassword(ctx, *current, *next); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "password changed")
	return nil
}

func (a *Application) cmdSchema(ctx context.Context) error {
	raw, err := a.client.Schema(ctx)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Fprintln(a.out, string(raw))
		return nil
	}
	fmt.Fprintln(a.out, pretty.String())
	return nil
}

func flagGiven(fs *flag.FlagSet, name string) bool {
	given := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			given = true
		}
	})
	return given
}

// fromKelvin converts the provider's Kelvin temperatures into the user's
// preferred display units.
func fromKelvin(k float64, units string) float64 {
	switch units {
	case "imperial":
		return (k-273.15)*9/5 + 32
	default:
		return k - 273.15
	}
}

func unitSuffix(units string) string {
	if units == "imperial" {
		return "°F"
	}
	return "°C"
}
