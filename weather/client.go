// Package weather fetches an OpenWeatherMap One Call forecast and turns it
// into a printable report and an 800x480 image for the panel.
package weather

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-errors/errors"
	"github.com/joho/godotenv"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/3.0/onecall"

// Athens, GA.
const (
	DefaultLocation = "Athens, GA"
	DefaultLat      = 33.9519
	DefaultLon      = -83.3576
	DefaultUnits    = "imperial"
)

// APIKeyEnv is the environment variable holding the API key.
const APIKeyEnv = "OWM_API_KEY"

var ErrNoAPIKey = errors.Errorf("%s is not set", APIKeyEnv)

// APIKey loads envFile, when it exists, and returns the API key from the
// environment. Variables already set take precedence over the file.
func APIKey(envFile string) (string, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return "", errors.WrapPrefix(err, "load "+envFile, 0)
		}
	}
	key := os.Getenv(APIKeyEnv)
	if key == "" {
		return "", ErrNoAPIKey
	}
	return key, nil
}

type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
	Logger  *slog.Logger
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Fetch requests the forecast for a coordinate. units is standard, metric or
// imperial.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, units string) (*Response, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", units)
	q.Set("appid", c.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	start := time.Now()
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	defer res.Body.Close()
	c.Logger.Debug("weather fetched", "status", res.StatusCode, "duration", time.Since(start))

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, errors.Errorf("weather: %s: %s", res.Status, body)
	}
	var w Response
	if err := json.NewDecoder(res.Body).Decode(&w); err != nil {
		return nil, errors.WrapPrefix(err, "weather: decode", 0)
	}
	return &w, nil
}
