package weathersdk

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ForecastQuery selects the place to forecast. Exactly one addressing mode
// is used, in precedence order: coordinates, zip code, city name, city id.
type ForecastQuery struct {
	Lat      *float64
	Lon      *float64
	ZipCode  string
	CityName string
	CityID   int
}

// params flattens the query for the wire. An empty query is a setup error:
// the server would reject it anyway, so it never leaves the process.
func (q ForecastQuery) params() (map[string]string, error) {
	switch {
	case q.Lat != nil && q.Lon != nil:
		return map[string]string{
			"lat": strconv.FormatFloat(*q.Lat, 'f', -1, 64),
			"lon": strconv.FormatFloat(*q.Lon, 'f', -1, 64),
		}, nil
	case q.ZipCode != "":
		return map[string]string{"zip_code": q.ZipCode}, nil
	case q.CityName != "":
		return map[string]string{"city_name": q.CityName}, nil
	case q.CityID != 0:
		return map[string]string{"city_id": strconv.Itoa(q.CityID)}, nil
	default:
		return nil, errors.New("forecast query needs coordinates, a zip code, a city name, or a city id")
	}
}

// Forecast fetches the multi-day forecast for the queried location. Results
// are served from the GET cache when a fresh entry exists.
func (c *Client) Forecast(ctx context.Context, query ForecastQuery) (*ForecastResponse, error) {
	return c.forecast(ctx, query, true)
}

// ForecastFresh is Forecast with the cache bypassed: it always hits the
// network and does not store the response.
func (c *Client) ForecastFresh(ctx context.Context, query ForecastQuery) (*ForecastResponse, error) {
	return c.forecast(ctx, query, false)
}

func (c *Client) forecast(ctx context.Context, query ForecastQuery, useCache bool) (*ForecastResponse, error) {
	params, err := query.params()
	if err != nil {
		return nil, &RequestSetupError{Err: err}
	}

	raw, err := c.Get(ctx, "/weather/forecast", params, useCache)
	if err != nil {
		return nil, err
	}

	var forecast ForecastResponse
	if err := decodeJSON(raw, &forecast); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}
	return &forecast, nil
}
