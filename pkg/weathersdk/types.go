package weathersdk

// tokenResponse is the credential pair returned by the login and refresh
// endpoints.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SignupRequest is the payload for POST /v1/user. Validation tags mirror the
// server-side rules so obviously bad payloads never leave the process.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Profile is the user record behind GET/POST /v1/user/me.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Preferences is the user preference document behind /v1/user/preferences.
type Preferences struct {
	Units           string `json:"units"`
	Theme           string `json:"theme"`
	DefaultLocation string `json:"defaultLocation"`
}

// ForecastResponse is the payload of GET /weather/forecast: city metadata
// plus an ordered list of 3-hour forecast entries.
type ForecastResponse struct {
	City    City            `json:"city"`
	Entries []ForecastEntry `json:"list"`
}

// City identifies the place a forecast applies to.
type City struct {
	ID      int         `json:"id"`
	Name    string      `json:"name"`
	Country string      `json:"country"`
	Coord   Coordinates `json:"coord"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ForecastEntry is a single 3-hour slot. Temperatures are in Kelvin as
// delivered by the upstream provider; unit conversion is a rendering concern.
type ForecastEntry struct {
	Timestamp     int64              `json:"dt"`
	Main          ForecastMain       `json:"main"`
	Weather       []WeatherCondition `json:"weather"`
	Wind          Wind               `json:"wind"`
	TimestampText string             `json:"dt_txt"`
}

type ForecastMain struct {
	Temp     float64 `json:"temp"`
	TempMin  float64 `json:"temp_min"`
	TempMax  float64 `json:"temp_max"`
	Pressure float64 `json:"pressure"`
	Humidity float64 `json:"humidity"`
}

// WeatherCondition is the provider's condition code and description
// (e.g. 500 / "light rain").
type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}
