/*
Package weathersdk is the client for the Skycast weather service. It wraps
the remote weather/auth/user HTTP API behind a single Client that handles
response caching, bearer authentication, and transparent credential refresh.

# Client

Construct a Client with the service base URL and, in anything but tests, a
durable keyring so sessions survive restarts:

	store, err := keystore.Open(path)
	// ...
	client := weathersdk.New("https://api.example.com",
		weathersdk.WithKeyring(store),
		weathersdk.WithLogger(logger),
	)

	// Restore a persisted session, refreshing a stale access token.
	if err := client.Resume(ctx); err != nil { ... }

# Authentication

Login establishes a session; the credential pair is persisted to the keyring
and every subsequent call carries the bearer token automatically:

	if err := client.Login(ctx, username, password); err != nil { ... }

	forecast, err := client.Forecast(ctx, weathersdk.ForecastQuery{CityName: "London"})

When a call comes back 401, the Client refreshes the credential pair and
replays the request exactly once. A failed refresh clears the session and
surfaces AuthExpiredError; the caller should route the user back to login.
Concurrent 401s share one refresh call.

# Caching

GET responses are cached for ten minutes keyed by endpoint and normalized
parameters. User preferences and the OpenAPI schema have their own caches
(five and thirty minutes). Logout empties everything.

# Errors

Failures are typed: NetworkError (host unreachable), HTTPError (server said
no), RequestSetupError (request never left the process), ValidationError
(business-rule rejection), AuthExpiredError (refresh credential dead).
Branch with errors.As.
*/
package weathersdk
