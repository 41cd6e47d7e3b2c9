package daraja

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	// Local Packages
	config "mpesa-b2c/config"
	models "mpesa-b2c/models"

	// External Packages
	"go.uber.org/zap"
)

const authPath = "/oauth/v1/generate?grant_type=client_credentials"

// expirySkew shaves a margin off the advertised token lifetime so a token
// is never used right at its expiry edge.
const expirySkew = 30 * time.Second

// TokenCache stores bearer tokens with an expiry; the redis repository
// implements it.
type TokenCache interface {
	Get(ctx context.Context, setting string) (string, error)
	Save(ctx context.Context, setting, token string, expiry time.Time) error
}

// Authenticator acquires and caches gateway bearer tokens via the OAuth
// client-credentials endpoint.
type Authenticator struct {
	httpc   *http.Client
	cfg     config.Daraja
	setting string
	cache   TokenCache
	logger  *zap.Logger
}

func NewAuthenticator(cfg config.Daraja, setting string, cache TokenCache, logger *zap.Logger) *Authenticator {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	return &Authenticator{
		httpc:   &http.Client{Timeout: timeout},
		cfg:     cfg,
		setting: setting,
		cache:   cache,
		logger:  logger,
	}
}

// Token returns a valid bearer token, reusing the cached one when present.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	token, err := a.cache.Get(ctx, a.setting)
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.BaseURL+authPath, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(a.cfg.ConsumerKey, a.cfg.ConsumerSecret)

	fetchTime := time.Now()
	rsp, err := a.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("authentication request failed: %w", err)
	}
	defer func() {
		_ = rsp.Body.Close()
	}()

	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read authentication response: %w", err)
	}
	if rsp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("authentication endpoint returned %d: %s", rsp.StatusCode, string(body))
	}

	var auth models.AuthResponse
	if err = json.Unmarshal(body, &auth); err != nil {
		return "", fmt.Errorf("failed to unmarshal authentication response: %w", err)
	}
	if auth.AccessToken == "" {
		return "", fmt.Errorf("authentication endpoint returned no access token")
	}

	seconds, err := strconv.Atoi(auth.ExpiresIn)
	if err != nil || seconds <= 0 {
		seconds = 3600
	}
	expiry := fetchTime.Add(time.Duration(seconds)*time.Second - expirySkew)

	if err = a.cache.Save(ctx, a.setting, auth.AccessToken, expiry); err != nil {
		// A cache miss next time costs one extra round trip, nothing more.
		a.logger.Warn("failed to cache access token", zap.Error(err))
	}

	a.logger.Info("fetched gateway access token",
		zap.String("setting", a.setting), zap.Time("expiry", expiry))
	return auth.AccessToken, nil
}
