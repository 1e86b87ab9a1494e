package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"market-gateway/src/helpers"
	"market-gateway/src/logger"
	"market-gateway/src/models"

	"github.com/pquerna/otp/totp"
)

// -----------------------------------------------------------------------------
// Session Manager
// -----------------------------------------------------------------------------

const (
	loginPath  = "/rest/auth/angelbroking/user/v1/loginByPassword"
	logoutPath = "/rest/secure/angelbroking/user/v1/logout"
)

// Manager owns the broker credentials and session tokens. Login is the only
// writer of the tokens and sets all three together; Logout clears them.
type Manager struct {
	creds      *models.MCredentials
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger

	mu           sync.RWMutex
	jwtToken     string
	refreshToken string
	feedToken    string
}

// -----------------------------------------------------------------------------

func NewManager(creds *models.MCredentials, baseURL string, timeout time.Duration, log *logger.Logger) *Manager {
	return &Manager{
		creds:   creds,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// -----------------------------------------------------------------------------

// Headers returns the request metadata every broker call requires. The
// Authorization value is empty until Login succeeds; the broker rejects such
// calls itself, the gateway does not pre-filter them.
func (m *Manager) Headers() map[string]string {
	m.mu.RLock()
	jwt := m.jwtToken
	m.mu.RUnlock()

	auth := ""
	if jwt != "" {
		auth = "Bearer " + jwt
	}

	return map[string]string{
		"Content-Type":     "application/json",
		"Accept":           "application/json",
		"X-UserType":       "USER",
		"X-SourceID":       "WEB",
		"X-ClientLocalIP":  "127.0.0.1",
		"X-ClientPublicIP": "127.0.0.1",
		"X-MACAddress":     "00:00:00:00:00:00",
		"X-PrivateKey":     m.creds.APIKey,
		"Authorization":    auth,
	}
}

// -----------------------------------------------------------------------------

// Authenticated reports whether a login token is currently held.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jwtToken != ""
}

// -----------------------------------------------------------------------------

// Login generates a one-time code from the TOTP seed and submits the
// credentials to the broker. On success all three tokens are stored; on any
// failure the session stays absent and the error is returned for the caller
// to classify. Single attempt, no retry.
func (m *Manager) Login(ctx context.Context) error {
	code, err := totp.GenerateCode(m.creds.TOTPSeed, time.Now())
	if err != nil {
		return fmt.Errorf("generate totp: %w", err)
	}

	payload := map[string]string{
		"clientcode": m.creds.UserID,
		"password":   m.creds.PIN,
		"totp":       code,
	}

	env, err := m.post(ctx, loginPath, payload)
	if err != nil {
		m.logger.Error("Login request failed: %v", err)
		return err
	}

	if !env.Status {
		m.logger.Error("Login failed: %s", brokerMessage(env))
		return helpers.NewAuthError("login rejected by broker: "+brokerMessage(env), nil)
	}

	var tokens models.MSessionTokens
	if err := json.Unmarshal(env.Data, &tokens); err != nil {
		m.logger.Error("Login response malformed: %v", err)
		return fmt.Errorf("decode session tokens: %w", err)
	}
	if tokens.JWTToken == "" {
		return fmt.Errorf("login response missing jwt token")
	}

	m.mu.Lock()
	m.jwtToken = tokens.JWTToken
	m.refreshToken = tokens.RefreshToken
	m.feedToken = tokens.FeedToken
	m.mu.Unlock()

	m.logger.Info("Successfully logged into broker API")
	return nil
}

// -----------------------------------------------------------------------------

// Logout submits the user id to the broker's logout endpoint if a session
// exists. Best effort: failures are logged, never escalated, so shutdown is
// not blocked.
func (m *Manager) Logout(ctx context.Context) {
	if !m.Authenticated() {
		m.logger.Info("No active session to log out")
		return
	}

	payload := map[string]string{"clientcode": m.creds.UserID}

	env, err := m.post(ctx, logoutPath, payload)
	if err != nil {
		m.logger.Error("Logout request failed: %v", err)
		return
	}

	if !env.Status {
		m.logger.Warning("Logout failed: %s", brokerMessage(env))
		return
	}

	m.mu.Lock()
	m.jwtToken = ""
	m.refreshToken = ""
	m.feedToken = ""
	m.mu.Unlock()

	m.logger.Info("Successfully logged out")
}

// -----------------------------------------------------------------------------

func (m *Manager) post(ctx context.Context, path string, payload any) (*models.MBrokerEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range m.Headers() {
		req.Header.Set(k, v)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env models.MBrokerEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("broker returned status %d: %s", resp.StatusCode, brokerMessage(&env))
	}

	return &env, nil
}

// -----------------------------------------------------------------------------

func brokerMessage(env *models.MBrokerEnvelope) string {
	if env == nil || env.Message == "" {
		return "Unknown error"
	}
	return env.Message
}
