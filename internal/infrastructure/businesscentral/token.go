package businesscentral

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrAuth indica que el grant client-credentials contra el identity provider
// falló (red, credenciales inválidas o respuesta malformada).
var ErrAuth = errors.New("no se pudo autenticar con Business Central")

// tokenManager cachea el access token OAuth2 del proceso. El token se reutiliza
// mientras now < expiry (sin margen, igual que el chequeo del servicio original)
// y se renueva de forma transparente cuando expira. El mutex serializa la
// renovación entre requests concurrentes.
type tokenManager struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func newTokenManager(cfg Config, httpClient *http.Client) *tokenManager {
	return &tokenManager{cfg: cfg, httpClient: httpClient, now: time.Now}
}

// tokenURL devuelve el endpoint del grant: el override de configuración si
// existe, o el endpoint de login de Microsoft para el tenant.
func (m *tokenManager) tokenURL() string {
	if m.cfg.TokenURL != "" {
		return m.cfg.TokenURL
	}
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", m.cfg.TenantID)
}

// Token devuelve el token cacheado si sigue vigente; si no, ejecuta el grant
// client-credentials y cachea el resultado con expiry = now + expires_in.
// No reintenta: el fallo se propaga como ErrAuth y decide el caller.
func (m *tokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.now().Before(m.expiry) {
		return m.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {m.cfg.ClientID},
		"client_secret": {m.cfg.ClientSecret},
		"scope":         {m.cfg.BaseURL + "/.default"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL(),
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: crear request: %v", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("fallo al obtener access token de Business Central")
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return "", fmt.Errorf("%w: leer respuesta: %v", ErrAuth, err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Msg("fallo al obtener access token de Business Central")
		return "", fmt.Errorf("%w: estado %d: %s", ErrAuth, resp.StatusCode, string(body))
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.AccessToken == "" {
		return "", fmt.Errorf("%w: respuesta de token malformada", ErrAuth)
	}

	m.token = out.AccessToken
	m.expiry = m.now().Add(time.Duration(out.ExpiresIn) * time.Second)
	log.Info().Msg("access token de Business Central obtenido")
	return m.token, nil
}
