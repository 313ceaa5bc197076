package wm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wm-pickup/internal/apperr"
	"wm-pickup/internal/logx"
)

// Token is the session state issued by the provider.
type Token struct {
	SessionToken    string
	AccessToken     string
	RefreshToken    string
	IDToken         string
	UserID          string
	ExpiresAt       time.Time
	ClientID        string
	Issuer          string
	OktaAccessToken string
}

// Expired reports whether the token is missing or past its expiry at now.
func (t Token) Expired(now time.Time) bool {
	return t.AccessToken == "" || t.OktaAccessToken == "" || !now.Before(t.ExpiresAt)
}

var oktaTokenPattern = regexp.MustCompile(`(?m)access_token\s*=\s*'(.+?)'`)

type authenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Locale   string `json:"locale"`
}

type authenticateResponse struct {
	Data struct {
		SessionToken string `json:"sessionToken"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IDToken      string `json:"id_token"`
		ID           string `json:"id"`
		ExpiresIn    int64  `json:"expires_in"`
	} `json:"data"`
}

// Token returns a copy of the current session state.
func (c *Client) Token() Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Authenticate exchanges the configured credentials for provider tokens.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.cfg.Email == "" || c.cfg.Password == "" {
		return fmt.Errorf("wm gateway: authenticate: missing credentials: %w", apperr.Invalid)
	}

	var resp authenticateResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		url:    c.restURL("user/authenticate"),
		apiKey: c.cfg.Keys.Authentication,
		body:   authenticateRequest{Username: c.cfg.Email, Password: c.cfg.Password, Locale: lang},
		rest:   true,
	}, &resp)
	if err != nil {
		return err
	}

	clientID, issuer, err := accessTokenClaims(resp.Data.AccessToken)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.token = Token{
		SessionToken: resp.Data.SessionToken,
		AccessToken:  resp.Data.AccessToken,
		RefreshToken: resp.Data.RefreshToken,
		IDToken:      resp.Data.IDToken,
		UserID:       resp.Data.ID,
		ExpiresAt:    c.now().Add(time.Duration(resp.Data.ExpiresIn) * time.Second),
		ClientID:     clientID,
		Issuer:       issuer,
	}
	c.mu.Unlock()
	return nil
}

// accessTokenClaims reads cid and iss without verifying the signature; the
// token came straight from the provider over TLS.
func accessTokenClaims(raw string) (clientID, issuer string, err error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", "", fmt.Errorf("wm gateway: access token: %w: %w", apperr.Unauthorized, err)
	}
	clientID, _ = claims["cid"].(string)
	issuer, err = claims.GetIssuer()
	if err != nil || clientID == "" || issuer == "" {
		return "", "", fmt.Errorf("wm gateway: access token lacks cid/iss: %w", apperr.Unauthorized)
	}
	return clientID, issuer, nil
}

// OktaAuthorize trades the session token for the okta token sent on every
// account request. Authenticate must have succeeded first.
func (c *Client) OktaAuthorize(ctx context.Context) error {
	tok := c.Token()
	if tok.Issuer == "" || tok.SessionToken == "" {
		return fmt.Errorf("wm gateway: okta authorize before authenticate: %w", apperr.Unauthorized)
	}

	var page string
	err := c.do(ctx, request{
		method: http.MethodGet,
		url:    strings.TrimRight(tok.Issuer, "/") + "/v1/authorize",
		query: url.Values{
			"client_id":     {tok.ClientID},
			"nonce":         {"x"},
			"prompt":        {"none"},
			"response_mode": {"okta_post_message"},
			"response_type": {"token"},
			"state":         {"x"},
			"scope":         {"openid email offline_access"},
			"redirect_uri":  {"https://www.wm.com"},
			"sessionToken":  {tok.SessionToken},
		},
	}, &page)
	if err != nil {
		return err
	}

	m := oktaTokenPattern.FindStringSubmatch(page)
	if m == nil {
		return fmt.Errorf("wm gateway: okta authorize: no access_token in response: %w", apperr.Unauthorized)
	}
	okta := unescapeJS(m[1])

	c.mu.Lock()
	c.token.OktaAccessToken = okta
	c.mu.Unlock()
	return nil
}

// unescapeJS decodes the \xNN and \uNNNN escapes the authorize page applies
// to the embedded token. Any other backslash sequence, or a malformed one, is
// kept as is.
func unescapeJS(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		width := 0
		switch s[i+1] {
		case 'x':
			width = 2
		case 'u':
			width = 4
		}
		if width == 0 || i+2+width > len(s) {
			b.WriteByte(s[i])
			continue
		}
		r, err := strconv.ParseUint(s[i+2:i+2+width], 16, 32)
		if err != nil {
			b.WriteByte(s[i])
			continue
		}
		b.WriteRune(rune(r))
		i += 1 + width
	}
	return b.String()
}

// Login runs Authenticate followed by OktaAuthorize.
func (c *Client) Login(ctx context.Context) error {
	if err := c.Authenticate(ctx); err != nil {
		return err
	}
	if err := c.OktaAuthorize(ctx); err != nil {
		return err
	}
	c.logger.Info("wm session established",
		logx.String("user_id", c.Token().UserID),
		logx.Any("expires_at", c.Token().ExpiresAt),
	)
	return nil
}

// SessionActive reports whether a usable session is held right now.
func (c *Client) SessionActive() bool {
	return !c.Token().Expired(c.now())
}

// EnsureSession logs in when there is no usable session.
func (c *Client) EnsureSession(ctx context.Context) error {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	if !c.Token().Expired(c.now()) {
		return nil
	}
	return c.Login(ctx)
}

func (c *Client) userID() (string, error) {
	id := c.Token().UserID
	if id == "" {
		return "", fmt.Errorf("wm gateway: no session: %w", apperr.Unauthorized)
	}
	return id, nil
}
