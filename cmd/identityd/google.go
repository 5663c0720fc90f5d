package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/nmalhotra/identity"
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

	stateCookie = "oauth_state"
)

// googleProvider performs the authorization-code exchange and userinfo
// fetch. The engine only ever sees the resulting verified Profile.
type googleProvider struct {
	oauth oauth2.Config
}

func newGoogleProvider(cfg serverEnv) *googleProvider {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRedirectURL == "" {
		return nil
	}
	return &googleProvider{
		oauth: oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  googleAuthURL,
				TokenURL: googleTokenURL,
			},
		},
	}
}

func (p *googleProvider) redirectHandler(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.SetCookie(stateCookie, state, 300, "/", "", false, true)
	c.Redirect(http.StatusFound, p.oauth.AuthCodeURL(state))
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// exchange validates the state cookie, swaps the code for a token, and
// fetches the userinfo document. Only verified emails become assertions.
func (p *googleProvider) exchange(c *gin.Context) (identity.Profile, error) {
	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		return identity.Profile{}, errors.New("state mismatch")
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		return identity.Profile{}, errors.New("missing code")
	}

	ctx := c.Request.Context()
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return identity.Profile{}, err
	}

	resp, err := p.oauth.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return identity.Profile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return identity.Profile{}, errors.New("userinfo request failed")
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return identity.Profile{}, err
	}
	if info.Sub == "" || info.Email == "" || !info.EmailVerified {
		return identity.Profile{}, errors.New("unverified google profile")
	}

	return identity.Profile{
		SubjectID: info.Sub,
		Email:     info.Email,
		Name:      info.Name,
	}, nil
}

func randomState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
