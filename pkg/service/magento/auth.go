package magento

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/magento-oaa/pkg/utils/logging"
	"github.com/secmon-lab/magento-oaa/pkg/utils/safe"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultIMSTokenURL is the Adobe IMS token endpoint used by Commerce Cloud
	DefaultIMSTokenURL = "https://ims-na1.adobelogin.com/ims/token/v3"
	// DefaultIMSScopes is sent as a single comma separated scope value
	DefaultIMSScopes = "openid,AdobeID"

	tokenRefreshMargin   = 60 * time.Second
	defaultTokenLifetime = time.Hour
)

// Credentials produces the bearer token source of a deployment
type Credentials interface {
	tokenSource(ctx context.Context, storeURL string, hc *http.Client) oauth2.TokenSource
}

type customerCredentials struct {
	username string
	password string
}

// CustomerToken authenticates with a storefront customer account (on-premises)
func CustomerToken(username, password string) Credentials {
	return &customerCredentials{username: username, password: password}
}

func (x *customerCredentials) tokenSource(ctx context.Context, storeURL string, hc *http.Client) oauth2.TokenSource {
	return &customerTokenSource{
		ctx:      ctx,
		client:   hc,
		url:      storeURL + "/rest/V1/integration/customer/token",
		username: x.username,
		password: x.password,
	}
}

type customerTokenSource struct {
	ctx      context.Context
	client   *http.Client
	url      string
	username string
	password string
}

func (x *customerTokenSource) Token() (*oauth2.Token, error) {
	body, err := json.Marshal(map[string]string{
		"username": x.username,
		"password": x.password,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal token request")
	}

	req, err := http.NewRequestWithContext(x.ctx, http.MethodPost, x.url, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create token request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to request customer token", goerr.V(URLKey, x.url))
	}
	defer safe.Close(x.ctx, resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read token response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, goerr.Wrap(ErrAuthentication, "customer token request rejected",
			goerr.V(URLKey, x.url),
			goerr.V(StatusCodeKey, resp.StatusCode),
			goerr.V(BodyKey, string(raw)))
	}

	// The endpoint answers with a bare JSON string
	var token string
	if err := json.Unmarshal(raw, &token); err != nil || token == "" {
		return nil, goerr.Wrap(ErrAuthentication, "malformed customer token response", goerr.V(BodyKey, string(raw)))
	}

	expiry := tokenExpiry(token, time.Now())
	logging.From(x.ctx).Debug("Customer token acquired", "expires_at", expiry)

	return &oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}, nil
}

// tokenExpiry reads the exp claim when the token is a JWT. Opaque tokens get a fixed lifetime.
func tokenExpiry(token string, now time.Time) time.Time {
	parsed, err := jwt.ParseInsecure([]byte(token), jwt.WithValidate(false))
	if err != nil || parsed.Expiration().IsZero() {
		return now.Add(defaultTokenLifetime)
	}
	return parsed.Expiration()
}

type imsCredentials struct {
	clientID     string
	clientSecret string
	scopes       string
	tokenURL     string
}

// IMSClientCredentials authenticates against Adobe IMS (Commerce Cloud)
func IMSClientCredentials(clientID, clientSecret, scopes, tokenURL string) Credentials {
	if scopes == "" {
		scopes = DefaultIMSScopes
	}
	if tokenURL == "" {
		tokenURL = DefaultIMSTokenURL
	}
	return &imsCredentials{
		clientID:     clientID,
		clientSecret: clientSecret,
		scopes:       scopes,
		tokenURL:     tokenURL,
	}
}

func (x *imsCredentials) tokenSource(ctx context.Context, _ string, hc *http.Client) oauth2.TokenSource {
	cfg := &clientcredentials.Config{
		ClientID:     x.clientID,
		ClientSecret: x.clientSecret,
		TokenURL:     x.tokenURL,
		Scopes:       []string{x.scopes},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return &imsTokenSource{ctx: context.WithValue(ctx, oauth2.HTTPClient, hc), cfg: cfg}
}

// imsTokenSource fetches a fresh token on every call; caching is done by the wrapping reuse source
type imsTokenSource struct {
	ctx context.Context
	cfg *clientcredentials.Config
}

func (x *imsTokenSource) Token() (*oauth2.Token, error) {
	token, err := x.cfg.Token(x.ctx)
	if err != nil {
		return nil, goerr.Wrap(ErrAuthentication, "IMS token request failed",
			goerr.V(URLKey, x.cfg.TokenURL), goerr.V("cause", err.Error()))
	}
	if token.Expiry.IsZero() {
		token.Expiry = time.Now().Add(defaultTokenLifetime)
	}
	logging.From(x.ctx).Debug("IMS token acquired", "expires_at", token.Expiry)
	return token, nil
}

// newTokenSource caches tokens until they are within tokenRefreshMargin of expiry
func newTokenSource(ctx context.Context, creds Credentials, storeURL string, hc *http.Client) oauth2.TokenSource {
	return oauth2.ReuseTokenSourceWithExpiry(nil, creds.tokenSource(ctx, storeURL, hc), tokenRefreshMargin)
}
