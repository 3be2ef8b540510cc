package lastfm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// AuthURL is the page where users authorize request tokens.
const AuthURL = "https://www.last.fm/api/auth/"

// AuthService provides authentication operations for the Last.fm API.
type AuthService struct {
	client *Client
}

// GetToken requests an authentication token from Last.fm.
//
// This is the first step in the authentication flow. After obtaining a token,
// the user must authorize it by visiting the URL returned by GetAuthURL.
//
// Example:
//
//	token, err := client.Auth().GetToken(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Visit:", client.Auth().GetAuthURL(token.Token))
func (a *AuthService) GetToken(ctx context.Context) (*Token, error) {
	r := get("auth", "getToken", nil)
	r.Signed = true

	raw, err := fetchRaw(ctx, a.client, r)
	if err != nil {
		return nil, err
	}

	token := stringValue(rootValue(raw.Data))
	if raw.Data == nil || token == "" {
		return nil, fmt.Errorf("lastfm: auth.getToken returned no token")
	}
	return &Token{Token: token}, nil
}

// GetAuthURL returns the URL where users authorize the token.
//
// After calling GetToken, direct the user to this URL to authorize
// the application. Once authorized, call GetSession to exchange the
// token for a session key.
func (a *AuthService) GetAuthURL(token string) string {
	q := url.Values{}
	q.Set("api_key", a.client.Credentials().APIKey)
	q.Set("token", token)
	return AuthURL + "?" + q.Encode()
}

// GetSession exchanges an authorized token for a session key.
//
// After the user has authorized the token at the URL from GetAuthURL,
// call this method to exchange the token for a permanent session key.
// The session key is not stored on the client; call SetSessionKey to use it.
//
// Example:
//
//	session, err := client.Auth().GetSession(ctx, token.Token)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client.SetSessionKey(session.Key)
func (a *AuthService) GetSession(ctx context.Context, token string) (*AuthSession, error) {
	if token == "" {
		return nil, &InvalidOperationError{Method: "auth.getSession", Reason: "token is required"}
	}

	r := get("auth", "getSession", Params{"token": token})
	r.Signed = true
	return a.session(ctx, r)
}

// GetMobileSession obtains a session key directly from the username and
// password held by the client's credentials.
func (a *AuthService) GetMobileSession(ctx context.Context) (*AuthSession, error) {
	return a.mobileSession(ctx, a.client.Credentials())
}

// SessionFor implements SessionProvider with auth.getMobileSession.
func (a *AuthService) SessionFor(ctx context.Context, creds Credentials) (string, error) {
	session, err := a.mobileSession(ctx, creds)
	if err != nil {
		return "", err
	}
	return session.Key, nil
}

func (a *AuthService) mobileSession(ctx context.Context, creds Credentials) (*AuthSession, error) {
	r := Request{
		Namespace:    "auth",
		Operation:    "getMobileSession",
		Verb:         http.MethodPost,
		Signed:       true,
		RequiresAuth: true,
		credentials:  &creds,
	}
	return a.session(ctx, r)
}

func (a *AuthService) session(ctx context.Context, r Request) (*AuthSession, error) {
	session, err := fetchOne[AuthSession](ctx, a.client, r)
	if err != nil {
		return nil, err
	}
	if session.Key == "" {
		return nil, fmt.Errorf("lastfm: %s returned an empty session key", r.Method())
	}
	return session, nil
}
