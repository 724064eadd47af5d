package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	// CallbackTimeout bounds how long Authorize waits for the browser.
	CallbackTimeout = 5 * time.Minute

	// ExchangeTimeout bounds the code-for-token exchange.
	ExchangeTimeout = 30 * time.Second

	callbackPath = "/callback"
)

// ErrNoRefreshToken means a stored token cannot be renewed.
var ErrNoRefreshToken = errors.New("token has no refresh token")

var errStateMismatch = errors.New("oauth state mismatch")

// LoadClientConfig reads an oauth_client.json file.
func LoadClientConfig(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	return OAuthConfig(data)
}

// LoadToken reads a token saved by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json (run: taskdesk login): %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	return &tok, nil
}

// SaveToken writes tok to path, readable only by the owner.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// CheckToken returns nil if tok can still produce an access token,
// refreshing it against the token endpoint when it has expired.
func CheckToken(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) error {
	if tok.RefreshToken == "" {
		return ErrNoRefreshToken
	}
	_, err := cfg.TokenSource(ctx, tok).Token()
	return err
}

// ListenCallback binds the first free localhost port in
// [startPort, startPort+attempts). A startPort of 0 picks any free port.
func ListenCallback(startPort, attempts int) (net.Listener, error) {
	if startPort == 0 {
		return net.Listen("tcp", "localhost:0")
	}
	for i := 0; i < attempts; i++ {
		l, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", startPort+i))
		if err == nil {
			return l, nil
		}
	}
	return nil, fmt.Errorf("no free port in %d-%d", startPort, startPort+attempts-1)
}

// Authorizer runs the installed-app OAuth flow with PKCE: the user opens a
// consent URL and Google redirects back to a local callback server.
type Authorizer struct {
	Config *oauth2.Config

	// Listener serves the redirect. Authorize closes it.
	Listener net.Listener

	// Prompt is shown the consent URL.
	Prompt func(authURL string)

	// Timeout bounds the wait for the redirect. Zero means CallbackTimeout.
	Timeout time.Duration
}

type callbackResult struct {
	code string
	err  error
}

// Authorize waits for the redirect and exchanges its code for a token.
func (a *Authorizer) Authorize(ctx context.Context) (*oauth2.Token, error) {
	defer a.Listener.Close()

	port := a.Listener.Addr().(*net.TCPAddr).Port
	conf := *a.Config
	conf.RedirectURL = fmt.Sprintf("http://localhost:%d%s", port, callbackPath)

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	a.Prompt(conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier)))

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		res := parseCallback(r, state)
		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
			// Stray requests without our state do not end the wait.
			if errors.Is(res.err, errStateMismatch) {
				return
			}
		} else {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body><h1>taskdesk is signed in</h1><p>You can close this window.</p></body></html>")
		}
		select {
		case results <- res:
		default:
		}
	})

	server := &http.Server{Handler: mux}
	go server.Serve(a.Listener)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = CallbackTimeout
	}
	var res callbackResult
	select {
	case res = <-results:
	case <-time.After(timeout):
		return nil, errors.New("oauth callback timed out")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.err != nil {
		return nil, res.err
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, ExchangeTimeout)
	defer cancel()
	tok, err := conf.Exchange(exchangeCtx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return tok, nil
}

func parseCallback(r *http.Request, state string) callbackResult {
	q := r.URL.Query()
	if msg := q.Get("error"); msg != "" {
		return callbackResult{err: fmt.Errorf("authorization denied: %s", msg)}
	}
	if q.Get("state") != state {
		return callbackResult{err: errStateMismatch}
	}
	code := q.Get("code")
	if code == "" {
		return callbackResult{err: errors.New("no code in callback")}
	}
	return callbackResult{code: code}
}
