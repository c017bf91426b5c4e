package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"anto/internal/config"
)

const (
	// CallbackTimeout bounds the wait for the browser redirect.
	CallbackTimeout = 5 * time.Minute

	tokenExchangeTimeout = 30 * time.Second
	tokenCheckTimeout    = 10 * time.Second

	callbackStartPort   = 8085
	callbackMaxAttempts = 5
)

// ErrCallbackTimeout is returned when the browser never redirects back.
var ErrCallbackTimeout = errors.New("oauth callback timed out")

// Login runs the installed-app OAuth flow with PKCE: it prints the consent
// URL to prompt, waits for the loopback redirect, and stores the token.
func Login(ctx context.Context, cfg *config.Config, prompt io.Writer) error {
	oauthConfig, err := loadOAuthConfig(cfg)
	if err != nil {
		return err
	}

	port, listener, err := listenCallback()
	if err != nil {
		return err
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)
	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()

	authURL := oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)
	fmt.Fprintln(prompt, "Open this URL in your browser:")
	fmt.Fprintln(prompt, authURL)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			sendErr(errCh, errors.New("oauth state mismatch"))
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "no code in callback", http.StatusBadRequest)
			sendErr(errCh, errors.New("no code in callback"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>anto is authorized</h1><p>You may close this window.</p></body></html>")
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			sendErr(errCh, err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return err
	case <-time.After(CallbackTimeout):
		return ErrCallbackTimeout
	case <-ctx.Done():
		return ctx.Err()
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()

	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return fmt.Errorf("failed to exchange code for token: %w", err)
	}

	if err := cfg.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveToken(cfg.TokenPath(), token)
}

// TokenValid reports whether the stored token parses, carries a refresh
// token, and can still mint an access token.
func TokenValid(ctx context.Context, cfg *config.Config) bool {
	token, err := readToken(cfg.TokenPath())
	if err != nil || token.RefreshToken == "" {
		return false
	}

	oauthConfig, err := loadOAuthConfig(cfg)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, tokenCheckTimeout)
	defer cancel()

	_, err = oauthConfig.TokenSource(ctx, token).Token()
	return err == nil
}

// SaveToken writes token to path with mode 0600.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func readToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// listenCallback binds the first free port in the callback range.
func listenCallback() (int, net.Listener, error) {
	for i := 0; i < callbackMaxAttempts; i++ {
		port := callbackStartPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, errors.New("could not bind to local port for OAuth callback")
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}
