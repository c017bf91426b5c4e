package googletasks

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"

	"anto/internal/config"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

func TestTokenValid_NoToken(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	if TokenValid(context.Background(), cfg) {
		t.Error("expected missing token to be invalid")
	}
}

func TestTokenValid_NoRefreshToken(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir}
	if err := os.WriteFile(cfg.OAuthClientPath(), []byte(testOAuthClient), 0600); err != nil {
		t.Fatal(err)
	}
	if err := SaveToken(cfg.TokenPath(), &oauth2.Token{AccessToken: "expired", TokenType: "Bearer"}); err != nil {
		t.Fatal(err)
	}

	if TokenValid(context.Background(), cfg) {
		t.Error("expected token without refresh token to be invalid")
	}
}

func TestSaveToken_Mode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := SaveToken(path, &oauth2.Token{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	token, err := readToken(path)
	if err != nil {
		t.Fatal(err)
	}
	if token.RefreshToken != "r" {
		t.Errorf("expected refresh token to round-trip, got %q", token.RefreshToken)
	}
}

func TestLogin_NoOAuthClient(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	if err := Login(context.Background(), cfg, io.Discard); err == nil {
		t.Fatal("expected error without oauth_client.json")
	}
}

func TestLogin_Cancelled(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir}
	if err := os.WriteFile(cfg.OAuthClientPath(), []byte(testOAuthClient), 0600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Login(ctx, cfg, io.Discard); err == nil {
		t.Fatal("expected error for cancelled login")
	}
	if cfg.HasToken() {
		t.Error("cancelled login must not write a token")
	}
}
