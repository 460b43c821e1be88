// Package auth stores the Asana credential used by the exporter: either a
// personal access token saved directly, or an OAuth token obtained through
// the browser authorization flow.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

const (
	// TokenFile is where the obtained credential is cached, inside the
	// user's config directory.
	TokenFile = "token.json"

	// LocalhostAuthPort is the port the local web server listens on to
	// capture the OAuth redirect. The app's registered redirect URI must
	// use the same port.
	LocalhostAuthPort = "6789"

	// EnvAccessToken, when set, takes precedence over the stored token.
	EnvAccessToken = "ASANA_ACCESS_TOKEN"

	asanaAuthURL  = "https://app.asana.com/-/oauth_authorize"
	asanaTokenURL = "https://app.asana.com/-/oauth_token"

	xdgAppName = "asanadoc"
)

func GetXdgHome() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName), nil
}

func tokenPath() (string, error) {
	base, err := GetXdgHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, TokenFile), nil
}

// AccessToken returns the credential to use for API calls: the
// ASANA_ACCESS_TOKEN environment variable if set, otherwise the stored
// token. An error means no credential is available.
func AccessToken() (string, error) {
	if tok := os.Getenv(EnvAccessToken); tok != "" {
		return tok, nil
	}

	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	tok, err := tokenFromFile(path)
	if err != nil {
		return "", fmt.Errorf("no stored credential (run 'asanadoc auth' first): %w", err)
	}
	return tok.AccessToken, nil
}

// SaveAccessToken stores a personal access token, replacing any existing
// credential.
func SaveAccessToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	return saveToken(path, &oauth2.Token{AccessToken: token})
}

// RemoveToken deletes the stored credential if one exists.
func RemoveToken() error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.Remove(path)
}

func oauthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort),
		Endpoint: oauth2.Endpoint{
			AuthURL:  asanaAuthURL,
			TokenURL: asanaTokenURL,
		},
	}
}

// Authorize runs the OAuth 2.0 authorization-code flow against Asana: it
// starts a local web server to capture the redirect, prints the URL for
// the user to open, exchanges the code, and stores the resulting token.
func Authorize(ctx context.Context, clientID, clientSecret string) (*oauth2.Token, error) {
	config := oauthConfig(clientID, clientSecret)

	tok, err := getTokenFromWeb(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to get token from web: %w", err)
	}

	path, err := tokenPath()
	if err != nil {
		return nil, err
	}
	if err := saveToken(path, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// getTokenFromWeb starts a local HTTP server, sends the user to Asana's
// consent page, and waits for the authorization code on the redirect.
func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string)
	errCh := make(chan error)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", LocalhostAuthPort))
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code not found in redirect URL")
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Please open the following URL in your browser to authorize asanadoc:\n%s\n", authURL)
	log.Println("Waiting for authorization code...")

	select {
	case authCode := <-codeCh:
		exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := config.Exchange(exchangeCtx, authCode)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Asana: %w", err)
		}
		server.Shutdown(exchangeCtx)
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(5 * time.Minute):
		server.Shutdown(context.Background())
		return nil, fmt.Errorf("authorization timed out. Please try again")
	}
}

// tokenFromFile reads an oauth2.Token from a JSON file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", file, err)
	}
	return tok, nil
}

// saveToken saves an oauth2.Token to a JSON file readable only by the owner.
func saveToken(path string, token *oauth2.Token) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create token directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache token to %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
