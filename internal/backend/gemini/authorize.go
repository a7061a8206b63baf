package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	callbackPath = "/callback"

	defaultAuthorizeWait = 5 * time.Minute
	exchangeTimeout      = 30 * time.Second
)

// Authorizer runs the installed-app authorization code flow with PKCE,
// receiving the code on a loopback redirect.
type Authorizer struct {
	Config *oauth2.Config

	// Addr is the loopback address to listen on. Port 0 picks a free port.
	Addr string

	// Wait bounds the browser round trip.
	Wait time.Duration

	// Prompt receives the consent URL once the callback is listening.
	Prompt func(authURL string)
}

type callbackResult struct {
	code string
	err  error
}

// Authorize sends the user to the consent page and exchanges the returned
// code for a token.
func (a *Authorizer) Authorize(ctx context.Context) (*oauth2.Token, error) {
	addr := a.Addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not listen for the OAuth callback: %w", err)
	}

	conf := *a.Config
	conf.RedirectURL = "http://" + ln.Addr().String() + callbackPath

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	results := make(chan callbackResult, 1)

	srv := &http.Server{Handler: callbackHandler(state, results), ReadHeaderTimeout: 10 * time.Second}
	go srv.Serve(ln)
	defer srv.Close()

	if a.Prompt != nil {
		a.Prompt(conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier)))
	}

	wait := a.Wait
	if wait <= 0 {
		wait = defaultAuthorizeWait
	}
	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	var res callbackResult
	select {
	case res = <-results:
	case <-waitCtx.Done():
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, errors.New("timed out waiting for the OAuth callback")
		}
		return nil, fmt.Errorf("authorization cancelled: %w", ctx.Err())
	}
	if res.err != nil {
		return nil, res.err
	}

	exCtx, cancelEx := context.WithTimeout(ctx, exchangeTimeout)
	defer cancelEx()
	tok, err := conf.Exchange(exCtx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return tok, nil
}

// callbackHandler reports the first callback on results.
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var res callbackResult
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("state") != state:
			res.err = errors.New("oauth state mismatch")
		case q.Get("code") == "":
			res.err = errors.New("no code in callback")
		default:
			res.code = q.Get("code")
		}

		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
		} else {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body><p>tasktalk is authorized. You can close this tab.</p></body></html>")
		}

		select {
		case results <- res:
		default:
		}
	})
	return mux
}
