package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/refarm-eos/refarm-backend/pkg/config"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
)

// LineIdentity is what a verified LINE ID token proves about the caller.
type LineIdentity struct {
	UserID      string
	DisplayName string
	PictureURL  string
}

// Verifier exchanges a LINE ID token for the identity it asserts.
type Verifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*LineIdentity, error)
}

type lineVerifier struct {
	channelID string
	verifyURL string
	client    *http.Client
}

// NewLineVerifier builds a Verifier that calls LINE's token verify endpoint.
func NewLineVerifier(cfg config.LineConfig) (Verifier, error) {
	if strings.TrimSpace(cfg.ChannelID) == "" {
		return nil, fmt.Errorf("line channel id is required")
	}
	if strings.TrimSpace(cfg.VerifyURL) == "" {
		return nil, fmt.Errorf("line verify url is required")
	}
	return &lineVerifier{
		channelID: cfg.ChannelID,
		verifyURL: cfg.VerifyURL,
		client:    &http.Client{Timeout: cfg.VerifyTimeout},
	}, nil
}

type lineVerifyResponse struct {
	Iss     string `json:"iss"`
	Sub     string `json:"sub"`
	Aud     string `json:"aud"`
	Name    string `json:"name"`
	Picture string `json:"picture"`

	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (v *lineVerifier) VerifyIDToken(ctx context.Context, idToken string) (*LineIdentity, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "id token required")
	}

	form := url.Values{}
	form.Set("id_token", idToken)
	form.Set("client_id", v.channelID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build line verify request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call line verify endpoint")
	}
	defer resp.Body.Close()

	var payload lineVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode line verify response")
	}

	if resp.StatusCode != http.StatusOK || payload.Error != "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "line rejected the id token")
	}
	if payload.Aud != v.channelID {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "id token issued for a different channel")
	}
	if payload.Sub == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "id token carries no subject")
	}

	return &LineIdentity{
		UserID:      payload.Sub,
		DisplayName: payload.Name,
		PictureURL:  payload.Picture,
	}, nil
}

type mockVerifier struct{}

// NewMockVerifier accepts any non-empty token and treats it as the LINE user
// id. Only wired when the mock auth feature flag is on.
func NewMockVerifier() Verifier {
	return mockVerifier{}
}

func (mockVerifier) VerifyIDToken(ctx context.Context, idToken string) (*LineIdentity, error) {
	token := strings.TrimSpace(idToken)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "id token required")
	}
	return &LineIdentity{UserID: token, DisplayName: "dev user"}, nil
}
