package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

// loginBody accepts both {token, user:{...}} and a flat user object that
// carries its own token
type loginBody struct {
	Token string         `json:"token"`
	User  *model.Profile `json:"user"`
	model.Profile
}

// Login exchanges credentials for a token and the user's profile. A rejected
// login leaves the current session alone.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (string, model.Profile, error) {
	var body loginBody
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &body, false); err != nil {
		return "", model.Profile{}, err
	}
	if body.Token == "" {
		return "", model.Profile{}, &Error{Kind: KindServer, Status: http.StatusOK, Message: MsgSendFailed,
			Err: fmt.Errorf("login response carried no token")}
	}
	profile := body.Profile
	if body.User != nil {
		profile = *body.User
	}
	return body.Token, profile, nil
}

// ValidateToken asks the server whether token is still accepted
func (c *Client) ValidateToken(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/validate", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Message: MsgFetchFailed, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{Kind: kindForStatus(resp.StatusCode), Status: resp.StatusCode, Message: "Sessão expirada"}
	}
	return nil
}
