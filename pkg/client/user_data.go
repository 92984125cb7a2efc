package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"hashgate/pkg/model"
)

const (
	normalizeUserDataPath = "/api/v1/user-data/normalize"
	normalizeEventPath    = "/api/v1/events/normalize"
)

type UserDataClient struct {
	httpClient *HttpClient
}

func NewUserDataClient(baseURL string) *UserDataClient {
	return &UserDataClient{
		httpClient: NewHttpClient(baseURL),
	}
}

// WithSignatureSecret signs request bodies with secret.
func (c *UserDataClient) WithSignatureSecret(secret string) *UserDataClient {
	c.httpClient.SignatureSecret = secret
	return c
}

func (c *UserDataClient) HTTP() *HttpClient {
	return c.httpClient
}

type normalizeRequest struct {
	UserData     *model.UserData `json:"user_data"`
	HashUserData bool            `json:"hash_user_data"`
}

// NormalizeUserData returns the normalized copy of ud produced by the service.
func (c *UserDataClient) NormalizeUserData(ctx context.Context, ud *model.UserData, hash bool) (*model.UserData, error) {
	resp, err := c.httpClient.POST(ctx, normalizeUserDataPath, normalizeRequest{UserData: ud, HashUserData: hash})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("normalize user data: status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var body struct {
		Data struct {
			UserData *model.UserData `json:"user_data"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return body.Data.UserData, nil
}

// NormalizeEvent sends a raw event and returns the event the service wrote back.
func (c *UserDataClient) NormalizeEvent(ctx context.Context, event []byte, hash bool) ([]byte, error) {
	q := url.Values{}
	q.Set("hash_user_data", strconv.FormatBool(hash))

	resp, err := c.httpClient.POSTRaw(ctx, normalizeEventPath+"?"+q.Encode(), event)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("normalize event: status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}
	return resp.Body, nil
}
