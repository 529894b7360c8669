// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/utils"
	"github.com/MKhiriev/go-pastor/models"
)

// RelayClientConfig holds the parameters of a [RelayClient].
type RelayClientConfig struct {
	// Address is the relay base URL. A missing scheme defaults to http.
	Address string
	// VaultID is the vault whose write log the client replicates.
	VaultID string
	// AccessKey is the relay's shared device access key.
	AccessKey string
	// RequestTimeout bounds every request; zero means no timeout.
	RequestTimeout time.Duration
}

// RelayClient is the HTTP/REST [replication.Remote] of one vault.
type RelayClient struct {
	client *utils.HTTPClient

	vaultID   string
	accessKey string

	mu    sync.Mutex
	token string

	logger *logger.Logger
}

// NewRelayClient constructs a RelayClient. It normalises and validates the
// base URL and configures the underlying HTTP client with the resolved base
// URL and request timeout. No request is made until the first operation.
func NewRelayClient(cfg RelayClientConfig, l *logger.Logger) (*RelayClient, error) {
	baseURL, err := normalizeBaseURL(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if cfg.VaultID == "" {
		return nil, errors.New("relay client needs a vault id")
	}
	if l == nil {
		l = logger.Nop()
	}

	return &RelayClient{
		client:    utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		vaultID:   cfg.VaultID,
		accessKey: cfg.AccessKey,
		logger:    l,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Authenticate exchanges the vault id and access key for a bearer token via
// POST /api/token and stores it for subsequent requests.
func (c *RelayClient) Authenticate(ctx context.Context) error {
	var tr models.TokenResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", utils.ContentTypeJSON).
		SetBody(models.TokenRequest{VaultID: c.vaultID, AccessKey: c.accessKey}).
		SetResult(&tr).
		Post("/api/token")
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token := tr.Token
	if token == "" {
		token, err = utils.ParseBearerToken(resp.Header().Get("Authorization"))
		if err != nil {
			return fmt.Errorf("token parse bearer token: %w", err)
		}
	}

	c.setToken(token)
	return nil
}

func (c *RelayClient) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// Token returns the bearer token currently held, or "" before the first
// authentication.
func (c *RelayClient) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// ListKeys implements [replication.Remote] via GET /api/vaults/{id}/writes.
func (c *RelayClient) ListKeys(ctx context.Context) ([]string, error) {
	var list models.KeyList
	_, err := c.do(ctx, "list keys", func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&list).Get(c.vaultPath())
	})
	if err != nil {
		return nil, err
	}
	return list.Keys, nil
}

// Get implements [replication.Remote] via GET /api/vaults/{id}/<key>. A
// missing key also matches [blob.ErrNotFound] and [blob.ErrRead].
func (c *RelayClient) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := c.keyPath(key)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, "get", func(r *resty.Request) (*resty.Response, error) {
		return r.Get(path)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %w: %w", blob.ErrRead, blob.ErrNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Put implements [replication.Remote] via PUT /api/vaults/{id}/<key>. The
// relay answers 204 when it already holds identical bytes and 409 (mapped to
// [ErrConflict]) when they differ.
func (c *RelayClient) Put(ctx context.Context, key string, data []byte) error {
	path, err := c.keyPath(key)
	if err != nil {
		return err
	}

	_, err = c.do(ctx, "put", func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetHeader("Content-Type", utils.ContentTypeBinary).
			SetBody(data).
			Put(path)
	})
	return err
}

// do sends an authenticated request, obtaining a token first if none is
// held. A 401 triggers one re-authentication and retry.
func (c *RelayClient) do(ctx context.Context, op string, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	if c.Token() == "" {
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := send(c.authedRequest(ctx))
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", op, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		c.logger.Debug().Str("func", "RelayClient.do").Str("op", op).Msg("token rejected, re-authenticating")
		if err = c.Authenticate(ctx); err != nil {
			return nil, err
		}
		resp, err = send(c.authedRequest(ctx))
		if err != nil {
			return nil, fmt.Errorf("%s request: %w", op, err)
		}
	}

	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *RelayClient) authedRequest(ctx context.Context) *resty.Request {
	req := c.client.R().SetContext(ctx)
	if token := c.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func (c *RelayClient) vaultPath() string {
	return "/api/vaults/" + url.PathEscape(c.vaultID) + "/writes"
}

func (c *RelayClient) keyPath(key string) (string, error) {
	if err := blob.ValidateKey(key); err != nil {
		return "", err
	}
	rest, ok := strings.CutPrefix(key, "writes/")
	if !ok {
		return "", fmt.Errorf("%w: %s is not a write-log key", blob.ErrInvalidKey, key)
	}
	return c.vaultPath() + "/" + rest, nil
}
