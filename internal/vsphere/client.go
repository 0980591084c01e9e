package vsphere

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/session"
	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/soap"
	"go.uber.org/zap"

	"github.com/kubev2v/vm-power-agent/internal/models"
)

const loginTimeout = 30 * time.Second

var ErrInvalidCredentials = errors.New("invalid credentials")

// Client is a logged in vCenter session.
type Client struct {
	client *govmomi.Client
	log    *zap.SugaredLogger
}

// Connect logs in to the vCenter described by creds.
func Connect(ctx context.Context, creds models.Credentials, insecure bool, log *zap.SugaredLogger) (*Client, error) {
	u, err := parseVCenterURL(creds)
	if err != nil {
		return nil, err
	}

	loginCtx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	vimClient, err := vim25.NewClient(loginCtx, soap.NewClient(u, insecure))
	if err != nil {
		return nil, err
	}

	client := &govmomi.Client{
		SessionManager: session.NewManager(vimClient),
		Client:         vimClient,
	}

	log.Debugw("logging in to vCenter", "url", u.Redacted())
	if err := client.Login(loginCtx, u.User); err != nil {
		client.CloseIdleConnections()
		if strings.Contains(err.Error(), "Login failure") ||
			(strings.Contains(err.Error(), "incorrect") && strings.Contains(err.Error(), "password")) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	log.Infow("connected to vCenter", "url", u.Redacted())
	return NewClient(client, log), nil
}

// NewClient wraps an existing session.
func NewClient(client *govmomi.Client, log *zap.SugaredLogger) *Client {
	return &Client{client: client, log: log}
}

// Close terminates the session.
func (c *Client) Close(ctx context.Context) error {
	defer c.client.CloseIdleConnections()
	if err := c.client.Logout(ctx); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	c.log.Debug("vCenter session closed")
	return nil
}

// parseVCenterURL accepts a bare hostname or a full url. The sdk path is added when missing.
func parseVCenterURL(creds models.Credentials) (*url.URL, error) {
	raw := creds.Hostname
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid vCenter hostname %q", creds.Hostname)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/sdk"
	}
	u.User = url.UserPassword(creds.Username, creds.Password)
	return u, nil
}
