package git

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-template-sync/internal/logging"
)

// ExtraHeaderKey is the config key actions/checkout uses to authenticate
// HTTPS requests to GitHub.
const ExtraHeaderKey = "http.https://github.com/.extraheader"

// authHeaderPattern selects only basic-auth values of ExtraHeaderKey.
const authHeaderPattern = "^AUTHORIZATION: basic"

// BasicAuthHeader builds the extraheader value for token.
func BasicAuthHeader(token string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte("x-access-token:" + token))
	return "AUTHORIZATION: basic " + encoded
}

// CredentialManager swaps the HTTPS auth header of a working copy.
type CredentialManager struct {
	client Client
	audit  *logging.AuditLogger
	logger *logrus.Entry
}

// NewCredentialManager creates a CredentialManager for client.
func NewCredentialManager(client Client, logger *logrus.Logger) *CredentialManager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CredentialManager{
		client: client,
		audit:  logging.NewAuditLogger(logger),
		logger: logger.WithField(logging.StandardFields.Component, logging.ComponentNames.Git),
	}
}

// GetCredentials returns the current basic-auth header value, or "" when none is set.
func (m *CredentialManager) GetCredentials(ctx context.Context) (string, error) {
	return m.client.GetConfig(ctx, ExtraHeaderKey, authHeaderPattern)
}

// SetCredentials replaces the basic-auth header with one for token.
// An empty token leaves the configuration untouched.
func (m *CredentialManager) SetCredentials(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.setHeader(ctx, BasicAuthHeader(token)); err != nil {
		return err
	}
	m.audit.LogCredentialChange(m.client.RepoPath(), "replace")
	return nil
}

// WithCredentials runs fn with the header set for token and restores the
// previous header afterwards, whether fn succeeds or not. A previously
// empty header is cleared on restore.
func (m *CredentialManager) WithCredentials(ctx context.Context, token string, fn func(context.Context) error) (err error) {
	previous, err := m.GetCredentials(ctx)
	if err != nil {
		return err
	}

	if token != "" {
		if err = m.SetCredentials(ctx, token); err != nil {
			return err
		}
		defer func() {
			restoreErr := m.restore(context.WithoutCancel(ctx), previous)
			if restoreErr != nil {
				m.logger.WithError(restoreErr).Error("Failed to restore git credentials")
				err = errors.Join(err, restoreErr)
			}
		}()
	}

	return fn(ctx)
}

func (m *CredentialManager) restore(ctx context.Context, previous string) error {
	if previous == "" {
		if _, err := m.client.UnsetConfig(ctx, ExtraHeaderKey, authHeaderPattern); err != nil {
			return err
		}
		m.audit.LogCredentialChange(m.client.RepoPath(), "clear")
		return nil
	}

	if err := m.setHeader(ctx, previous); err != nil {
		return err
	}
	m.audit.LogCredentialChange(m.client.RepoPath(), "restore")
	return nil
}

func (m *CredentialManager) setHeader(ctx context.Context, value string) error {
	if _, err := m.client.UnsetConfig(ctx, ExtraHeaderKey, authHeaderPattern); err != nil {
		return err
	}
	return m.client.SetConfig(ctx, ExtraHeaderKey, value)
}
