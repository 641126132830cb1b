package session

import (
	"context"
	"errors"
)

// ServiceAccount signs the process in with a configured account when no
// user session is available. Background jobs use it.
type ServiceAccount struct {
	manager  *Manager
	username string
	password string
}

func NewServiceAccount(manager *Manager, username, password string) *ServiceAccount {
	return &ServiceAccount{manager: manager, username: username, password: password}
}

// Ready reports whether the process session already resolves a credential
func (a *ServiceAccount) Ready(ctx context.Context) bool {
	_, ok := a.manager.Session().Resolve(WithProcessCredential(ctx))
	return ok
}

// Authenticate logs in with the service account credentials
func (a *ServiceAccount) Authenticate(ctx context.Context) error {
	if a.username == "" || a.password == "" {
		return errors.New("service account is not configured")
	}
	res := a.manager.Login(ctx, a.username, a.password)
	if !res.Success {
		return res.Err()
	}
	return nil
}
