package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"

	"github.com/rickgao/shoehive-client/pkg/shoehive"
)

// DefaultQueryParam is the query parameter QueryToken uses when none is given.
const DefaultQueryParam = "token"

// Bearer sends the token in an Authorization header.
// The header is dropped by dialers that cannot set handshake headers.
func Bearer(token string) shoehive.AuthStrategy {
	return func() (shoehive.AuthParams, error) {
		if token == "" {
			return shoehive.AuthParams{}, errors.New("bearer token is empty")
		}
		h := make(http.Header, 1)
		h.Set("Authorization", "Bearer "+token)
		return shoehive.AuthParams{Headers: h}, nil
	}
}

// QueryToken appends the token to endpoint as a query parameter. It works with
// every transport, including ones without header support.
func QueryToken(endpoint, param, token string) shoehive.AuthStrategy {
	if param == "" {
		param = DefaultQueryParam
	}
	return func() (shoehive.AuthParams, error) {
		if token == "" {
			return shoehive.AuthParams{}, errors.New("query token is empty")
		}
		u, err := url.Parse(endpoint)
		if err != nil {
			return shoehive.AuthParams{}, fmt.Errorf("parse endpoint: %w", err)
		}
		q := u.Query()
		q.Set(param, token)
		u.RawQuery = q.Encode()
		return shoehive.AuthParams{URL: u.String()}, nil
	}
}

// Signed signs every handshake with creds. The signature covers the path of
// endpoint, so a fresh timestamp is produced on each reconnect.
func Signed(endpoint string, creds *Credentials) shoehive.AuthStrategy {
	return func() (shoehive.AuthParams, error) {
		if creds == nil || creds.PrivateKey == nil {
			return shoehive.AuthParams{}, errors.New("signing credentials are not loaded")
		}
		u, err := url.Parse(endpoint)
		if err != nil {
			return shoehive.AuthParams{}, fmt.Errorf("parse endpoint: %w", err)
		}
		path := u.Path
		if path == "" {
			path = "/"
		}

		h, err := creds.SignRequest(http.MethodGet, path)
		if err != nil {
			return shoehive.AuthParams{}, err
		}
		return shoehive.AuthParams{Headers: h}, nil
	}
}

// Protocols adds sub-protocols to the params produced by next. A nil next
// yields only the sub-protocols.
func Protocols(next shoehive.AuthStrategy, protocols ...string) shoehive.AuthStrategy {
	return func() (shoehive.AuthParams, error) {
		var params shoehive.AuthParams
		if next != nil {
			p, err := next()
			if err != nil {
				return shoehive.AuthParams{}, err
			}
			params = p
		}
		params.Protocols = append(slices.Clone(params.Protocols), protocols...)
		return params, nil
	}
}

// Header adds a handshake header to the params produced by next.
func Header(next shoehive.AuthStrategy, key, value string) shoehive.AuthStrategy {
	return func() (shoehive.AuthParams, error) {
		var params shoehive.AuthParams
		if next != nil {
			p, err := next()
			if err != nil {
				return shoehive.AuthParams{}, err
			}
			params = p
		}
		if params.Headers == nil {
			params.Headers = make(http.Header, 1)
		}
		params.Headers.Set(key, value)
		return params, nil
	}
}
