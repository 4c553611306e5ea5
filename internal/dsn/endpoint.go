// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"net/url"
	"strings"
)

// EndpointInfo is a resolved endpoint split back into its parts.
type EndpointInfo struct {
	Protocol string
	Host     string
	Port     string
	Prefix   string
	Database string
	Original string
}

// String returns the endpoint as it was parsed
func (e *EndpointInfo) String() string {
	return e.Original
}

// ParseEndpoint decomposes a resolved endpoint (or a DSN override) of the form
// {protocol}://{host}{prefix}/{database}. The last path segment is taken as the
// database and everything before it as the prefix.
func ParseEndpoint(endpoint string) (*EndpointInfo, error) {
	if endpoint == "" {
		return nil, NewConfigError("dsn", "empty endpoint", "provide a URL such as https://host/api/database")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, NewConfigError("dsn", err.Error(), "")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, NewConfigError("dsn", "not an absolute URL", "provide a URL such as https://host/api/database")
	}

	path := strings.TrimRight(u.Path, "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 || idx == len(path)-1 {
		return nil, NewConfigError("dsn", "missing database segment", "the last path segment names the database")
	}

	return &EndpointInfo{
		Protocol: u.Scheme,
		Host:     u.Hostname(),
		Port:     u.Port(),
		Prefix:   path[:idx],
		Database: path[idx+1:],
		Original: endpoint,
	}, nil
}
