// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package mock provides an in-memory transport.Dispatcher for tests.
//
// The mock never performs network I/O. Responses are configured per method and
// URL with On, and every dispatched request is recorded in Calls so tests can
// assert on the method, URL and body that reached the transport.
//
//	d := mock.New(mock.Config{})
//	d.On(http.MethodGet, "https://h/api/db/users").Return(transport.Success(json.RawMessage(`[]`)))
//	conn, _ := connection.New(cfg, connection.WithDispatcher(d))
package mock
