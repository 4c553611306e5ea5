// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package keychain

import "errors"

// securityBackend is only available on macOS.
type securityBackend struct{}

func newSecurityBackend() (*securityBackend, error) {
	return nil, errors.New("security backend only available on macOS")
}

func (s *securityBackend) Set(string, string) error   { return errors.ErrUnsupported }
func (s *securityBackend) Get(string) (string, error) { return "", errors.ErrUnsupported }
func (s *securityBackend) Delete(string) error        { return errors.ErrUnsupported }
