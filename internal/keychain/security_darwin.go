// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build darwin

package keychain

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// securityBackend stores secrets with the macOS security command. Entries use
// ServiceName as the account and the key as the service.
type securityBackend struct{}

func newSecurityBackend() (*securityBackend, error) {
	if _, err := exec.LookPath("security"); err != nil {
		return nil, fmt.Errorf("security command not found: %w", err)
	}
	return &securityBackend{}, nil
}

func (s *securityBackend) Set(key, value string) error {
	_, err := run("add-generic-password", "-a", ServiceName, "-s", key, "-w", value, "-U")
	if err != nil {
		return fmt.Errorf("store %s in keychain: %w", key, err)
	}
	return nil
}

func (s *securityBackend) Get(key string) (string, error) {
	out, err := run("find-generic-password", "-a", ServiceName, "-s", key, "-w")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *securityBackend) Delete(key string) error {
	_, err := run("delete-generic-password", "-a", ServiceName, "-s", key)
	return err
}

func run(args ...string) (string, error) {
	cmd := exec.Command("security", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), "could not be found") {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("security %s: %s: %w", args[0], strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}
