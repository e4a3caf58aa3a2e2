// Package testutil provides testing utilities for msedit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CornHusker89/MagicStorage/internal/il"
)

// WriteFile writes content to name inside dir, creating parent directories.
// Returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	fullPath := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", name, err)
	}
	return fullPath
}

// WriteBody encodes body as a method body file in a temporary directory.
// Returns the path to the file, which is cleaned up when the test completes.
func WriteBody(t *testing.T, method il.MethodRef, body *il.Body) string {
	t.Helper()

	data, err := il.EncodeBody(method, body)
	if err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}
	return WriteFile(t, t.TempDir(), "body.yaml", string(data))
}

// ReadBody decodes the method body file at path.
func ReadBody(t *testing.T, path string) (il.MethodRef, *il.Body) {
	t.Helper()

	method, body, err := il.LoadBodyFile(path)
	if err != nil {
		t.Fatalf("failed to load body %s: %v", path, err)
	}
	return method, body
}

// IsolateConfig points the config directory at a fresh temporary directory
// so tests never read the user's config file. Returns the directory.
func IsolateConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

// SingleSiteBody is a QuickStackAllChests body where only the singleplayer
// path still checks the void bag, as a game update might leave it.
const SingleSiteBody = `method: Terraria.Player::QuickStackAllChests
instructions:
  - op: ldarg.0
  - op: call
    method: Terraria.Player::IsMultiplayerClient
  - op: brfalse
    target: local
  - op: ldarg.0
  - op: call
    method: Terraria.Player::SendInventoryQuickStack
  - op: ret
  - label: local
    op: ldarg.0
  - op: call
    method: Terraria.Player::StackInventoryToChests
  - op: ldarg.0
  - op: call
    method: Terraria.Player::useVoidBag
  - op: brtrue
    target: sp_bank
  - op: ret
  - label: sp_bank
    op: ldarg.0
  - op: call
    method: Terraria.Player::StackBankToChests
  - op: ret
`
