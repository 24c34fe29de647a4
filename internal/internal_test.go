package internal

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"HOTELRES_API", "HOTELRES_STATE_DIR", "HOTELRES_SESSION_KEY", "HOTELRES_LOG_FILE", "HOTELRES_CA_DIR", "HOTELRES_CONSOLE_ADDR", "HOTELRES_COOKIE_SECRET"} {
		t.Setenv(k, "")
	}
}

func TestReadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := "base_url: http://files.example:9000/api/\nstate_dir: " + dir + "\nconsole:\n  listen: \":9999\"\n"
	if err := os.WriteFile(path, []byte(yml), 0600); err != nil {
		t.Fatal(err)
	}
	clearEnv(t)
	t.Setenv("HOTELRES_CONSOLE_ADDR", ":7777")

	c, err := ReadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.BaseURL != "http://files.example:9000/api" {
		t.Errorf("base url = %q", c.BaseURL)
	}
	if c.Console.Listen != ":7777" {
		t.Errorf("listen = %q", c.Console.Listen)
	}
	if c.SessionKey != filepath.Join(dir, "session.key") {
		t.Errorf("session key = %q", c.SessionKey)
	}

	t.Setenv("HOTELRES_API", "http://env.example/api")
	if c, _ = ReadConfig(path); c.BaseURL != "http://env.example/api" {
		t.Errorf("env base url = %q", c.BaseURL)
	}
}

func TestReadConfigDefaults(t *testing.T) {
	clearEnv(t)
	c, err := ReadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if c.BaseURL != DefaultBaseURL || c.Console.Listen != DefaultConsoleAddr {
		t.Fatalf("config = %+v", c)
	}
}

func TestVerifyRejectsBadURL(t *testing.T) {
	for _, u := range []string{"localhost:4040", "ftp://host/api", "://"} {
		c := Config{BaseURL: u}
		if err := c.Verify(); err == nil {
			t.Errorf("%q accepted", u)
		}
	}
}

func TestSealedFile(t *testing.T) {
	key := MustRandom(32)
	path := filepath.Join(t.TempDir(), "a", "b.enc")
	in := map[string]string{"token": "secret-token"}
	if err := WriteSealedFile(path, in, key); err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(path)
	if bytes.Contains(raw, []byte("secret-token")) {
		t.Fatal("plaintext on disk")
	}
	var out map[string]string
	if err := ReadSealedFile(path, &out, key); err != nil {
		t.Fatal(err)
	}
	if out["token"] != "secret-token" {
		t.Fatalf("out = %v", out)
	}
	if err := RemoveFile(path); err != nil {
		t.Fatal(err)
	}
	if err := ReadSealedFile(path, &out, key); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("after remove: %v", err)
	}
}

func TestAESGCM(t *testing.T) {
	key := MustRandom(32)
	blob, err := EncryptAESGCM(key, []byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	plain, err := DecryptAESGCM(key, blob)
	if err != nil || string(plain) != "hello" {
		t.Fatalf("plain %q err %v", plain, err)
	}
	blob[len(blob)-1] ^= 1
	if _, err := DecryptAESGCM(key, blob); err == nil {
		t.Fatal("tampered blob opened")
	}
	if _, err := EncryptAESGCM(key[:16], nil); !errors.Is(err, ErrInvalidKeyLength) {
		t.Fatalf("short key: %v", err)
	}
}

func TestDeriveSessionKey(t *testing.T) {
	a, err := DeriveSessionKey([]byte("machine-1"))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := DeriveSessionKey([]byte("machine-1"))
	c, _ := DeriveSessionKey([]byte("machine-2"))
	if len(a) != 32 || !bytes.Equal(a, b) || bytes.Equal(a, c) {
		t.Fatal("derivation not stable")
	}
	if _, err := DeriveSessionKey(nil); err == nil {
		t.Fatal("empty material accepted")
	}
}

func TestKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.key")
	if err := WriteKeyFile(path); err != nil {
		t.Fatal(err)
	}
	if err := WriteKeyFile(path); !errors.Is(err, os.ErrExist) || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("overwrite: %v", err)
	}
	key, err := ReadSessionKey(path)
	if err != nil || len(key) != 32 {
		t.Fatalf("key %x err %v", key, err)
	}

	if err := os.WriteFile(path, []byte("abcd\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadSessionKey(path); err == nil {
		t.Fatal("short key accepted")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := loadDotEnv(filepath.Join(dir, ".env")); err != nil {
		t.Fatalf("missing file: %v", err)
	}

	good := filepath.Join(dir, "good.env")
	if err := os.WriteFile(good, []byte("HOTELRES_DOTENV_TEST=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("HOTELRES_DOTENV_TEST") })
	if err := loadDotEnv(good); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("HOTELRES_DOTENV_TEST"); got != "from-file" {
		t.Fatalf("env = %q", got)
	}

	bad := filepath.Join(dir, "bad.env")
	if err := os.WriteFile(bad, []byte("BROKEN=\"unterminated\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := loadDotEnv(bad); err == nil {
		t.Fatal("malformed .env accepted")
	}

	if err := loadDotEnv(dir); err == nil {
		t.Fatal("directory accepted as .env")
	}
}
