package internal

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hotelres/internal/utils"
)

// ===== Session Key =====

// ReadSessionKey returns the sealing key. The hex key file written by genkey
// wins; otherwise the key is derived from the host's machine id.
func ReadSessionKey(keyFile string) ([]byte, error) {
	if data, err := os.ReadFile(keyFile); err == nil {
		b, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("session key hex decode error: %w", err)
		}
		if len(b) != 32 {
			return nil, fmt.Errorf("session key length must be 32 bytes (hex 64 chars)")
		}
		return b, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	id, err := utils.MachineID()
	if err != nil {
		return nil, fmt.Errorf("no session key file at %s and no machine id: %w", keyFile, err)
	}
	return DeriveSessionKey([]byte(id))
}

// WriteKeyFile writes a fresh hex key. It refuses to overwrite.
func WriteKeyFile(keyFile string) error {
	if FileExists(keyFile) {
		return fmt.Errorf("%s: %w", keyFile, os.ErrExist)
	}
	if err := os.MkdirAll(filepath.Dir(keyFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(keyFile, []byte(hex.EncodeToString(MustRandom(32))+"\n"), 0600)
}

// ===== Sealed JSON Files =====

func WriteSealedFile(path string, v any, key []byte) error {
	plain, err := json.Marshal(v)
	if err != nil {
		return err
	}
	enc, err := EncryptAESGCM(key, plain)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, enc, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadSealedFile decodes path into v. A missing file reports os.ErrNotExist.
func ReadSealedFile(path string, v any, key []byte) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	plain, err := DecryptAESGCM(key, blob)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return json.Unmarshal(plain, v)
}

// RemoveFile deletes path; a missing file is not an error.
func RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// FileExists reports whether path can be stat'ed.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
