package certs

import (
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeServerCert(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	dir := t.TempDir()
	block := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(filepath.Join(dir, "backend.pem"), block, 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("ignored"), 0600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestHTTPClientTrustsDirectory(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	if _, err := http.Get(srv.URL); err == nil {
		t.Fatal("default client trusted the test certificate")
	}

	client, err := NewCertManager(writeServerCert(t, srv)).HTTPClient()
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
}

func TestExpiredCertificatesRejected(t *testing.T) {
	srv := httptest.NewTLSServer(http.NotFoundHandler())
	defer srv.Close()

	cm := NewCertManager(writeServerCert(t, srv))
	cm.now = func() time.Time { return time.Now().AddDate(200, 0, 0) }
	if _, err := cm.Pool(); err == nil {
		t.Fatal("expired-only directory accepted")
	}
}

func TestBadPEM(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.crt"), []byte("nope"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCertManager(dir).LoadCertificates(); err == nil {
		t.Fatal("garbage parsed")
	}
}
