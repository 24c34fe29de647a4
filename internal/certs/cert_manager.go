// Package certs loads extra trusted CA certificates for talking to a backend
// behind a private or self-signed certificate.
package certs

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CertManager reads the PEM certificates in a directory.
type CertManager struct {
	certDir string
	now     func() time.Time
}

func NewCertManager(certDir string) *CertManager {
	return &CertManager{certDir: certDir, now: time.Now}
}

// LoadCertificates walks the directory for .crt and .pem files. A file may
// hold several certificates.
func (cm *CertManager) LoadCertificates() ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	err := filepath.WalkDir(cm.certDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !(strings.HasSuffix(d.Name(), ".crt") || strings.HasSuffix(d.Name(), ".pem")) {
			return nil
		}
		found, err := loadCertificates(path)
		if err != nil {
			return err
		}
		certs = append(certs, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return certs, nil
}

func loadCertificates(path string) ([]*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var certs []*x509.Certificate
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("%s: failed to parse certificate PEM", path)
	}
	return certs, nil
}

func (cm *CertManager) IsExpired(cert *x509.Certificate) bool {
	return cert.NotAfter.Before(cm.now())
}

// Pool is the system pool plus every unexpired certificate in the directory.
// It fails when the directory holds only expired certificates.
func (cm *CertManager) Pool() (*x509.CertPool, error) {
	certs, err := cm.LoadCertificates()
	if err != nil {
		return nil, err
	}
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	added := 0
	for _, c := range certs {
		if cm.IsExpired(c) {
			continue
		}
		pool.AddCert(c)
		added++
	}
	if len(certs) > 0 && added == 0 {
		return nil, errors.New("certs: every certificate in " + cm.certDir + " has expired")
	}
	return pool, nil
}

// HTTPClient returns a client trusting Pool.
func (cm *CertManager) HTTPClient() (*http.Client, error) {
	pool, err := cm.Pool()
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	return &http.Client{Transport: transport}, nil
}
