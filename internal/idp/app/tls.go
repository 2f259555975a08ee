package app

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

var (
	ErrNoCertificate = errors.New("no SSL certificate found")
	ErrNoPrivateKey  = errors.New("no private key found")
)

// ignoredFiles never hold PEM data.
var ignoredFiles = map[string]bool{".DS_Store": true, ".gitignore": true}

// LoadTLSConfig builds the HTTPS server config from PEM files under sslDir:
// every file in cert/ is part of the certificate chain, every file in key/
// is key material and every file in ca/ is appended to the chain as an
// intermediate. cert/ and key/ are required, ca/ is not.
func LoadTLSConfig(sslDir string, logger *slog.Logger) (*tls.Config, error) {
	certDir := filepath.Join(sslDir, "cert")
	certPEM, err := readDir(certDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w in '%s' directory. This is required when %s is 'true'",
			ErrNoCertificate, certDir, VarUseHTTPS)
	}
	if err != nil {
		return nil, err
	}

	keyDir := filepath.Join(sslDir, "key")
	keyPEM, err := readDir(keyDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w in '%s' directory. This is required when %s is 'true'",
			ErrNoPrivateKey, keyDir, VarUseHTTPS)
	}
	if err != nil {
		return nil, err
	}

	caDir := filepath.Join(sslDir, "ca")
	caPEM, err := readDir(caDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("no intermediate certificates", "dir", caDir)
	case err != nil:
		return nil, err
	default:
		certPEM = append(certPEM, caPEM...)
	}

	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("load TLS key pair: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{pair},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// readDir concatenates the regular files in dir, newline separated, in
// directory order. A missing directory is fs.ErrNotExist; an empty one is
// too.
func readDir(dir string) ([]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for _, e := range entries {
		if !e.Type().IsRegular() || ignoredFiles[e.Name()] {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", dir, fs.ErrNotExist)
	}
	return buf.Bytes(), nil
}
