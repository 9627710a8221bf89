package http

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSelfSignedCert generates a self-signed certificate and writes the PEM
// encoded cert and key into dir, returning their paths.
func writeSelfSignedCert(t *testing.T, dir, commonName string) (certPath, keyPath string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		IsCA:                  true,
		BasicConstraintsValid: true,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPath = filepath.Join(dir, commonName+".crt")
	keyPath = filepath.Join(dir, commonName+".key")

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	require.NoError(t, os.WriteFile(certPath, certPEM, 0o600))
	require.NoError(t, os.WriteFile(keyPath, keyPEM, 0o600))

	return certPath, keyPath
}

func TestBuildTLSConfig(t *testing.T) {
	t.Run("empty cert file disables TLS", func(t *testing.T) {
		config, err := BuildTLSConfig("", "", "")
		require.NoError(t, err)
		assert.Nil(t, config)
	})

	t.Run("missing cert file", func(t *testing.T) {
		_, err := BuildTLSConfig("/nonexistent/server.crt", "/nonexistent/server.key", "")
		assert.Error(t, err)
	})

	t.Run("server cert only", func(t *testing.T) {
		dir := t.TempDir()
		certPath, keyPath := writeSelfSignedCert(t, dir, "keywhiz-server")

		config, err := BuildTLSConfig(certPath, keyPath, "")
		require.NoError(t, err)
		require.NotNil(t, config)

		assert.Len(t, config.Certificates, 1)
		assert.Equal(t, uint16(tls.VersionTLS12), config.MinVersion)
		assert.Equal(t, tls.VerifyClientCertIfGiven, config.ClientAuth)
		assert.Nil(t, config.ClientCAs)
	})

	t.Run("with client CA bundle", func(t *testing.T) {
		dir := t.TempDir()
		certPath, keyPath := writeSelfSignedCert(t, dir, "keywhiz-server")
		caPath, _ := writeSelfSignedCert(t, dir, "client-ca")

		config, err := BuildTLSConfig(certPath, keyPath, caPath)
		require.NoError(t, err)
		require.NotNil(t, config)
		assert.NotNil(t, config.ClientCAs)
	})

	t.Run("invalid client CA bundle", func(t *testing.T) {
		dir := t.TempDir()
		certPath, keyPath := writeSelfSignedCert(t, dir, "keywhiz-server")

		caPath := filepath.Join(dir, "garbage.pem")
		require.NoError(t, os.WriteFile(caPath, []byte("not a pem"), 0o600))

		_, err := BuildTLSConfig(certPath, keyPath, caPath)
		assert.Error(t, err)
	})
}
