package state

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestKeyPair(t *testing.T, dir string) (string, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPath := filepath.Join(dir, "private.pem")
	privBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(privPath, privBytes, 0o600))

	pubPath := filepath.Join(dir, "public.pem")
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	})
	require.NoError(t, os.WriteFile(pubPath, pubBytes, 0o600))

	return privPath, pubPath
}

func TestInitSecret_Success(t *testing.T) {
	privPath, pubPath := writeTestKeyPair(t, t.TempDir())

	secret, err := InitSecret(privPath, pubPath)

	require.NoError(t, err)
	require.NotNil(t, secret)
	assert.NotNil(t, secret.Private)
	assert.NotNil(t, secret.Public)
	assert.Equal(t, secret.Private.PublicKey.N, secret.Public.N, "keypair halves should match")
}

func TestInitSecret_MissingFiles(t *testing.T) {
	dir := t.TempDir()

	secret, err := InitSecret(filepath.Join(dir, "nope.pem"), filepath.Join(dir, "nope-pub.pem"))

	assert.Error(t, err)
	assert.Nil(t, secret)
}

func TestInitSecret_GarbagePEM(t *testing.T) {
	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")
	require.NoError(t, os.WriteFile(privPath, []byte("not a key"), 0o600))
	require.NoError(t, os.WriteFile(pubPath, []byte("not a key"), 0o600))

	secret, err := InitSecret(privPath, pubPath)

	assert.Error(t, err)
	assert.Nil(t, secret)
}
