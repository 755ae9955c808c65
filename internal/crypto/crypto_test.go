package crypto

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte { return bytes.Repeat([]byte{7}, 32) }

func TestEncryptDecrypt(t *testing.T) {
	svc, err := NewEncryptionService(testKey())
	require.NoError(t, err)

	sealed, err := svc.Encrypt([]byte(`{"username":"lan"}`))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "lan")

	again, err := svc.Encrypt([]byte(`{"username":"lan"}`))
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per call")

	plain, err := svc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"username":"lan"}`, string(plain))
}

func TestDecrypt_Rejects(t *testing.T) {
	svc, err := NewEncryptionService(testKey())
	require.NoError(t, err)

	_, err = svc.Decrypt("%%%")
	assert.Error(t, err)

	_, err = svc.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.EqualError(t, err, "ciphertext too short")

	other, err := NewEncryptionService(bytes.Repeat([]byte{8}, 32))
	require.NoError(t, err)
	sealed, err := other.Encrypt([]byte("x"))
	require.NoError(t, err)
	_, err = svc.Decrypt(sealed)
	assert.Error(t, err)
}

func TestNewEncryptionService_KeyLength(t *testing.T) {
	_, err := NewEncryptionService([]byte("short"))
	assert.Error(t, err)

	_, err = NewEncryptionServiceFromBase64("not base64!")
	assert.Error(t, err)

	svc, err := NewEncryptionServiceFromBase64(base64.StdEncoding.EncodeToString(testKey()))
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
