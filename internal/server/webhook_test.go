package server

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func signSHA256(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func signSHA1(payload []byte, secret string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(payload)
	return "sha1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestValidateSignature_SHA256_Valid(t *testing.T) {
	payload := []byte(`{"ref":"refs/heads/main"}`)

	require.True(t, ValidateSignature(payload, signSHA256(payload, "s3cret"), "s3cret"))
}

func TestValidateSignature_SHA256_WrongSecret(t *testing.T) {
	payload := []byte(`{"ref":"refs/heads/main"}`)

	require.False(t, ValidateSignature(payload, signSHA256(payload, "other"), "s3cret"))
}

func TestValidateSignature_SHA256_TamperedPayload(t *testing.T) {
	payload := []byte(`{"ref":"refs/heads/main"}`)
	sig := signSHA256(payload, "s3cret")

	require.False(t, ValidateSignature([]byte(`{"ref":"refs/heads/evil"}`), sig, "s3cret"))
}

func TestValidateSignature_SHA1Legacy_Valid(t *testing.T) {
	payload := []byte(`{"ref":"refs/heads/main"}`)

	require.True(t, ValidateSignature(payload, signSHA1(payload, "s3cret"), "s3cret"))
}

func TestValidateSignature_MissingSignatureOrSecret_Rejected(t *testing.T) {
	payload := []byte("x")

	require.False(t, ValidateSignature(payload, "", "s3cret"))
	require.False(t, ValidateSignature(payload, signSHA256(payload, "s3cret"), ""))
}

func TestValidateSignature_UnknownScheme_Rejected(t *testing.T) {
	require.False(t, ValidateSignature([]byte("x"), "md5=abcdef", "s3cret"))
}
