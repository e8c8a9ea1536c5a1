package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidateSignature(t *testing.T) {
	secret := "channel-secret"
	body := []byte(`{"events":[]}`)

	if !ValidateSignature(secret, body, sign(secret, body)) {
		t.Error("valid signature rejected")
	}
	if ValidateSignature(secret, body, sign("other-secret", body)) {
		t.Error("signature from wrong secret accepted")
	}
	if ValidateSignature(secret, []byte(`tampered`), sign(secret, body)) {
		t.Error("signature over different body accepted")
	}
	if ValidateSignature(secret, body, "not base64!!!") {
		t.Error("undecodable signature accepted")
	}
	if ValidateSignature(secret, body, "") {
		t.Error("empty signature accepted")
	}
	if ValidateSignature("", body, sign("", body)) {
		t.Error("empty channel secret must fail closed")
	}
}
