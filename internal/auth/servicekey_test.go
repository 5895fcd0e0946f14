package auth

import "testing"

func TestServiceKey_HashVerify(t *testing.T) {
	hash, err := HashServiceKey("pipeline-key-0123456789")
	if err != nil {
		t.Fatalf("HashServiceKey() error = %v", err)
	}

	if !VerifyServiceKey(hash, "pipeline-key-0123456789") {
		t.Error("expected matching key to verify")
	}
	if VerifyServiceKey(hash, "wrong-key") {
		t.Error("expected wrong key to fail")
	}
	if VerifyServiceKey("not-a-bcrypt-hash", "pipeline-key-0123456789") {
		t.Error("expected malformed hash to fail")
	}
}
