package utils

import "testing"

func TestJwtRoundTrip(t *testing.T) {
	token, err := JwtGenerate(42, "hq", "M")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	parsed, err := JwtValidate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	claims, ok := parsed.Claims.(*JwtCustomClaim)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if claims.ID != 42 || claims.TenantId != "hq" || claims.Role != "M" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.ExpiresAt <= claims.IssuedAt {
		t.Fatal("token must expire after issuance")
	}
}

func TestJwtValidate_RejectsGarbage(t *testing.T) {
	if _, err := JwtValidate("not.a.token"); err == nil {
		t.Fatal("expected parse error")
	}
}
