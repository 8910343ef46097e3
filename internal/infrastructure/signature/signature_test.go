package signature

import (
	"strings"
	"testing"
)

// Known-answer vectors from RFC 4231.
func TestSignKnownVectors(t *testing.T) {
	cases := []struct {
		name   string
		secret string
		body   string
		want   string
	}{
		{
			name:   "rfc4231 case 1",
			secret: strings.Repeat("\x0b", 20),
			body:   "Hi There",
			want:   "b0344c61d8db38535ca8afceaf0bf12b881dc200c9833da726e9376c2e32cff7",
		},
		{
			name:   "rfc4231 case 2",
			secret: "Jefe",
			body:   "what do ya want for nothing?",
			want:   "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Sign(tc.secret, []byte(tc.body))
			if got != tc.want {
				t.Fatalf("Sign() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestVerify(t *testing.T) {
	secret := "default-secret-change-in-production"
	body := []byte(`{"jobId":"j-1","fileId":"f-1"}`)
	sig := Sign(secret, body)

	if !Verify(secret, body, sig) {
		t.Fatal("Verify() rejected a valid signature")
	}
	if Verify(secret, append([]byte(nil), append(body, 'x')...), sig) {
		t.Error("Verify() accepted a signature for tampered body")
	}
	if Verify("other-secret", body, sig) {
		t.Error("Verify() accepted a signature under the wrong secret")
	}
	if Verify(secret, body, strings.ToUpper(sig)) {
		t.Error("Verify() accepted an uppercase signature; comparison must be exact")
	}
	if Verify(secret, body, "") {
		t.Error("Verify() accepted an empty signature")
	}
}
