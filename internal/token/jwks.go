package token

import "encoding/base64"

// JWK is a single JSON Web Key in the Ed25519 (OKP) form.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
}

// JWKS is the key-set document served for out-of-process verification.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWKS returns the current verification key set. Only public material is
// exposed; rotation would append a new kid rather than replace the document.
func (i *Issuer) JWKS() JWKS {
	return JWKS{
		Keys: []JWK{
			{
				Kty: "OKP",
				Crv: "Ed25519",
				X:   base64.RawURLEncoding.EncodeToString(i.publicKey),
				Kid: i.kid,
				Alg: "EdDSA",
				Use: "sig",
			},
		},
	}
}

// PublicKeyB64 returns the base64url-encoded verification key, convenient for
// distributing to verify-only deployments.
func (i *Issuer) PublicKeyB64() string {
	return base64.RawURLEncoding.EncodeToString(i.publicKey)
}
