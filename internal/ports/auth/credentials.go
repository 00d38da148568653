package auth

// CredentialSource entrega el bearer token vigente.
// ok=false significa que no hay sesión: el request no debe salir.
type CredentialSource interface {
	Token() (token string, ok bool)
}
