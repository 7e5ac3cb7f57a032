package vo

// TokenPair is an access token issued together with its refresh token.
type TokenPair struct {
	accessToken  string
	refreshToken string
}

func NewTokenPair(accessToken, refreshToken string) TokenPair {
	return TokenPair{accessToken: accessToken, refreshToken: refreshToken}
}

func (p TokenPair) AccessToken() string {
	return p.accessToken
}

func (p TokenPair) RefreshToken() string {
	return p.refreshToken
}
