package common

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal once they have been sent. Best effort only: strings already built
// from b are not reached. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// BearerValue formats token for the Authorization header.
func BearerValue(token string) string {
	return BearerPrefix + token
}
