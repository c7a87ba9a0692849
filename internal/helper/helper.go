package helper

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// GravatarURL derives a deterministic avatar reference from an email.
// Same parameters the frontend expects: 200px, pg rating, "nm" default.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("//www.gravatar.com/avatar/%s?s=200&r=pg&d=nm", hex.EncodeToString(sum[:]))
}
