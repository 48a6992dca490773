package templates

import (
	_ "embed"
)

//go:embed birthday_digest.html
var birthdayDigestHTML string
