package users

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/hivelock/chatadmin/translit"
)

// The dot is a wildcard, not a literal: "jane@mailco" matches "@mailco".
// The looseness is part of the derivation contract and kept on purpose.
var emailDomain = regexp.MustCompile(`@\w+.\w+`)

// Username derives the platform username from a display name and email.
// The full name is underscored and transliterated, the email loses its
// first "@domain" match, and the remainder becomes the suffix:
//
//	Username(tl, "A B", "a.b@x.co") == "A_B_a.b"
//
// An email with no such match is rejected before any network call.
func Username(tl translit.Transliterator, fullname, email string) (string, error) {
	match := emailDomain.FindString(email)
	if match == "" {
		return "", errors.Errorf("email %q has no @domain part", email)
	}

	base := translit.Identifier(tl, fullname)
	return base + "_" + strings.ReplaceAll(email, match, ""), nil
}
