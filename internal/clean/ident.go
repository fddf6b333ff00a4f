package clean

import "regexp"

// IdentifierPattern matches column names that look like identifiers: "id" as an
// underscore-delimited token (id, user_id, id_user) or as a trailing suffix (userid).
const IdentifierPattern = `(^|_)id(_|$)|id$`

var identifierRE = regexp.MustCompile(IdentifierPattern)

// IsIdentifier reports whether a normalized column name matches IdentifierPattern.
func IsIdentifier(name string) bool {
	return identifierRE.MatchString(name)
}
