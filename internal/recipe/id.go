// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recipe

import "regexp"

// idPattern restricts user and recipe IDs to characters that are safe in
// storage keys and snapshot file names.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_.@-]{1,128}$`)

// ValidID reports whether id can be used as a user or recipe identifier.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}
