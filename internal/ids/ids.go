package ids

import "github.com/oklog/ulid/v2"

// New returns a lexicographically sortable identifier used for audit
// entries and request correlation. Identity ids are UUIDs and are not
// minted here.
func New() string {
	return ulid.Make().String()
}
