// Package recordid formats and parses tenant-scoped record identifiers
// of the form {tenantHandle}-{sequence}. The embedded handle is the sole
// ownership marker: every operation compares it against the caller's
// tenant before touching storage.
package recordid

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned for identifiers that do not contain a
// tenant separator or carry a non-positive sequence suffix.
var ErrInvalidFormat = errors.New("invalid record id format")

// Format builds the identifier for tenant and sequence number.
func Format(tenant string, seq int64) string {
	return tenant + "-" + strconv.FormatInt(seq, 10)
}

// Split parses an identifier into tenant handle and sequence number.
// The split happens at the last separator, so handles that themselves
// contain hyphens still parse correctly.
func Split(id string) (string, int64, error) {
	cut := strings.LastIndex(id, "-")
	if cut <= 0 || cut == len(id)-1 {
		return "", 0, ErrInvalidFormat
	}
	seq, err := strconv.ParseInt(id[cut+1:], 10, 64)
	if err != nil || seq <= 0 {
		return "", 0, ErrInvalidFormat
	}
	return id[:cut], seq, nil
}

// OwnedBy reports whether id belongs to tenant.
func OwnedBy(id, tenant string) bool {
	handle, _, err := Split(id)
	return err == nil && handle == tenant
}
