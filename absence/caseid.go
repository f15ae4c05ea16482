/*
caseid.go - Stable content-based case identity

PURPOSE:
  A case has no natural key in the raw export. Its identity is derived from
  the fields that MEAN "the same case": employee, span, raw type, team and
  country. The description is deliberately excluded - someone editing the
  free-text reason must not change the case identity, or weekly re-exports
  would renumber history.

INVARIANT:
  CaseID is deterministic: identical identity-relevant fields always hash to
  the same id, across runs and across processes. This is what makes the
  case table idempotent under re-ingestion.
*/
package absence

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/warp/ingest-engine/ingest"
)

// CaseID derives the stable identifier for a case. Fields are trimmed and
// case-folded before hashing so cosmetic whitespace or casing drift in the
// export does not fork identities.
func CaseID(employee string, start, end ingest.Day, rawType, team, country string) string {
	payload := strings.Join([]string{
		normalizeIdentityField(employee),
		start.String(),
		end.String(),
		normalizeIdentityField(rawType),
		normalizeIdentityField(team),
		normalizeIdentityField(country),
	}, "|")

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func normalizeIdentityField(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
