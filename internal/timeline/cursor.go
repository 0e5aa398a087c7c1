package timeline

import (
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
)

// cursorSep joins the timestamp and post id of a cursor. Neither an
// RFC 3339 timestamp nor a UUID contains it, and it needs no URL escaping.
const cursorSep = "_"

// encodeCursor returns the cursor that resumes after p: its created_at in
// RFC 3339 with the post id appended, so posts sharing a timestamp are
// neither repeated nor skipped across pages.
func encodeCursor(p PostView) string {
	return p.CreatedAt.UTC().Format(time.RFC3339Nano) + cursorSep + p.ID
}

// decodeCursor parses a cursor from encodeCursor. A bare timestamp is
// accepted too and resumes strictly before that instant.
func decodeCursor(cursor string) (time.Time, string, error) {
	stamp, id, _ := strings.Cut(cursor, cursorSep)

	before, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return time.Time{}, "", apperrors.ValidationError("cursor", "cursor must be an RFC 3339 timestamp")
	}
	if id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return time.Time{}, "", apperrors.ValidationError("cursor", "cursor has a malformed post id")
		}
	}
	return before.UTC(), id, nil
}
