package batches

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/verdantops/canopy-backend/pkg/db/models"
	"github.com/verdantops/canopy-backend/pkg/logger"
)

var roomDigits = regexp.MustCompile(`\d+`)

// codeCounter counts existing batch codes for a room matching a SQL LIKE pattern.
type codeCounter interface {
	CountCodesLike(ctx context.Context, roomID *uuid.UUID, pattern string) (int64, error)
}

// GenerateBatchCode builds the next code for a room, shaped R{room digits}-{year}-{seq}.
// The sequence is one past the count of codes already carrying the same prefix.
// If the count cannot be read the sequence falls back to 01 rather than failing
// the create; duplicate suffixes are tolerated.
func GenerateBatchCode(ctx context.Context, counter codeCounter, logg *logger.Logger, room *models.Room, now time.Time) string {
	digits := "1"
	var roomID *uuid.UUID
	if room != nil {
		roomID = &room.ID
		if d := roomDigits.FindString(room.Name); d != "" {
			digits = d
		}
	}

	prefix := fmt.Sprintf("R%s-%d-", digits, now.Year())

	seq := int64(1)
	count, err := counter.CountCodesLike(ctx, roomID, prefix+"%")
	if err != nil {
		if logg != nil {
			logg.Warn(ctx, fmt.Sprintf("batch code sequence lookup failed, using 01: %v", err))
		}
	} else {
		seq = count + 1
	}

	return fmt.Sprintf("%s%02d", prefix, seq)
}
