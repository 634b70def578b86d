package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTier is matched by every *UnknownTierError.
	ErrUnknownTier = errors.New("pricing: unknown tier")
	// ErrInvalidCatalog wraps tier definitions rejected by NewCatalog.
	ErrInvalidCatalog = errors.New("pricing: invalid tier catalog")
)

// UnknownTierError reports a tier identifier that is not in the catalog.
type UnknownTierError struct {
	TierID string
}

func (e *UnknownTierError) Error() string {
	return fmt.Sprintf("pricing: unknown tier %q", e.TierID)
}

// Is lets errors.Is(err, ErrUnknownTier) match.
func (e *UnknownTierError) Is(target error) bool {
	return target == ErrUnknownTier
}
