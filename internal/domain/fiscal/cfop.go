package fiscal

import (
	"regexp"
	"time"

	"github.com/retailcore/backend/internal/domain/shared"
)

// cfopPattern matches the fiscal operation code format, e.g. "5.102"
var cfopPattern = regexp.MustCompile(`^[1-7]\.[0-9]{3}$`)

// CFOP is a fiscal operation code attached to sales, purchases and their
// reversals. The code drives which book an operation is entered into.
type CFOP struct {
	shared.BaseEntity
	Code        string
	Description string
}

// NewCFOP creates a fiscal operation code
func NewCFOP(code, description string, now time.Time) (*CFOP, error) {
	if !cfopPattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CFOP", "CFOP code must match d.ddd")
	}
	return &CFOP{
		BaseEntity:  shared.NewBaseEntity(now),
		Code:        code,
		Description: description,
	}, nil
}
