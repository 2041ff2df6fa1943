package pkg

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/recipebook/internal/domain"
)

// constraintErrors classifies constraint violations. The pure-Go SQLite
// driver does not translate them to gorm.ErrDuplicatedKey or
// gorm.ErrForeignKeyViolated, so the driver message is checked as well.
var constraintErrors = []struct {
	sentinel  error
	fragments []string
	code      int
	message   string
}{
	{gorm.ErrDuplicatedKey, []string{"unique constraint", "duplicate key", "duplicate entry"}, domain.CodeAlreadyExists, domain.ErrAlreadyExists.Message},
	{gorm.ErrForeignKeyViolated, []string{"foreign key constraint"}, domain.CodeConflict, domain.ErrConflict.Message},
}

// MapDBError converts GORM and driver errors to domain errors. Errors that
// already carry a domain code pass through unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}

	msg := strings.ToLower(err.Error())
	for _, ce := range constraintErrors {
		if errors.Is(err, ce.sentinel) || containsAny(msg, ce.fragments) {
			return domain.NewAppError(ce.code, ce.message, err)
		}
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
