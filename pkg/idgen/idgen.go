package idgen

import (
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// DefaultWidth is the zero-padding width for generated identifiers (SA001).
const DefaultWidth = 3

// maxSequence bounds the probe loop; a prefix that reaches it needs manual
// renumbering, not more retries.
const maxSequence = 99999

var ErrIDSpaceExhausted = errors.New("identifier space exhausted")

// Next allocates the next free identifier of the form prefix + zero-padded
// number for the given column of the given model, using DefaultWidth.
//
// The scope may be a plain *gorm.DB or an open transaction. When the
// identifier guards an insert, the caller MUST pass its own transaction so
// the existence probe and the insert share one atomic unit; allocating
// before the transaction opens re-introduces the duplicate-id race.
// Inside a transaction the prefix is held under an advisory lock until
// commit, so concurrent allocators of the same collection serialize
// instead of colliding on the primary key.
func Next(scope *gorm.DB, model interface{}, column, prefix string) (string, error) {
	return NextWidth(scope, model, column, prefix, DefaultWidth)
}

// NextWidth is Next with an explicit padding width.
func NextWidth(scope *gorm.DB, model interface{}, column, prefix string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	// Transaction-scoped; two transactions allocating the same prefix
	// cannot both see the same MAX and race to the same candidate.
	if err := scope.Exec("SELECT pg_advisory_xact_lock(?)", lockKey(prefix)).Error; err != nil {
		return "", fmt.Errorf("lock prefix %s: %w", prefix, err)
	}

	// Soft-deleted rows keep their primary key, so the search runs
	// unscoped; a deleted row still occupies its identifier.
	var current sql.NullString
	err := scope.Unscoped().Model(model).
		Where(column+" LIKE ?", prefix+"%").
		Select("MAX(" + column + ")").
		Scan(&current).Error
	if err != nil {
		return "", fmt.Errorf("find max %s: %w", column, err)
	}

	candidate := 1
	if current.Valid {
		if n, ok := ParseSequence(current.String, prefix); ok {
			candidate = n + 1
		}
	}

	// Probe for gaps left by concurrent allocators or manual numbering.
	for ; candidate <= maxSequence; candidate++ {
		id := Format(prefix, candidate, width)
		var count int64
		if err := scope.Unscoped().Model(model).Where(column+" = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("probe %s: %w", id, err)
		}
		if count == 0 {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w: prefix %s", ErrIDSpaceExhausted, prefix)
}

func lockKey(prefix string) int64 {
	h := fnv.New64a()
	h.Write([]byte("idgen/" + prefix))
	return int64(h.Sum64())
}

// Format renders prefix + zero-padded sequence. Sequences wider than the
// padding keep all their digits.
func Format(prefix string, n, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// ParseSequence extracts the numeric suffix of an identifier carrying the
// given prefix. Returns false when the value does not parse.
func ParseSequence(value, prefix string) (int, bool) {
	if !strings.HasPrefix(value, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(value[len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
