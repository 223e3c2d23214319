package repository

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmehdipour/customer-service/internal/apperr"
	"gorm.io/gorm"
)

// MySQL server error numbers the customer store maps to validation failures.
const (
	erBadNull           = 1048
	erDupEntry          = 1062
	erNoReferencedRow   = 1216
	erTruncatedWrongVal = 1366
	erDataTooLong       = 1406
	erNoReferencedRow2  = 1452
)

var (
	reColumn     = regexp.MustCompile(`(?i)column '([^']+)'`)
	reDupKey     = regexp.MustCompile(`for key '([^']+)'`)
	reForeignKey = regexp.MustCompile("FOREIGN KEY \\(`([^`]+)`\\)")
)

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// wrapError converts store errors into apperr variants. Validation and
// not-found errors pass through; constraint violations reported by MySQL
// become validation errors; anything else is a StoreError.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		return nf
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if v := fromMySQL(myErr); v != nil {
			return v
		}
	}

	return apperr.NewStore(op, err)
}

func fromMySQL(e *mysql.MySQLError) *apperr.ValidationError {
	switch e.Number {
	case erBadNull:
		path := submatch(reColumn, e.Message)
		return &apperr.ValidationError{Message: "customer." + path + " cannot be null", Type: apperr.TypeNotNull, Path: path}
	case erDataTooLong:
		path := submatch(reColumn, e.Message)
		return &apperr.ValidationError{Message: "Validation len on " + path + " failed", Type: apperr.TypeString, Path: path}
	case erTruncatedWrongVal:
		path := submatch(reColumn, e.Message)
		return &apperr.ValidationError{Message: e.Message, Type: apperr.TypeString, Path: path}
	case erDupEntry:
		key := submatch(reDupKey, e.Message)
		if i := strings.LastIndex(key, "."); i >= 0 {
			key = key[i+1:]
		}
		return &apperr.ValidationError{Message: key + " must be unique", Type: apperr.TypeUnique, Path: key}
	case erNoReferencedRow, erNoReferencedRow2:
		path := submatch(reForeignKey, e.Message)
		if path == "" {
			path = string(ColUserID)
		}
		return &apperr.ValidationError{Message: "referenced " + path + " does not exist", Type: apperr.TypeForeignKey, Path: path}
	}
	return nil
}

func submatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
