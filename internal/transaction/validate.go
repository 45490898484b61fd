package transaction

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// decimal accepts anything decimal.NewFromString parses, such as ".5" or "1e2".
	_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(fl.Field().String())
		return err == nil
	})

	return v
}

// fieldErrors maps draft struct fields to the sentinel reported for them.
var fieldErrors = map[string]struct {
	name string
	err  error
}{
	"Type":        {"type", ErrInvalidType},
	"Amount":      {"amount", ErrInvalidAmount},
	"Description": {"description", ErrEmptyDescription},
	"Date":        {"date", ErrInvalidDate},
}

// Build validates the draft and returns the transaction it describes, without
// an ID. An empty date defaults to today's date.
func Build(d Draft, today time.Time) (Transaction, error) {
	d = Draft{
		Type:        Type(strings.TrimSpace(string(d.Type))),
		Amount:      strings.TrimSpace(d.Amount),
		Description: strings.TrimSpace(d.Description),
		Date:        strings.TrimSpace(d.Date),
	}

	if err := validate.Struct(d); err != nil {
		return Transaction{}, toValidationError(err)
	}

	amount, err := decimal.NewFromString(d.Amount)
	if err != nil || !amount.IsPositive() {
		return Transaction{}, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}

	date := DateOf(today)
	if d.Date != "" {
		date, err = time.Parse(time.DateOnly, d.Date)
		if err != nil {
			return Transaction{}, &ValidationError{Field: "date", Err: ErrInvalidDate}
		}
	}

	return Transaction{
		Type:        d.Type,
		Amount:      amount,
		Description: d.Description,
		Date:        date,
	}, nil
}

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toValidationError(err error) *ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if fe, ok := fieldErrors[verrs[0].StructField()]; ok {
			return &ValidationError{Field: fe.name, Err: fe.err}
		}
	}

	return &ValidationError{Field: "draft", Err: err}
}
