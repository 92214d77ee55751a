package tariff

import "errors"

// Kind — вид бизнес-ошибки движка. Ошибки этих видов обрабатываются
// локально и возвращаются вызывающему структурированно; наружу как
// "фатальные" уходят только инфраструктурные ошибки хранилища.
type Kind string

const (
	KindValidation     Kind = "validation_failed"
	KindDuplicate      Kind = "duplicate_factor"
	KindFrozen         Kind = "frozen"
	KindInUseImmutable Kind = "in_use_immutable"
	KindNotFound       Kind = "not_found"
	KindMissingFactor  Kind = "missing_factor"
	KindConflict       Kind = "conflict"
)

// Error — структурированный результат нарушения бизнес-правила:
// вид + сообщение + карта ошибок по полям (все нарушения сразу, не первое).
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validationError(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "проверьте корректность заполнения полей",
		Fields:  fields,
	}
}

// KindOf возвращает вид бизнес-ошибки, если err — ошибка движка
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind проверяет err на конкретный вид бизнес-ошибки
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
