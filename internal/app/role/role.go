package role

// Role — роль пользователя в системе
type Role int

const (
	Staff Role = iota // персонал: просмотр тарифов и расчётов
	Admin             // администратор: управление коэффициентами и услугами
)

func (r Role) String() string {
	switch r {
	case Staff:
		return "staff"
	case Admin:
		return "admin"
	}
	return "unknown"
}
