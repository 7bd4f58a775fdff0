package domain

// Flow вид многошагового диалога
type Flow string

const (
	FlowNone         Flow = ""
	FlowRegistration Flow = "registration"
	FlowActivity     Flow = "activity"
	FlowRating       Flow = "rating"
	FlowBroadcast    Flow = "broadcast"
)

// Step текущий шаг внутри диалога
type Step string

const (
	StepFullName Step = "full_name"
	StepPhone    Step = "phone"
	StepCity     Step = "city"
	StepAge      Step = "age"
	StepCategory Step = "category"
	StepValue    Step = "value"
	StepPeriod   Step = "period"
	StepText     Step = "text"
)

// Ключи накопленных данных
const (
	DataFullName = "full_name"
	DataPhone    = "phone"
	DataCity     = "city"
	DataCategory = "category"
)

// UserState состояние диалога одного пользователя. Не сохраняется в основную БД.
type UserState struct {
	UserID int64             `json:"user_id"`
	Flow   Flow              `json:"flow"`
	Step   Step              `json:"step"`
	Data   map[string]string `json:"data,omitempty"`
}

// In проверяет, что пользователь находится на шаге step диалога flow
func (s *UserState) In(flow Flow, step Step) bool {
	return s != nil && s.Flow == flow && s.Step == step
}

// Get возвращает накопленное значение или пустую строку
func (s *UserState) Get(key string) string {
	if s == nil || s.Data == nil {
		return ""
	}
	return s.Data[key]
}

// Set сохраняет значение поля
func (s *UserState) Set(key, value string) {
	if s.Data == nil {
		s.Data = make(map[string]string)
	}
	s.Data[key] = value
}
