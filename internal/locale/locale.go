package locale

import "strings"

type Lang string

const (
	EN Lang = "en"
	ES Lang = "es"
)

// Detect picks the response language: an explicit query value wins,
// otherwise an Accept-Language header starting with "es", otherwise English.
func Detect(query, acceptLanguage string) Lang {
	if query != "" {
		if strings.EqualFold(strings.TrimSpace(query), "es") {
			return ES
		}
		return EN
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(acceptLanguage)), "es") {
		return ES
	}
	return EN
}

const (
	BookSuccess   = "book_success"
	MissingFields = "missing_fields"
	RateLimited   = "rate_limited"
	SlowDown      = "slow_down"
	InvalidEmail  = "invalid_email"
	InvalidDate   = "invalid_date"
	InvalidTime   = "invalid_time"
	InvalidJSON   = "invalid_json"
	EventSummary  = "event_summary"
	EventIntro    = "event_intro"
	LabelName     = "label_name"
	LabelEmail    = "label_email"
	LabelNotes    = "label_notes"
)

var dict = map[string]map[Lang]string{
	BookSuccess: {
		EN: "Your consultation is confirmed.",
		ES: "Tu consulta ha sido confirmada.",
	},
	MissingFields: {
		EN: "Missing required fields: name, email, date, time",
		ES: "Faltan campos obligatorios: nombre, email, fecha, hora",
	},
	RateLimited: {
		EN: "Too many booking requests. Please try again later.",
		ES: "Demasiadas solicitudes de reserva. Por favor, inténtalo más tarde.",
	},
	SlowDown: {
		EN: "Too many availability requests. Please slow down.",
		ES: "Demasiadas consultas de disponibilidad. Por favor, espera un momento.",
	},
	InvalidEmail: {EN: "Invalid email", ES: "Email inválido"},
	InvalidDate:  {EN: "Invalid date", ES: "Fecha inválida"},
	InvalidTime:  {EN: "Invalid time", ES: "Hora inválida"},
	InvalidJSON:  {EN: "Invalid JSON body", ES: "Cuerpo JSON inválido"},
	EventSummary: {
		EN: "AI Strategy Consultation: ",
		ES: "Consulta de Estrategia de IA: ",
	},
	EventIntro: {
		EN: "Free AI strategy consultation",
		ES: "Consulta gratuita de estrategia de IA",
	},
	LabelName:  {EN: "Name", ES: "Nombre"},
	LabelEmail: {EN: "Email", ES: "Email"},
	LabelNotes: {EN: "Notes", ES: "Notas"},
}

// T returns the message for key in lang, falling back to English and then
// to the key itself.
func T(lang Lang, key string) string {
	m, ok := dict[key]
	if !ok {
		return key
	}
	if s, ok := m[lang]; ok {
		return s
	}
	if s, ok := m[EN]; ok {
		return s
	}
	return key
}
