package document

// Action is a typed, immutable instruction describing one user-triggered
// effect. It is a closed union by convention: Type selects the handler,
// and each kind reads only the fields it needs. Produced by the UI layer,
// consumed exactly once by the dispatcher.
type Action struct {
	Type string `json:"type"`

	// navigate
	Target string `json:"target,omitempty"`

	// submit / deleteRecord
	Table    string            `json:"table,omitempty"`
	Endpoint string            `json:"endpoint,omitempty"`
	Method   string            `json:"method,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
	RecordID string            `json:"recordId,omitempty"`

	// submit / auth / ai: maps destination field → form field id.
	Fields map[string]string `json:"fields,omitempty"`

	// popup
	Title   string         `json:"title,omitempty"`
	Message string         `json:"message,omitempty"`
	Variant string         `json:"variant,omitempty"`
	Buttons []ActionButton `json:"buttons,omitempty"`

	// ai
	Prompt      string `json:"prompt,omitempty"`
	AIAction    string `json:"aiAction,omitempty"`
	Persona     string `json:"persona,omitempty"`
	SaveToField string `json:"saveToField,omitempty"`

	// chaining
	OnSuccess *Action `json:"onSuccess,omitempty"`
	OnError   *Action `json:"onError,omitempty"`
}

// ActionButton is one button of a popup descriptor; pressing it feeds
// its action back into the dispatcher.
type ActionButton struct {
	Label  string  `json:"label"`
	Action *Action `json:"action,omitempty"`
}

// Action kinds understood by the built-in handler set.
const (
	ActionNavigate     = "navigate"
	ActionGoBack       = "goBack"
	ActionPopup        = "popup"
	ActionSubmit       = "submit"
	ActionDeleteRecord = "deleteRecord"
	ActionAuthLogin    = "auth:login"
	ActionAuthSignup   = "auth:signup"
	ActionAuthLogout   = "auth:logout"
	ActionAI           = "ai"
)
