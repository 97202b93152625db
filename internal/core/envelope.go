package core

// Envelope is the uniform result of a dispatch: either Text or an error kind with a
// user-facing message.
type Envelope struct {
	Text      string    `json:"text,omitempty"`
	ErrorKind ErrorKind `json:"errorKind,omitempty"`
	Message   string    `json:"message,omitempty"`
}

func TextEnvelope(text string) Envelope {
	return Envelope{Text: text}
}

func ErrorEnvelope(kind ErrorKind, message string) Envelope {
	return Envelope{ErrorKind: kind, Message: message}
}

func (e Envelope) OK() bool {
	return e.ErrorKind == ""
}

// Reply is the string handed back to the UI for either outcome.
func (e Envelope) Reply() string {
	if e.OK() {
		return e.Text
	}
	return e.Message
}

// MissingCredentialMessage is the sentinel reply for a provider with no stored key.
func MissingCredentialMessage(kind ProviderKind) string {
	return "Error: " + kind.DisplayName() + " API key is missing. Please configure the API key in settings."
}

// IsMissingCredentialMessage reports whether text is the sentinel for any provider.
func IsMissingCredentialMessage(text string) bool {
	for _, k := range ProviderKinds {
		if text == MissingCredentialMessage(k) {
			return true
		}
	}
	return false
}
