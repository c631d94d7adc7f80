package session

import "net/http"

const (
	// Default Flash Class
	FlashError   = "error"
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"

	// Default Flash Msg
	AllFieldsRequiredMsg = "All fields are required!"
	BadCredsMsg          = "Hmm... check those credentials."
	CredsTakenMsg        = "Those credentials cannot be used."
	DefaultErrMsg        = "Uh oh! We've run into an issue."
	NoAccessMsg          = "Oops, sending you back somewhere safe."
)

type FlashSessionable interface {
	Flashes(w http.ResponseWriter, r *http.Request) []Flash
	SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error
}

type Flash struct {
	Class string `json:"class"`
	Msg   string `json:"msg"`
}
