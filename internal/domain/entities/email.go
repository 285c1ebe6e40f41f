package entities

// Email is an outbound plain-text message
type Email struct {
	To      string
	Subject string
	Body    string
}
