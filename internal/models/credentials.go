package models

// Credentials identify the signed-in worker against the timesheet service
type Credentials struct {
	Token   string `json:"token"`
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Surname string `json:"surname,omitempty"`
}

// Valid reports whether the credentials can authorize remote calls
func (c Credentials) Valid() bool {
	return c.Token != "" && c.UserID != 0
}

// DisplayName returns the full name when known, the email otherwise
func (c Credentials) DisplayName() string {
	if c.Name != "" && c.Surname != "" {
		return c.Name + " " + c.Surname
	}
	return c.Email
}
