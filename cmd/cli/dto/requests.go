package dto

// Request bodies sent by the CLI. Optional fields are pointers so that a
// partial update only carries what the user passed on the command line.

type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Password  string `json:"password"`
	Confirm   string `json:"confirm"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Password  *string `json:"password,omitempty"`
	Confirm   *string `json:"confirm,omitempty"`
}

type CommentRequest struct {
	Text  *string `json:"text,omitempty"`
	Home  *string `json:"home,omitempty"`
	Reply *int64  `json:"reply,omitempty"`
}
