package dto

// Data Transfer Objects for the token endpoints

// TokenObtainRequest: credentials exchanged for a token pair
type TokenObtainRequest struct {
	Username string
	Password string
}

// TokenPairResponse: response payload after successful authentication or refresh
type TokenPairResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// BindTokenObtain reads {username, password}.
func BindTokenObtain(p Payload) (*TokenObtainRequest, error) {
	errs := NewValidationError()
	username := p.readString("username", stringRule{required: true}, false, errs)
	password := p.readString("password", stringRule{required: true}, false, errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &TokenObtainRequest{Username: *username, Password: *password}, nil
}

// BindToken reads a single required token field, "refresh" or "token".
func BindToken(p Payload, field string) (string, error) {
	errs := NewValidationError()
	v := p.readString(field, stringRule{required: true}, false, errs)
	if err := errs.Err(); err != nil {
		return "", err
	}
	return *v, nil
}
