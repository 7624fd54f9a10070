package models

// User is a registered account. Password holds the bcrypt hash.
type User struct {
	Id       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

type UserDto struct {
	Email string `json:"email"`
	Pass  string `json:"pass"`
}
