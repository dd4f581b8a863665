package model

// Profile holds the display attributes of a user (base_users table).
type Profile struct {
	UserID       int64
	Name         string
	Surname      string
	Email        string
	Gender       string
	BirthDate    Timestamp
	ProfileImage string // base64
}

type ProfileRequest struct {
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	Gender       string    `json:"gender"`
	BirthDate    Timestamp `json:"birthDate"`
	ProfileImage string    `json:"profileImage"`
}

type ProfileResponse struct {
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	Gender       string    `json:"gender"`
	BirthDate    Timestamp `json:"birthDate"`
	ProfileImage string    `json:"profileImage"`
}
