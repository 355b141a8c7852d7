package utils

import "github.com/google/uuid"

func GenerateUserID() string {
	return uuid.NewString()
}

func GenerateKeyID() string {
	return uuid.NewString()
}
