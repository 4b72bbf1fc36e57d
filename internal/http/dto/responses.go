package dto

import "github.com/Boris-LAIGLE/customs-document-creator/internal/models"

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type ArtifactResponse struct {
	Ref string `json:"ref"`
}
