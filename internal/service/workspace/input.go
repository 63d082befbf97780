package workspace

import (
	"encoding/json"
	"strings"

	"github.com/heartmarshall/translation-desk/internal/adapter/remote"
)

// ClientInput is the editable part of a client record.
type ClientInput struct {
	Name     string `json:"name"      validate:"required,max=100"`
	CaseType string `json:"case_type" validate:"max=100"`
	CaseDate string `json:"case_date" validate:"omitempty,datetime=2006-01-02"`
	Phone    string `json:"phone"     validate:"max=50"`
	Email    string `json:"email"     validate:"omitempty,email"`
	Address  string `json:"address"   validate:"max=500"`
	Notes    string `json:"notes"     validate:"max=2000"`
}

func (in ClientInput) normalized() ClientInput {
	in.Name = strings.TrimSpace(in.Name)
	in.CaseType = strings.TrimSpace(in.CaseType)
	in.CaseDate = strings.TrimSpace(in.CaseDate)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	return in
}

func (in ClientInput) toRemote() remote.ClientInput {
	return remote.ClientInput{
		Name:     in.Name,
		CaseType: in.CaseType,
		CaseDate: in.CaseDate,
		Phone:    in.Phone,
		Email:    in.Email,
		Address:  in.Address,
		Notes:    in.Notes,
	}
}

type idInput struct {
	ID string `json:"id" validate:"required"`
}

type archiveInput struct {
	ID     string `json:"id"     validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

type selectInput struct {
	ID     string `json:"id"     validate:"required"`
	Result string `json:"result" validate:"required,max=50"`
}

// Rotation directions accepted by RotateMaterial.
const (
	RotateLeft  = "left"
	RotateRight = "right"
)

type rotateInput struct {
	ID        string `json:"id"        validate:"required"`
	Direction string `json:"direction" validate:"required,oneof=left right"`
}

type regionsInput struct {
	ID      string          `json:"id"      validate:"required"`
	Regions json.RawMessage `json:"regions" validate:"required"`
}

type imageInput struct {
	ID        string `json:"id"         validate:"required"`
	ImageData string `json:"image_data" validate:"required"`
}
